package dialogue

import (
	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
	"github.com/careerkitsune/careerkitsune-ai/internal/interview"
)

// Mode is the top-level conversation state.
type Mode string

const (
	ModeIdle          Mode = "idle"
	ModeInterviewPrep Mode = "interview_prep"
)

// Stage is the position inside the interview preparation sub-dialogue.
type Stage string

const (
	StageCollectingCompany     Stage = "collecting_company"
	StageCollectingRole        Stage = "collecting_role"
	StageCollectingDescription Stage = "collecting_description"
	StageComplete              Stage = "complete"
)

// Session is the state of one conversation. It is owned by a single caller
// at a time; stores hand out copies.
type Session struct {
	ID              string         `json:"id"`
	Mode            Mode           `json:"mode"`
	CachedJobs      []domain.Job   `json:"cached_jobs,omitempty"`
	CurrentJobIndex int            `json:"current_job_index"`
	Prep            *PrepState     `json:"prep,omitempty"`
	Pending         *PendingAction `json:"pending,omitempty"`
}

// PrepState is present only while Mode is ModeInterviewPrep. Fields fill in
// stage order: company, role, description, then the plan.
type PrepState struct {
	Stage              Stage           `json:"stage"`
	CompanyName        string          `json:"company_name,omitempty"`
	Role               string          `json:"role,omitempty"`
	TimeUntilInterview string          `json:"time_until_interview,omitempty"`
	JobDescription     string          `json:"job_description,omitempty"`
	Plan               *interview.Plan `json:"plan,omitempty"`
}

// ActionKind names a side effect waiting for confirmation.
type ActionKind string

const ActionApplyTo ActionKind = "apply_to"

// PendingAction is a side effect proposed on the previous turn that waits for
// an explicit confirmation. It survives exactly one turn.
type PendingAction struct {
	Kind    ActionKind `json:"kind"`
	JobID   string     `json:"job_id"`
	Title   string     `json:"title"`
	Company string     `json:"company"`
}

// NewSession returns an idle session with no cached jobs.
func NewSession(id string) *Session {
	return &Session{ID: id, Mode: ModeIdle}
}

// Stage returns the prep stage, or an empty stage outside interview prep.
func (s *Session) Stage() Stage {
	if s.Mode != ModeInterviewPrep || s.Prep == nil {
		return ""
	}
	return s.Prep.Stage
}

// CurrentJob returns the job under the cursor.
func (s *Session) CurrentJob() (domain.Job, bool) {
	if len(s.CachedJobs) == 0 {
		return domain.Job{}, false
	}
	idx := s.CurrentJobIndex % len(s.CachedJobs)
	if idx < 0 {
		idx = 0
	}
	return s.CachedJobs[idx], true
}

func (s *Session) enterPrep(timeUntil string) {
	s.Mode = ModeInterviewPrep
	s.Prep = &PrepState{Stage: StageCollectingCompany, TimeUntilInterview: timeUntil}
}

func (s *Session) leavePrep() {
	s.Mode = ModeIdle
	s.Prep = nil
}

func (s *Session) cacheJobs(jobs []domain.Job) {
	s.CachedJobs = jobs
	s.CurrentJobIndex = 0
}

func (s *Session) advanceJob() domain.Job {
	s.CurrentJobIndex = (s.CurrentJobIndex + 1) % len(s.CachedJobs)
	return s.CachedJobs[s.CurrentJobIndex]
}
