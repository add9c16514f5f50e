// Package dialogue is the conversational front of the assistant: it routes an
// utterance through the session state machine and always answers with text.
package dialogue

import (
	"context"
	"strings"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
	"github.com/careerkitsune/careerkitsune-ai/internal/filtering"
	"github.com/careerkitsune/careerkitsune-ai/internal/intent"
	"github.com/careerkitsune/careerkitsune-ai/internal/interview"
	"github.com/careerkitsune/careerkitsune-ai/internal/logger"
	"github.com/careerkitsune/careerkitsune-ai/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultSearchLimit = 5
	defaultTimeout     = 10 * time.Second
	logUtteranceLimit  = 80
)

// Thinking pauses before synthesized replies.
var (
	searchDelay = [2]time.Duration{800 * time.Millisecond, 1500 * time.Millisecond}
	applyDelay  = [2]time.Duration{1500 * time.Millisecond, 3 * time.Second}
	planDelay   = [2]time.Duration{2 * time.Second, 4 * time.Second}
)

// Jobs fetches postings from the persistence backend.
type Jobs interface {
	RecentJobs(ctx context.Context, limit int) ([]domain.Job, error)
	JobsMatchingSkills(ctx context.Context, skillIDs []string, limit int) ([]domain.Job, error)
}

// Applications records and lists a user's job applications.
type Applications interface {
	CreateApplication(ctx context.Context, app domain.NewApplication) (*domain.Application, error)
	UserApplications(ctx context.Context, userID string) ([]domain.Application, error)
}

// Deps are the backends an Assistant talks to. Any of them may be nil; the
// features that need a missing one answer with an apology.
type Deps struct {
	Jobs         Jobs
	Skills       interview.SkillSource
	Applications Applications
	Logger       *zap.Logger
}

// Options tune search size, backend timeouts and reply pacing.
type Options struct {
	// SearchLimit caps how many jobs a search fetches.
	SearchLimit int
	// CollaboratorTimeout bounds every backend call.
	CollaboratorTimeout time.Duration
	Pacer               utils.Pacer
	// Filters run over fetched jobs before they are cached. Nil means
	// filtering.Default(true, nil, "").
	Filters []filtering.Filter
}

// Assistant routes utterances through the session state machine.
type Assistant struct {
	jobs      Jobs
	skills    interview.SkillSource
	apps      Applications
	generator *interview.Generator
	logger    *zap.Logger

	limit   int
	timeout time.Duration
	pacer   utils.Pacer
	filters []filtering.Filter
}

// NewAssistant fills zero Options with defaults.
func NewAssistant(deps Deps, opts Options) *Assistant {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = defaultSearchLimit
	}
	if opts.CollaboratorTimeout <= 0 {
		opts.CollaboratorTimeout = defaultTimeout
	}
	if opts.Filters == nil {
		opts.Filters = filtering.Default(true, nil, "")
	}

	generator := interview.NewGenerator(deps.Skills, log.Named("interview"))
	generator.SetSkillTimeout(opts.CollaboratorTimeout)

	return &Assistant{
		jobs:      deps.Jobs,
		skills:    deps.Skills,
		apps:      deps.Applications,
		generator: generator,
		logger:    log,
		limit:     opts.SearchLimit,
		timeout:   opts.CollaboratorTimeout,
		pacer:     opts.Pacer,
		filters:   opts.Filters,
	}
}

// Handle processes one utterance against s and returns the reply. It mutates
// s in place and never fails: backend errors become apology replies. An empty
// userID means the user is not logged in.
func (a *Assistant) Handle(ctx context.Context, s *Session, utterance, userID string) string {
	log := logger.WithSession(a.logger, s.ID, userID)
	text := strings.TrimSpace(utterance)
	lower := strings.ToLower(text)

	pending := s.Pending
	s.Pending = nil

	if s.Mode == ModeInterviewPrep {
		log.Debug("prep utterance", zap.String("stage", string(s.Stage())), zap.String("utterance", utils.TruncateForLog(text, logUtteranceLimit)))
		return a.handlePrep(ctx, log, s, text, userID)
	}

	kind := intent.Classify(lower)
	log.Debug("utterance classified", zap.Stringer("intent", kind), zap.String("utterance", utils.TruncateForLog(text, logUtteranceLimit)))

	switch kind {
	case intent.InterviewMention:
		if userID == "" {
			return replyPrepLogin
		}
		timeUntil := intent.DescribeTimeframe(lower)
		s.enterPrep(timeUntil)
		log.Info("interview preparation started", zap.String("time_until_interview", timeUntil))
		return replyPrepStarted(timeUntil)
	case intent.ApplyConfirm:
		if pending == nil || pending.Kind != ActionApplyTo {
			return replyFallback
		}
		return a.confirmApply(ctx, log, pending, userID)
	case intent.Greeting:
		return replyGreeting
	case intent.JobSearch:
		return a.searchJobs(ctx, log, s, userID)
	case intent.NextJob:
		if len(s.CachedJobs) == 0 {
			return replyNoJobsLoaded
		}
		return replyNextJob(s.advanceJob())
	case intent.JobDetails:
		job, ok := s.CurrentJob()
		if !ok {
			return replyNoJobsLoaded
		}
		return replyJobDetails(job)
	case intent.Apply:
		return a.proposeApply(s, lower, userID)
	case intent.Resume:
		if strings.Contains(lower, "upload") {
			return replyResumeUpload
		}
		return replyResume
	case intent.LinkedIn:
		return replyLinkedIn
	case intent.Status:
		return replyStatus
	case intent.Help:
		return replyHelp
	default:
		return replyFallback
	}
}

func (a *Assistant) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.timeout)
}

func (a *Assistant) searchJobs(ctx context.Context, log *zap.Logger, s *Session, userID string) string {
	if userID == "" {
		return replySearchLogin
	}
	if a.jobs == nil || a.skills == nil {
		log.Error("job search is not wired to a backend")
		return replySearchError
	}

	skillsCtx, cancel := a.call(ctx)
	skills, err := a.skills.UserSkills(skillsCtx, userID)
	cancel()
	if err != nil {
		log.Warn("reading user skills failed", zap.Error(err))
		return replySearchError
	}

	if err := a.pacer.Between(ctx, searchDelay[0], searchDelay[1]); err != nil {
		log.Warn("search interrupted", zap.Error(err))
		return replySearchError
	}

	bySkills := len(skills) > 0
	jobsCtx, cancel := a.call(ctx)
	defer cancel()

	var jobs []domain.Job
	if bySkills {
		jobs, err = a.jobs.JobsMatchingSkills(jobsCtx, domain.SkillIDs(skills), a.limit)
	} else {
		jobs, err = a.jobs.RecentJobs(jobsCtx, a.limit)
	}
	if err != nil {
		log.Warn("fetching jobs failed", zap.Bool("by_skills", bySkills), zap.Error(err))
		return replySearchError
	}

	jobs, err = filtering.Run(jobsCtx, filtering.Deps{History: a.apps, UserID: userID, Logger: log}, a.filters, jobs)
	if err != nil {
		log.Warn("filtering jobs failed", zap.Error(err))
		return replySearchError
	}

	s.cacheJobs(jobs)
	log.Info("jobs cached", zap.Int("count", len(jobs)), zap.Bool("by_skills", bySkills))

	first, ok := s.CurrentJob()
	switch {
	case !ok && bySkills:
		return replyNoMatchingJobs
	case !ok:
		return replyNoRecentJobs
	case bySkills:
		return replySkillResults(first, len(jobs))
	default:
		return replyRecentResults(first)
	}
}

func (a *Assistant) proposeApply(s *Session, lower, userID string) string {
	if userID == "" {
		return replyApplyLogin
	}
	job, ok := s.CurrentJob()
	if !ok {
		return replyNoJobsLoaded
	}
	if !strings.Contains(lower, "apply on my behalf") {
		return replyApplyHint
	}

	s.Pending = &PendingAction{
		Kind:    ActionApplyTo,
		JobID:   job.ID,
		Title:   job.Title,
		Company: job.CompanyName(theCompany),
	}
	return replyConfirmApply(s.Pending)
}

func (a *Assistant) confirmApply(ctx context.Context, log *zap.Logger, pending *PendingAction, userID string) string {
	if userID == "" {
		return replyApplyLogin
	}
	if a.apps == nil {
		log.Error("applications are not wired to a backend")
		return replyApplyError
	}

	if err := a.pacer.Between(ctx, applyDelay[0], applyDelay[1]); err != nil {
		log.Warn("application interrupted", zap.Error(err))
		return replyApplyError
	}

	callCtx, cancel := a.call(ctx)
	defer cancel()

	app, err := a.apps.CreateApplication(callCtx, domain.NewApplication{
		JobID:  pending.JobID,
		UserID: userID,
		Title:  pending.Title,
		Status: domain.StatusApplied,
		IsRead: false,
	})
	if err != nil {
		log.Error("creating application failed", zap.String("job_id", pending.JobID), zap.Error(err))
		return replyApplyError
	}

	applicationID := ""
	if app != nil {
		applicationID = app.ID
	}
	log.Info("application submitted", zap.String("job_id", pending.JobID), zap.String("application_id", applicationID))
	return replyApplied(pending)
}
