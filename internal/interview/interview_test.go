package interview

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/careerkitsune/careerkitsune-ai/internal/catalog"
	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
	"github.com/careerkitsune/careerkitsune-ai/internal/skillgap"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubSkills struct {
	skills []domain.Skill
	err    error
	calls  int
}

func (s *stubSkills) UserSkills(_ context.Context, _ string) ([]domain.Skill, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.skills, nil
}

func TestBuildScheduleBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		days   int
		labels []string
	}{
		{days: 1, labels: []string{"Day 1 (Today)"}},
		{days: 2, labels: []string{"Day 1 (Today)", "Day 2 (Tomorrow)"}},
		{days: 6, labels: []string{"Days 1-2", "Days 3-5", "Days 6-7"}},
		{days: 7, labels: []string{"Days 1-2", "Days 3-5", "Days 6-7"}},
		{days: 8, labels: []string{"Week 1", "Week 2"}},
		{days: 14, labels: []string{"Week 1", "Week 2"}},
		{days: 20, labels: []string{"Week 1", "Week 2", "Final Week"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.labels, "|"), func(t *testing.T) {
			t.Parallel()
			schedule := BuildSchedule(tt.days)
			if len(schedule) != len(tt.labels) {
				t.Fatalf("%d days: expected %d entries, got %d", tt.days, len(tt.labels), len(schedule))
			}
			for i, entry := range schedule {
				if entry.Day != tt.labels[i] {
					t.Fatalf("%d days: entry %d expected %q, got %q", tt.days, i, tt.labels[i], entry.Day)
				}
				if len(entry.Tasks) == 0 {
					t.Fatalf("%d days: entry %q has no tasks", tt.days, entry.Day)
				}
			}
		})
	}
}

func TestBuildScheduleReturnsCopies(t *testing.T) {
	first := BuildSchedule(1)
	first[0].Tasks[0] = "changed"

	if BuildSchedule(1)[0].Tasks[0] != "Research company and role (1 hour)" {
		t.Fatalf("schedule table was mutated through a returned entry")
	}
}

func TestReadinessFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ratio  float64
		days   int
		expect Readiness
	}{
		{name: "big gaps little time", ratio: 0.6, days: 5, expect: ReadinessLow},
		{name: "moderate gaps", ratio: 0.4, days: 10, expect: ReadinessMedium},
		{name: "few gaps plenty of time", ratio: 0.1, days: 20, expect: ReadinessHigh},
		{name: "big gaps plenty of time", ratio: 0.6, days: 7, expect: ReadinessMedium},
		{name: "no gaps but rushed", ratio: 0, days: 2, expect: ReadinessMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ReadinessFor(tt.ratio, tt.days); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestAssessFocusAreas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		gaps   []string
		days   int
		expect []string
	}{
		{
			name:   "gaps fill all slots",
			gaps:   []string{"A", "B", "C", "D"},
			days:   5,
			expect: []string{"A", "B", "C"},
		},
		{
			name:   "short window pads with technique first",
			gaps:   []string{"A"},
			days:   5,
			expect: []string{"A", techniqueFocus, companyFocus},
		},
		{
			name:   "long window skips technique",
			gaps:   nil,
			days:   10,
			expect: []string{companyFocus, questionsFocus},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			analysis := skillgap.Analysis{RequiredSkills: []string{"A", "B", "C", "D", "E", "F"}, GapsIdentified: tt.gaps}
			got := Assess(analysis, tt.days)
			if !reflect.DeepEqual(got.FocusAreas, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got.FocusAreas)
			}
			if got.HonestFeedback == "" {
				t.Fatalf("expected feedback text")
			}
		})
	}
}

func TestReadinessLabel(t *testing.T) {
	if ReadinessHigh.Label() != "High ✅" || ReadinessMedium.Label() != "Medium ⚠️" || ReadinessLow.Label() != "Low ❌" {
		t.Fatalf("unexpected readiness labels")
	}
}

func TestExtractRequiredSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		description string
		expect      []string
	}{
		{
			name:        "takes three words",
			description: "We want someone proficient in Go and Kubernetes every day.",
			expect:      []string{"Go and Kubernetes"},
		},
		{
			name:        "strips trailing separator",
			description: "Hands-on experience with Postgres; remote ok",
			expect:      []string{"Postgres; remote ok"},
		},
		{
			name:        "single trailing separator",
			description: "Experience with Postgres;",
			expect:      []string{"Postgres"},
		},
		{
			name:        "drops short candidates",
			description: "Knowledge of Go. Familiar with AWS!",
			expect:      []string{"AWS"},
		},
		{
			name:        "several lead-ins in one sentence",
			description: "Experience with Docker and knowledge of Linux",
			expect:      []string{"Docker and knowledge", "Linux"},
		},
		{
			name:        "no lead-ins",
			description: "A fun place to work",
			expect:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractRequiredSkills(tt.description)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestMockQuestions(t *testing.T) {
	key, topics := catalog.LookupRole("Software Engineer")
	_, pattern := catalog.LookupCompany("Google")

	q := MockQuestions(key, topics, pattern)
	if len(q.Technical) != 5 || len(q.Behavioral) != 5 {
		t.Fatalf("expected 5 questions each, got %d/%d", len(q.Technical), len(q.Behavioral))
	}
	if q.Technical[0] != "Can you explain your approach to Data structures & algorithms?" {
		t.Fatalf("unexpected first technical question: %q", q.Technical[0])
	}
	if q.Technical[3] != "How do you ensure quality in your code?" {
		t.Fatalf("unexpected quality question: %q", q.Technical[3])
	}
	if q.Behavioral[0] != "Tell me about a time when you demonstrated Algorithm efficiency." {
		t.Fatalf("unexpected first behavioral question: %q", q.Behavioral[0])
	}

	key, topics = catalog.LookupRole("chef")
	if got := MockQuestions(key, topics, pattern).Technical[3]; got != "How do you ensure quality in your work?" {
		t.Fatalf("unexpected quality question for default role: %q", got)
	}
}

func TestGenerateSoftwareEngineerFiveDays(t *testing.T) {
	skills := &stubSkills{skills: []domain.Skill{{ID: "s1", Name: "system design"}}}
	gen := NewGenerator(skills, zap.NewNop())

	plan, err := gen.Generate(context.Background(), Request{
		UserID:             "u1",
		CompanyName:        "Acme",
		Role:               "software engineer",
		TimeUntilInterview: "in 5 days",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.SkillGapAnalysis.RequiredSkills) != 6 {
		t.Fatalf("expected default software engineer skills, got %v", plan.SkillGapAnalysis.RequiredSkills)
	}
	if len(plan.SkillGapAnalysis.GapsIdentified) != 5 {
		t.Fatalf("expected 5 gaps, got %v", plan.SkillGapAnalysis.GapsIdentified)
	}
	if plan.OverallAssessment.Readiness != ReadinessLow {
		t.Fatalf("expected low readiness, got %s", plan.OverallAssessment.Readiness)
	}
	if len(plan.PreparationSchedule) != 3 {
		t.Fatalf("expected week band schedule, got %d entries", len(plan.PreparationSchedule))
	}
	if !strings.HasPrefix(plan.CompanySpecificInfo, "Acme typically uses Combination of technical and behavioral interviews.") {
		t.Fatalf("unexpected company info: %q", plan.CompanySpecificInfo)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	gen := NewGenerator(&stubSkills{}, nil)
	req := Request{UserID: "u1", CompanyName: "Amazon", Role: "Data Scientist", TimeUntilInterview: "in 3 weeks", JobDescription: "Proficient in Python and SQL."}

	first, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical plans for identical input")
	}
	if !reflect.DeepEqual(first.SkillGapAnalysis.RequiredSkills, []string{"Python and SQL"}) {
		t.Fatalf("expected skills from description, got %v", first.SkillGapAnalysis.RequiredSkills)
	}
}

func TestGenerateSkillLookupFailureDegrades(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gen := NewGenerator(&stubSkills{err: errors.New("db down")}, zap.New(core))

	plan, err := gen.Generate(context.Background(), Request{UserID: "u1", CompanyName: "Acme", Role: "software engineer", TimeUntilInterview: "in 5 days"})
	if err != nil {
		t.Fatalf("skill failure must not fail the plan: %v", err)
	}

	if plan.SkillGapAnalysis.GapsIdentified[0] != skillgap.UnavailableGap {
		t.Fatalf("expected unavailable gap, got %v", plan.SkillGapAnalysis.GapsIdentified)
	}
	if plan.OverallAssessment.FocusAreas[0] != skillgap.UnavailableGap {
		t.Fatalf("expected unavailable gap as first focus area, got %v", plan.OverallAssessment.FocusAreas)
	}
	if logs.FilterMessage("reading user skills failed, continuing without them").Len() != 1 {
		t.Fatalf("expected a warning about the failed lookup")
	}
}

func TestGenerateWithoutTimeframe(t *testing.T) {
	gen := NewGenerator(&stubSkills{}, nil)

	plan, err := gen.Generate(context.Background(), Request{UserID: "u1", CompanyName: "Acme", Role: "chef"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TimeUntilInterview != "soon" {
		t.Fatalf("expected soon, got %q", plan.TimeUntilInterview)
	}
	if len(plan.PreparationSchedule) != 0 {
		t.Fatalf("expected empty schedule, got %d entries", len(plan.PreparationSchedule))
	}
	// No skills at all against 5 default topics over the default 30 days.
	if plan.OverallAssessment.Readiness != ReadinessMedium {
		t.Fatalf("expected medium readiness, got %s", plan.OverallAssessment.Readiness)
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := NewGenerator(nil, nil).Generate(context.Background(), Request{}); !errors.Is(err, ErrNoSkillSource) {
		t.Fatalf("expected ErrNoSkillSource, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	skills := &stubSkills{}
	plan, err := NewGenerator(skills, nil).Generate(ctx, Request{Role: "software engineer"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if plan != nil {
		t.Fatalf("expected no partial plan")
	}
	if skills.calls != 0 {
		t.Fatalf("expected no skill lookup after cancellation")
	}
}
