// Package interview builds interview preparation plans from the static
// catalog tables, a few text heuristics and the user's recorded skills.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/catalog"
	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
	"github.com/careerkitsune/careerkitsune-ai/internal/intent"
	"github.com/careerkitsune/careerkitsune-ai/internal/skillgap"

	"go.uber.org/zap"
)

// ErrNoSkillSource is returned when the generator has nowhere to read skills from.
var ErrNoSkillSource = errors.New("interview: skill source is not configured")

const defaultSkillTimeout = 10 * time.Second

// SkillSource reads the skills a user has on record.
type SkillSource interface {
	UserSkills(ctx context.Context, userID string) ([]domain.Skill, error)
}

type Request struct {
	UserID             string
	CompanyName        string
	Role               string
	TimeUntilInterview string
	JobDescription     string
}

// Plan is the preparation plan for one interview. It is not modified after
// Generate returns it.
type Plan struct {
	CompanyName         string            `json:"company_name" yaml:"company_name"`
	Role                string            `json:"role" yaml:"role"`
	TimeUntilInterview  string            `json:"time_until_interview" yaml:"time_until_interview"`
	TechnicalTopics     []string          `json:"technical_topics" yaml:"technical_topics"`
	BehavioralTopics    []string          `json:"behavioral_topics" yaml:"behavioral_topics"`
	CompanySpecificInfo string            `json:"company_specific_info" yaml:"company_specific_info"`
	MockQuestions       Questions         `json:"mock_questions" yaml:"mock_questions"`
	PreparationSchedule []ScheduleEntry   `json:"preparation_schedule" yaml:"preparation_schedule"`
	SkillGapAnalysis    skillgap.Analysis `json:"skill_gap_analysis" yaml:"skill_gap_analysis"`
	OverallAssessment   Assessment        `json:"overall_assessment" yaml:"overall_assessment"`
}

type Generator struct {
	skills  SkillSource
	logger  *zap.Logger
	timeout time.Duration
}

func NewGenerator(skills SkillSource, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{skills: skills, logger: logger, timeout: defaultSkillTimeout}
}

// SetSkillTimeout bounds the skill lookup. Non-positive values are ignored.
func (g *Generator) SetSkillTimeout(d time.Duration) {
	if d > 0 {
		g.timeout = d
	}
}

// Generate builds the whole plan or returns an error without a partial plan.
// A failed skill lookup degrades the skill-gap analysis instead of failing.
func (g *Generator) Generate(ctx context.Context, req Request) (*Plan, error) {
	if g.skills == nil {
		return nil, ErrNoSkillSource
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}

	timeUntil := strings.TrimSpace(req.TimeUntilInterview)
	if timeUntil == "" {
		timeUntil = intent.SoonText
	}

	roleKey, topics := catalog.LookupRole(req.Role)
	_, pattern := catalog.LookupCompany(req.CompanyName)

	required := ExtractRequiredSkills(req.JobDescription)
	if len(required) == 0 {
		required = append([]string(nil), topics.Technical...)
	}

	schedule := []ScheduleEntry{}
	totalDays := intent.DefaultDays
	if days, ok := intent.ParseDays(timeUntil); ok {
		totalDays = days
		schedule = BuildSchedule(days)
	}

	analysis := g.analyze(ctx, req.UserID, required)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}

	plan := &Plan{
		CompanyName:         req.CompanyName,
		Role:                req.Role,
		TimeUntilInterview:  timeUntil,
		TechnicalTopics:     topics.Technical,
		BehavioralTopics:    topics.Behavioral,
		CompanySpecificInfo: CompanyInfo(req.CompanyName, pattern),
		MockQuestions:       MockQuestions(roleKey, topics, pattern),
		PreparationSchedule: schedule,
		SkillGapAnalysis:    analysis,
		OverallAssessment:   Assess(analysis, totalDays),
	}

	g.logger.Debug("interview plan generated",
		zap.String("role_key", roleKey),
		zap.Int("total_days", totalDays),
		zap.Int("required_skills", len(required)),
		zap.Int("gaps", len(analysis.GapsIdentified)),
		zap.String("readiness", string(plan.OverallAssessment.Readiness)),
	)

	return plan, nil
}

func (g *Generator) analyze(ctx context.Context, userID string, required []string) skillgap.Analysis {
	lookupCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	skills, err := g.skills.UserSkills(lookupCtx, userID)
	if err != nil {
		g.logger.Warn("reading user skills failed, continuing without them", zap.String("user_id", userID), zap.Error(err))
		return skillgap.Unavailable(required)
	}

	return skillgap.Analyze(domain.SkillNames(skills), required)
}

// CompanyInfo describes how the company usually interviews.
func CompanyInfo(company string, pattern catalog.CompanyPattern) string {
	return fmt.Sprintf("%s typically uses %s. They focus on %s. %s",
		company,
		pattern.Format,
		strings.Join(pattern.Focus, ", "),
		strings.Join(pattern.UniqueAspects, " "),
	)
}
