package dialogue

import (
	"context"
	"strings"

	"github.com/careerkitsune/careerkitsune-ai/internal/intent"
	"github.com/careerkitsune/careerkitsune-ai/internal/interview"

	"go.uber.org/zap"
)

// followUp routes a question about a finished plan to one of its views.
type followUp struct {
	name     string
	keywords []string
	render   func(*PrepState) string
}

// Checked in order; "interview questions" lands on behavioral because
// "questions" is tested first.
var followUps = []followUp{
	{name: "technical", keywords: []string{"technical", "topics", "study"}, render: technicalView},
	{name: "behavioral", keywords: []string{"behavioral", "questions", "star"}, render: behavioralView},
	{name: "schedule", keywords: []string{"schedule", "plan", "preparation"}, render: func(p *PrepState) string { return ScheduleView(p.Plan.PreparationSchedule) }},
	{name: "mock", keywords: []string{"mock", "practice", "interview questions"}, render: mockView},
	{name: "skills", keywords: []string{"skill", "gap", "weakness"}, render: skillGapView},
}

var exitKeywords = []string{"exit", "done", "finish", "thank"}

func (a *Assistant) handlePrep(ctx context.Context, log *zap.Logger, s *Session, text, userID string) string {
	if userID == "" {
		return replyPrepLogin
	}

	prep := s.Prep
	if prep == nil {
		s.leavePrep()
		return replyPrepReset
	}

	switch prep.Stage {
	case StageCollectingCompany:
		if text == "" {
			return replyAskCompanyMore
		}
		prep.CompanyName = text
		prep.Stage = StageCollectingRole
		return replyAskRoleFor(text)

	case StageCollectingRole:
		if text == "" {
			return replyAskRoleMore
		}
		prep.Role = text
		prep.Stage = StageCollectingDescription
		return replyAskDescription

	case StageCollectingDescription:
		if text == "" {
			return replyAskDescMore
		}
		if lower := strings.ToLower(text); lower == "no description" || lower == "no" {
			prep.JobDescription = ""
		} else {
			prep.JobDescription = text
		}
		return a.completePrep(ctx, log, s, userID)

	case StageComplete:
		if prep.Plan == nil {
			s.leavePrep()
			return replyPrepReset
		}
		lower := strings.ToLower(text)
		for _, f := range followUps {
			if intent.ContainsAny(lower, f.keywords...) {
				log.Debug("plan follow-up", zap.String("view", f.name))
				return f.render(prep)
			}
		}
		if intent.ContainsAny(lower, exitKeywords...) {
			s.leavePrep()
			log.Info("interview preparation finished")
			return replyPrepExit
		}
		return prepMenu(prep)

	default:
		s.leavePrep()
		return replyPrepReset
	}
}

func (a *Assistant) completePrep(ctx context.Context, log *zap.Logger, s *Session, userID string) string {
	prep := s.Prep
	if err := a.pacer.Between(ctx, planDelay[0], planDelay[1]); err != nil {
		log.Warn("plan generation interrupted", zap.Error(err))
		s.leavePrep()
		return replyPrepError
	}

	plan, err := a.generator.Generate(ctx, interview.Request{
		UserID:             userID,
		CompanyName:        prep.CompanyName,
		Role:               prep.Role,
		TimeUntilInterview: prep.TimeUntilInterview,
		JobDescription:     prep.JobDescription,
	})
	if err != nil {
		log.Error("creating interview preparation plan failed", zap.Error(err))
		s.leavePrep()
		return replyPrepError
	}

	prep.Plan = plan
	prep.Stage = StageComplete
	log.Info("interview preparation plan ready",
		zap.String("company", prep.CompanyName),
		zap.String("role", prep.Role),
		zap.String("readiness", string(plan.OverallAssessment.Readiness)),
	)
	return PlanSummary(plan)
}
