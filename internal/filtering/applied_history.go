package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"

	"go.uber.org/zap"
)

const appliedHistoryName = "applied_history"

type appliedHistoryFilter struct {
	toggle
}

// NewAppliedHistory creates a filter that removes jobs the user already applied to.
func NewAppliedHistory() Filter {
	return &appliedHistoryFilter{}
}

func (f *appliedHistoryFilter) Name() string { return appliedHistoryName }

func (f *appliedHistoryFilter) Apply(ctx context.Context, deps Deps, jobs []domain.Job) ([]domain.Job, Step, error) {
	if deps.History == nil || deps.UserID == "" {
		return jobs, Step{Initial: len(jobs), Left: len(jobs)}, nil
	}

	applications, err := deps.History.UserApplications(ctx, deps.UserID)
	if err != nil {
		return nil, Step{}, fmt.Errorf("get applications of %s: %w", deps.UserID, err)
	}

	applied := make(map[string]struct{}, len(applications))
	for _, app := range applications {
		applied[app.JobID] = struct{}{}
	}

	var excluded []string
	kept, step := exclude(jobs, func(job domain.Job) bool {
		if _, ok := applied[job.ID]; ok {
			excluded = append(excluded, job.ID)
			return true
		}
		return false
	})

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding jobs already applied to",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", len(kept)),
		)
	}

	return kept, step, nil
}

func (f *appliedHistoryFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"exclude_applied": strconv.FormatBool(f.IsEnabled())},
	}
}
