// Package filtering narrows a fetched job list through ordered steps before
// the assistant caches it.
package filtering

import (
	"context"
	"fmt"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"

	"go.uber.org/zap"
)

// Filter is a single step of the job pipeline.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, jobs []domain.Job) ([]domain.Job, Step, error)
}

// AppliedHistory lists the applications a user already submitted.
type AppliedHistory interface {
	UserApplications(ctx context.Context, userID string) ([]domain.Application, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	History AppliedHistory
	UserID  string
	Logger  *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// toggle carries the enable state shared by the built-in filters.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Default returns the pipeline used for job searches.
func Default(excludeApplied bool, excludedCompanies []string, hiddenJobsFile string) []Filter {
	steps := []Filter{
		NewDedupe(),
		NewInactive(),
		NewExcludedCompanies(excludedCompanies),
		NewHiddenJobsFile(hiddenJobsFile),
		NewAppliedHistory(),
	}
	if !excludeApplied {
		DisableByName(steps, appliedHistoryName, "already applied jobs are kept by configuration")
	}
	return steps
}

// Run executes the enabled steps in order and returns the surviving jobs.
func Run(ctx context.Context, deps Deps, steps []Filter, jobs []domain.Job) ([]domain.Job, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, jobs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		jobs = next
	}

	return jobs, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// exclude keeps the jobs for which drop returns false, preserving order.
func exclude(jobs []domain.Job, drop func(domain.Job) bool) ([]domain.Job, Step) {
	kept := make([]domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if !drop(job) {
			kept = append(kept, job)
		}
	}
	return kept, Step{Initial: len(jobs), Dropped: len(jobs) - len(kept), Left: len(kept)}
}
