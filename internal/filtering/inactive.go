package filtering

import (
	"context"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
)

type inactiveFilter struct {
	toggle
}

// NewInactive drops postings that are no longer accepting applications.
func NewInactive() Filter {
	return &inactiveFilter{}
}

func (f *inactiveFilter) Name() string { return "inactive" }

func (f *inactiveFilter) Apply(_ context.Context, _ Deps, jobs []domain.Job) ([]domain.Job, Step, error) {
	kept, step := exclude(jobs, func(job domain.Job) bool { return !job.IsActive })
	return kept, step, nil
}
