package filtering

import (
	"context"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
)

type dedupeFilter struct {
	toggle
}

// NewDedupe drops repeated job ids, keeping the first occurrence. Skill
// matching returns one row per matched skill, so duplicates are expected.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Apply(_ context.Context, _ Deps, jobs []domain.Job) ([]domain.Job, Step, error) {
	seen := make(map[string]struct{}, len(jobs))
	kept, step := exclude(jobs, func(job domain.Job) bool {
		if _, ok := seen[job.ID]; ok {
			return true
		}
		seen[job.ID] = struct{}{}
		return false
	})
	return kept, step, nil
}
