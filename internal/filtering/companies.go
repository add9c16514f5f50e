package filtering

import (
	"context"
	"strconv"
	"strings"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
)

type excludedCompaniesFilter struct {
	toggle
	names map[string]struct{}
}

// NewExcludedCompanies removes jobs posted by the named companies. Names
// compare case-insensitively against the company name or id.
func NewExcludedCompanies(companies []string) Filter {
	names := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			names[c] = struct{}{}
		}
	}
	return &excludedCompaniesFilter{names: names}
}

func (f *excludedCompaniesFilter) Name() string { return "excluded_companies" }

func (f *excludedCompaniesFilter) Apply(_ context.Context, _ Deps, jobs []domain.Job) ([]domain.Job, Step, error) {
	if len(f.names) == 0 {
		return jobs, Step{Initial: len(jobs), Left: len(jobs)}, nil
	}

	kept, step := exclude(jobs, func(job domain.Job) bool {
		if _, ok := f.names[strings.ToLower(job.CompanyID)]; ok {
			return true
		}
		_, ok := f.names[strings.ToLower(job.CompanyName(""))]
		return ok
	})
	return kept, step, nil
}

func (f *excludedCompaniesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"companies": strconv.Itoa(len(f.names))}}
}
