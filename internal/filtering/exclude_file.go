package filtering

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// HiddenJobs is the on-disk list of postings the user never wants offered again.
//
//	jobs:
//	  - id: job-42
//	    reason: relocation required
type HiddenJobs struct {
	Jobs []HiddenJob `yaml:"jobs"`
}

type HiddenJob struct {
	ID     string `yaml:"id"`
	Reason string `yaml:"reason,omitempty"`
}

// IDs returns the hidden job ids.
func (h HiddenJobs) IDs() []string {
	ids := make([]string, 0, len(h.Jobs))
	for _, job := range h.Jobs {
		ids = append(ids, job.ID)
	}
	return ids
}

// LoadHiddenJobs reads the hidden jobs file. A missing or empty file hides nothing.
func LoadHiddenJobs(path string) (HiddenJobs, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return HiddenJobs{}, nil
	}
	if err != nil {
		return HiddenJobs{}, err
	}

	var hidden HiddenJobs
	if len(strings.TrimSpace(string(data))) == 0 {
		return hidden, nil
	}
	if err := yaml.Unmarshal(data, &hidden); err != nil {
		return HiddenJobs{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return hidden, nil
}

type hiddenJobsFilter struct {
	toggle
	path string
}

// NewHiddenJobsFile creates a filter that removes jobs listed in the hidden jobs file.
func NewHiddenJobsFile(path string) Filter {
	return &hiddenJobsFilter{path: strings.TrimSpace(path)}
}

func (f *hiddenJobsFilter) Name() string { return "hidden_jobs_file" }

func (f *hiddenJobsFilter) Apply(_ context.Context, deps Deps, jobs []domain.Job) ([]domain.Job, Step, error) {
	if f.path == "" {
		return jobs, Step{Initial: len(jobs), Left: len(jobs)}, nil
	}

	hidden, err := LoadHiddenJobs(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting hidden jobs from file: %w", err)
	}

	ids := make(map[string]struct{}, len(hidden.Jobs))
	for _, id := range hidden.IDs() {
		ids[id] = struct{}{}
	}

	kept, step := exclude(jobs, func(job domain.Job) bool {
		_, ok := ids[job.ID]
		return ok
	})
	if deps.Logger != nil && step.Dropped > 0 {
		deps.Logger.Info("excluding jobs based on hidden jobs file",
			zap.String("path", f.path),
			zap.Int("dropped", step.Dropped),
			zap.Int("jobs_left", step.Left),
		)
	}

	return kept, step, nil
}

func (f *hiddenJobsFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
