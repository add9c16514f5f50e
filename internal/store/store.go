// Package store holds what the persistence backends share: the repository
// contract and the demo fixture loaded by "db seed".
package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"

	"gopkg.in/yaml.v3"
)

// Repository is implemented by every backend the assistant can run on.
type Repository interface {
	RecentJobs(ctx context.Context, limit int) ([]domain.Job, error)
	JobsMatchingSkills(ctx context.Context, skillIDs []string, limit int) ([]domain.Job, error)
	UserSkills(ctx context.Context, userID string) ([]domain.Skill, error)
	CreateApplication(ctx context.Context, app domain.NewApplication) (*domain.Application, error)
	UserApplications(ctx context.Context, userID string) ([]domain.Application, error)
	Close() error
}

// Migrator is implemented by backends whose schema this program owns.
type Migrator interface {
	Migrate(ctx context.Context) error
	Seed(ctx context.Context, f *Fixture) error
}

//go:embed demo.yaml
var demoFixture []byte

type Fixture struct {
	Companies  []domain.Company `yaml:"companies"`
	Skills     []domain.Skill   `yaml:"skills"`
	Jobs       []FixtureJob     `yaml:"jobs"`
	Candidates []Candidate      `yaml:"candidates"`
}

// FixtureJob is a job row plus the ids of the skills it asks for.
type FixtureJob struct {
	domain.Job `yaml:",inline"`
	PostedAt   string   `yaml:"posted_at"`
	SkillIDs   []string `yaml:"skills"`
}

type Candidate struct {
	ID       string   `yaml:"id"`
	Email    string   `yaml:"email"`
	FullName string   `yaml:"full_name"`
	SkillIDs []string `yaml:"skills"`
}

// DemoFixture returns the built-in demo data set.
func DemoFixture() (*Fixture, error) {
	return parseFixture("demo fixture", demoFixture)
}

// LoadFixture reads a fixture file in the demo.yaml format.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return parseFixture(path, data)
}

func parseFixture(name string, data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &f, nil
}

// Validate checks that every reference in the fixture resolves.
func (f *Fixture) Validate() error {
	companies := make(map[string]struct{}, len(f.Companies))
	for _, c := range f.Companies {
		companies[c.ID] = struct{}{}
	}
	skills := make(map[string]struct{}, len(f.Skills))
	for _, s := range f.Skills {
		skills[s.ID] = struct{}{}
	}

	for _, j := range f.Jobs {
		if _, ok := companies[j.CompanyID]; !ok {
			return fmt.Errorf("job %s references unknown company %q", j.ID, j.CompanyID)
		}
		for _, id := range j.SkillIDs {
			if _, ok := skills[id]; !ok {
				return fmt.Errorf("job %s references unknown skill %q", j.ID, id)
			}
		}
	}
	for _, c := range f.Candidates {
		for _, id := range c.SkillIDs {
			if _, ok := skills[id]; !ok {
				return fmt.Errorf("candidate %s references unknown skill %q", c.ID, id)
			}
		}
	}
	return nil
}
