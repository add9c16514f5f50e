package supabase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"

	"go.uber.org/zap"
)

const jobSelect = "*,companies(id,name,logo_url,website,industry,location)"

func (c *Client) RecentJobs(ctx context.Context, limit int) ([]domain.Job, error) {
	rows, err := c.selectRows(ctx, "jobs", map[string][]string{
		"select":    {jobSelect},
		"is_active": {"eq.true"},
		"order":     {"created_at.desc"},
		"limit":     {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}
	return decodeJobs(rows)
}

// JobsMatchingSkills reads job_skills with the job embedded. A job appears
// once per matching skill.
func (c *Client) JobsMatchingSkills(ctx context.Context, skillIDs []string, limit int) ([]domain.Job, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}
	rows, err := c.selectRows(ctx, "job_skills", map[string][]string{
		"select":   {"job_id,jobs(" + jobSelect + ")"},
		"skill_id": {"in.(" + strings.Join(skillIDs, ",") + ")"},
		"limit":    {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}

	jobRows := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		job, ok := nested(row, "jobs")
		if !ok {
			c.logger.Debug("job_skills row without job", zap.Any("job_id", row["job_id"]))
			continue
		}
		jobRows = append(jobRows, job)
	}
	return decodeJobs(jobRows)
}

func (c *Client) UserSkills(ctx context.Context, userID string) ([]domain.Skill, error) {
	rows, err := c.selectRows(ctx, "candidate_skills", map[string][]string{
		"select":       {"skill_id,skills(id,name)"},
		"candidate_id": {"eq." + userID},
	})
	if err != nil {
		return nil, err
	}

	skills := make([]domain.Skill, 0, len(rows))
	for _, row := range rows {
		raw, ok := nested(row, "skills")
		if !ok {
			continue
		}
		var s domain.Skill
		if err := decodeRow(raw, &s); err != nil {
			return nil, fmt.Errorf("decoding skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, nil
}

func (c *Client) CreateApplication(ctx context.Context, app domain.NewApplication) (*domain.Application, error) {
	if app.JobID == "" || app.UserID == "" {
		return nil, errors.New("application needs a job and a user")
	}
	row, err := c.insertRow(ctx, "applications", app)
	if err != nil {
		return nil, err
	}
	return decodeApplication(row)
}

func (c *Client) UserApplications(ctx context.Context, userID string) ([]domain.Application, error) {
	rows, err := c.selectRows(ctx, "applications", map[string][]string{
		"select":  {"*"},
		"user_id": {"eq." + userID},
		"order":   {"created_at.desc"},
	})
	if err != nil {
		return nil, err
	}

	apps := make([]domain.Application, 0, len(rows))
	for _, row := range rows {
		a, err := decodeApplication(row)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, nil
}

func decodeJobs(rows []map[string]any) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		var j domain.Job
		if err := decodeRow(row, &j); err != nil {
			return nil, fmt.Errorf("decoding job: %w", err)
		}
		var err error
		if j.CreatedAt, err = createdAt(row); err != nil {
			return nil, fmt.Errorf("job %s: %w", j.ID, err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func decodeApplication(row map[string]any) (*domain.Application, error) {
	var a domain.Application
	if err := decodeRow(row, &a); err != nil {
		return nil, fmt.Errorf("decoding application: %w", err)
	}
	var err error
	if a.CreatedAt, err = createdAt(row); err != nil {
		return nil, fmt.Errorf("application %s: %w", a.ID, err)
	}
	return &a, nil
}
