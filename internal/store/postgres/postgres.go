// Package postgres is the hosted persistence backend on a pgx pool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
	"github.com/careerkitsune/careerkitsune-ai/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

const jobColumns = `j.id, j.company_id, j.title, j.description, j.location, j.is_remote, j.is_active,
	j.job_type, j.experience_level, j.created_at,
	c.id, c.name, c.logo_url, c.website, c.industry, c.location`

type Store struct {
	pool *pgxpool.Pool

	now   func() time.Time
	newID func() string
}

var (
	_ store.Repository = (*Store)(nil)
	_ store.Migrator   = (*Store)(nil)
)

// Connect creates the pool and checks the server answers.
func Connect(ctx context.Context, databaseURL string, maxConns int32, logger *zap.Logger) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres connected", zap.String("host", config.ConnConfig.Host), zap.Int32("max_conns", config.MaxConns))
	return &Store{pool: pool, now: time.Now, newID: uuid.NewString}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrating postgres schema: %w", err)
	}
	return nil
}

// Seed upserts every row of f inside one transaction.
func (s *Store) Seed(ctx context.Context, f *store.Fixture) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range f.Companies {
			batch.Queue(`
INSERT INTO companies (id, name, logo_url, website, industry, location) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, logo_url = EXCLUDED.logo_url,
	website = EXCLUDED.website, industry = EXCLUDED.industry, location = EXCLUDED.location`,
				c.ID, c.Name, c.LogoURL, c.Website, c.Industry, c.Location)
		}
		for _, sk := range f.Skills {
			batch.Queue(`
INSERT INTO skills (id, name) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, sk.ID, sk.Name)
		}
		for _, j := range f.Jobs {
			createdAt := s.now()
			if j.PostedAt != "" {
				t, err := time.Parse(time.RFC3339, j.PostedAt)
				if err != nil {
					return fmt.Errorf("seed job %s: posted_at %q: %w", j.ID, j.PostedAt, err)
				}
				createdAt = t
			}
			batch.Queue(`
INSERT INTO jobs (id, company_id, title, description, location, is_remote, is_active, job_type, experience_level, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET company_id = EXCLUDED.company_id, title = EXCLUDED.title,
	description = EXCLUDED.description, location = EXCLUDED.location, is_remote = EXCLUDED.is_remote,
	is_active = EXCLUDED.is_active, job_type = EXCLUDED.job_type,
	experience_level = EXCLUDED.experience_level, created_at = EXCLUDED.created_at`,
				j.ID, j.CompanyID, j.Title, j.Description, j.Location, j.IsRemote, j.IsActive,
				j.JobType, j.ExperienceLevel, createdAt)
			batch.Queue(`DELETE FROM job_skills WHERE job_id = $1`, j.ID)
			for _, id := range j.SkillIDs {
				batch.Queue(`INSERT INTO job_skills (job_id, skill_id) VALUES ($1, $2)`, j.ID, id)
			}
		}
		for _, c := range f.Candidates {
			batch.Queue(`
INSERT INTO profiles (id, email, full_name) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, full_name = EXCLUDED.full_name`,
				c.ID, c.Email, c.FullName)
			batch.Queue(`DELETE FROM candidate_skills WHERE candidate_id = $1`, c.ID)
			for _, id := range c.SkillIDs {
				batch.Queue(`INSERT INTO candidate_skills (candidate_id, skill_id) VALUES ($1, $2)`, c.ID, id)
			}
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		return nil
	})
}

// RecentJobs returns active jobs, newest first.
func (s *Store) RecentJobs(ctx context.Context, limit int) ([]domain.Job, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+jobColumns+`
FROM jobs j JOIN companies c ON c.id = j.company_id
WHERE j.is_active
ORDER BY j.created_at DESC, j.id
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent jobs: %w", err)
	}
	return collectJobs(rows)
}

// JobsMatchingSkills returns one row per (job, matching skill) pair; inactive
// jobs are left for the filtering pipeline.
func (s *Store) JobsMatchingSkills(ctx context.Context, skillIDs []string, limit int) ([]domain.Job, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
SELECT `+jobColumns+`
FROM job_skills js
JOIN jobs j ON j.id = js.job_id
JOIN companies c ON c.id = j.company_id
WHERE js.skill_id = ANY($1)
ORDER BY j.created_at DESC, j.id, js.skill_id
LIMIT $2`, skillIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("querying jobs by skills: %w", err)
	}
	return collectJobs(rows)
}

func (s *Store) UserSkills(ctx context.Context, userID string) ([]domain.Skill, error) {
	rows, err := s.pool.Query(ctx, `
SELECT s.id, s.name
FROM candidate_skills cs JOIN skills s ON s.id = cs.skill_id
WHERE cs.candidate_id = $1
ORDER BY s.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user skills: %w", err)
	}
	skills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Skill, error) {
		var sk domain.Skill
		err := row.Scan(&sk.ID, &sk.Name)
		return sk, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning skills: %w", err)
	}
	return skills, nil
}

func (s *Store) CreateApplication(ctx context.Context, app domain.NewApplication) (*domain.Application, error) {
	if app.JobID == "" || app.UserID == "" {
		return nil, errors.New("application needs a job and a user")
	}
	out := &domain.Application{
		ID:     s.newID(),
		JobID:  app.JobID,
		UserID: app.UserID,
		Title:  app.Title,
		Status: app.Status,
		IsRead: app.IsRead,
	}
	err := s.pool.QueryRow(ctx, `
INSERT INTO applications (id, job_id, user_id, title, status, is_read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`,
		out.ID, out.JobID, out.UserID, out.Title, string(out.Status), out.IsRead, s.now().UTC()).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting application: %w", err)
	}
	return out, nil
}

// UserApplications lists the user's applications, newest first.
func (s *Store) UserApplications(ctx context.Context, userID string) ([]domain.Application, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, job_id, user_id, title, status, is_read, created_at
FROM applications
WHERE user_id = $1
ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying applications: %w", err)
	}
	apps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Application, error) {
		var (
			a      domain.Application
			status string
		)
		err := row.Scan(&a.ID, &a.JobID, &a.UserID, &a.Title, &status, &a.IsRead, &a.CreatedAt)
		a.Status = domain.ApplicationStatus(status)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning applications: %w", err)
	}
	return apps, nil
}

func collectJobs(rows pgx.Rows) ([]domain.Job, error) {
	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Job, error) {
		var (
			j domain.Job
			c domain.Company
		)
		err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Location, &j.IsRemote, &j.IsActive,
			&j.JobType, &j.ExperienceLevel, &j.CreatedAt,
			&c.ID, &c.Name, &c.LogoURL, &c.Website, &c.Industry, &c.Location)
		j.CreatedAt = j.CreatedAt.UTC()
		j.Company = &c
		return j, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning jobs: %w", err)
	}
	return jobs, nil
}
