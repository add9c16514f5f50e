// Package sqlite is the embedded persistence backend. It keeps the same tables
// as the hosted backend so fixtures and queries translate one to one.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
	"github.com/careerkitsune/careerkitsune-ai/internal/store"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const jobColumns = `j.id, j.company_id, j.title, j.description, j.location, j.is_remote, j.is_active,
	j.job_type, j.experience_level, j.created_at,
	c.id, c.name, c.logo_url, c.website, c.industry, c.location`

type Store struct {
	DB *sql.DB

	now   func() time.Time
	newID func() string
}

var (
	_ store.Repository = (*Store)(nil)
	_ store.Migrator   = (*Store)(nil)
)

// Open opens (or creates) the database file at path. Use ":memory:" for a
// throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return &Store{DB: db, now: time.Now, newID: uuid.NewString}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating sqlite schema: %w", err)
	}
	return nil
}

// Seed upserts every row of f. Running it twice leaves the same data.
func (s *Store) Seed(ctx context.Context, f *store.Fixture) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, c := range f.Companies {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO companies (id, name, logo_url, website, industry, location) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, logo_url = excluded.logo_url,
	website = excluded.website, industry = excluded.industry, location = excluded.location`,
			c.ID, c.Name, c.LogoURL, c.Website, c.Industry, c.Location); err != nil {
			return fmt.Errorf("seed company %s: %w", c.ID, err)
		}
	}
	for _, sk := range f.Skills {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO skills (id, name) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name`, sk.ID, sk.Name); err != nil {
			return fmt.Errorf("seed skill %s: %w", sk.ID, err)
		}
	}
	for _, j := range f.Jobs {
		createdAt, err := postedAt(j.PostedAt, s.now())
		if err != nil {
			return fmt.Errorf("seed job %s: %w", j.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO jobs (id, company_id, title, description, location, is_remote, is_active, job_type, experience_level, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET company_id = excluded.company_id, title = excluded.title,
	description = excluded.description, location = excluded.location, is_remote = excluded.is_remote,
	is_active = excluded.is_active, job_type = excluded.job_type,
	experience_level = excluded.experience_level, created_at = excluded.created_at`,
			j.ID, j.CompanyID, j.Title, j.Description, j.Location, j.IsRemote, j.IsActive,
			j.JobType, j.ExperienceLevel, formatTime(createdAt)); err != nil {
			return fmt.Errorf("seed job %s: %w", j.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM job_skills WHERE job_id = ?`, j.ID); err != nil {
			return fmt.Errorf("seed job %s skills: %w", j.ID, err)
		}
		for _, id := range j.SkillIDs {
			if _, err := tx.ExecContext(ctx, `INSERT INTO job_skills (job_id, skill_id) VALUES (?, ?)`, j.ID, id); err != nil {
				return fmt.Errorf("seed job %s skill %s: %w", j.ID, id, err)
			}
		}
	}
	for _, c := range f.Candidates {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO profiles (id, email, full_name) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET email = excluded.email, full_name = excluded.full_name`,
			c.ID, c.Email, c.FullName); err != nil {
			return fmt.Errorf("seed candidate %s: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidate_skills WHERE candidate_id = ?`, c.ID); err != nil {
			return fmt.Errorf("seed candidate %s skills: %w", c.ID, err)
		}
		for _, id := range c.SkillIDs {
			if _, err := tx.ExecContext(ctx, `INSERT INTO candidate_skills (candidate_id, skill_id) VALUES (?, ?)`, c.ID, id); err != nil {
				return fmt.Errorf("seed candidate %s skill %s: %w", c.ID, id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	committed = true
	return nil
}

// RecentJobs returns active jobs, newest first.
func (s *Store) RecentJobs(ctx context.Context, limit int) ([]domain.Job, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT `+jobColumns+`
FROM jobs j JOIN companies c ON c.id = j.company_id
WHERE j.is_active = 1
ORDER BY j.created_at DESC, j.id
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent jobs: %w", err)
	}
	return scanJobs(rows)
}

// JobsMatchingSkills returns one row per (job, matching skill) pair, so a job
// asking for two of the skills appears twice. Inactive jobs are included; the
// filtering pipeline drops them.
func (s *Store) JobsMatchingSkills(ctx context.Context, skillIDs []string, limit int) ([]domain.Job, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(skillIDs)+1)
	for _, id := range skillIDs {
		args = append(args, id)
	}
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, `
SELECT `+jobColumns+`
FROM job_skills js
JOIN jobs j ON j.id = js.job_id
JOIN companies c ON c.id = j.company_id
WHERE js.skill_id IN (`+placeholders(len(skillIDs))+`)
ORDER BY j.created_at DESC, j.id, js.skill_id
LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs by skills: %w", err)
	}
	return scanJobs(rows)
}

func (s *Store) UserSkills(ctx context.Context, userID string) ([]domain.Skill, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT s.id, s.name
FROM candidate_skills cs JOIN skills s ON s.id = cs.skill_id
WHERE cs.candidate_id = ?
ORDER BY s.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user skills: %w", err)
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		var sk domain.Skill
		if err := rows.Scan(&sk.ID, &sk.Name); err != nil {
			return nil, fmt.Errorf("scanning skill: %w", err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

func (s *Store) CreateApplication(ctx context.Context, app domain.NewApplication) (*domain.Application, error) {
	if app.JobID == "" || app.UserID == "" {
		return nil, errors.New("application needs a job and a user")
	}
	out := &domain.Application{
		ID:        s.newID(),
		JobID:     app.JobID,
		UserID:    app.UserID,
		Title:     app.Title,
		Status:    app.Status,
		IsRead:    app.IsRead,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO applications (id, job_id, user_id, title, status, is_read, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.JobID, out.UserID, out.Title, string(out.Status), out.IsRead, formatTime(out.CreatedAt)); err != nil {
		return nil, fmt.Errorf("inserting application: %w", err)
	}
	return out, nil
}

// UserApplications lists the user's applications, newest first.
func (s *Store) UserApplications(ctx context.Context, userID string) ([]domain.Application, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, job_id, user_id, title, status, is_read, created_at
FROM applications
WHERE user_id = ?
ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying applications: %w", err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var (
			a         domain.Application
			status    string
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.JobID, &a.UserID, &a.Title, &status, &a.IsRead, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		a.Status = domain.ApplicationStatus(status)
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("application %s: %w", a.ID, err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func scanJobs(rows *sql.Rows) ([]domain.Job, error) {
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var (
			j         domain.Job
			c         domain.Company
			createdAt string
		)
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Location, &j.IsRemote, &j.IsActive,
			&j.JobType, &j.ExperienceLevel, &createdAt,
			&c.ID, &c.Name, &c.LogoURL, &c.Website, &c.Industry, &c.Location); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		var err error
		if j.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("job %s: %w", j.ID, err)
		}
		j.Company = &c
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// postedAt parses a fixture timestamp; an empty one means now.
func postedAt(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("posted_at %q: %w", raw, err)
	}
	return t, nil
}
