package domain

import "time"

// ApplicationStatus is the lifecycle state of a job application.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "Applied"
	StatusInterview ApplicationStatus = "Interview"
	StatusOffer     ApplicationStatus = "Offer"
	StatusRejected  ApplicationStatus = "Rejected"
)

type Company struct {
	ID       string `json:"id" mapstructure:"id" yaml:"id"`
	Name     string `json:"name" mapstructure:"name" yaml:"name"`
	LogoURL  string `json:"logo_url,omitempty" mapstructure:"logo_url" yaml:"logo_url,omitempty"`
	Website  string `json:"website,omitempty" mapstructure:"website" yaml:"website,omitempty"`
	Industry string `json:"industry,omitempty" mapstructure:"industry" yaml:"industry,omitempty"`
	Location string `json:"location,omitempty" mapstructure:"location" yaml:"location,omitempty"`
}

// Job is a posting summary as the assistant sees it. The persistence backend
// owns the record; the assistant only keeps cached copies.
type Job struct {
	ID              string    `json:"id" mapstructure:"id" yaml:"id"`
	CompanyID       string    `json:"company_id" mapstructure:"company_id" yaml:"company_id"`
	Title           string    `json:"title" mapstructure:"title" yaml:"title"`
	Description     string    `json:"description" mapstructure:"description" yaml:"description"`
	Location        string    `json:"location,omitempty" mapstructure:"location" yaml:"location,omitempty"`
	IsRemote        bool      `json:"is_remote" mapstructure:"is_remote" yaml:"is_remote"`
	IsActive        bool      `json:"is_active" mapstructure:"is_active" yaml:"is_active"`
	JobType         string    `json:"job_type" mapstructure:"job_type" yaml:"job_type"`
	ExperienceLevel string    `json:"experience_level" mapstructure:"experience_level" yaml:"experience_level"`
	Company         *Company  `json:"companies,omitempty" mapstructure:"companies" yaml:"company,omitempty"`
	CreatedAt       time.Time `json:"created_at" mapstructure:"-" yaml:"-"`
}

// CompanyName returns the employer name or the given fallback when unknown.
func (j Job) CompanyName(fallback string) string {
	if j.Company == nil || j.Company.Name == "" {
		return fallback
	}
	return j.Company.Name
}

type Skill struct {
	ID   string `json:"id" mapstructure:"id" yaml:"id"`
	Name string `json:"name" mapstructure:"name" yaml:"name"`
}

// SkillNames returns the names of the given skills in order.
func SkillNames(skills []Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}

// SkillIDs returns the ids of the given skills in order.
func SkillIDs(skills []Skill) []string {
	ids := make([]string, 0, len(skills))
	for _, s := range skills {
		ids = append(ids, s.ID)
	}
	return ids
}

// NewApplication is the payload for recording an application in the store.
type NewApplication struct {
	JobID  string            `json:"job_id"`
	UserID string            `json:"user_id"`
	Title  string            `json:"title"`
	Status ApplicationStatus `json:"status"`
	IsRead bool              `json:"is_read"`
}

type Application struct {
	ID        string            `json:"id" mapstructure:"id"`
	JobID     string            `json:"job_id" mapstructure:"job_id"`
	UserID    string            `json:"user_id" mapstructure:"user_id"`
	Title     string            `json:"title" mapstructure:"title"`
	Status    ApplicationStatus `json:"status" mapstructure:"status"`
	IsRead    bool              `json:"is_read" mapstructure:"is_read"`
	CreatedAt time.Time         `json:"created_at" mapstructure:"-"`
}
