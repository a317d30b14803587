package domain

import (
	"strings"
	"time"
)

// ShortHashLength is the number of commit hash characters shown next to a build.
const ShortHashLength = 8

// Project is the top-level entity builds belong to.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	ExternalURL string    `json:"external_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Build is one recorded CI run of a project.
type Build struct {
	ID               string     `json:"id"`
	ProjectID        string     `json:"project_id"`
	Branch           string     `json:"branch"`
	Hash             string     `json:"hash"`
	ExternalBuildURL string     `json:"external_build_url"`
	CommitMessage    string     `json:"commit_message,omitempty"`
	Author           string     `json:"author,omitempty"`
	RunAt            *time.Time `json:"run_at,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"` // nil when the upload carried no timestamp
}

// ShortHash returns the first ShortHashLength characters of the commit hash.
func (b Build) ShortHash() string {
	if len(b.Hash) <= ShortHashLength {
		return b.Hash
	}
	return b.Hash[:ShortHashLength]
}

// CreatedAtOrEpoch returns the creation time, or the Unix epoch when absent.
func (b Build) CreatedAtOrEpoch() time.Time {
	if b.CreatedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *b.CreatedAt
}

// CreateProjectRequest is the data needed to register a project.
type CreateProjectRequest struct {
	Name        string
	ExternalURL string
}

// Validate trims the request and checks the project has a name.
func (r *CreateProjectRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.ExternalURL = strings.TrimSpace(r.ExternalURL)

	if r.Name == "" {
		return ErrInvalidProject
	}
	return nil
}

// CreateBuildRequest is the data an uploader sends for a new build.
type CreateBuildRequest struct {
	ProjectID        string
	Branch           string
	Hash             string
	ExternalBuildURL string
	CommitMessage    string
	Author           string
	RunAt            *time.Time
	CreatedAt        *time.Time
}

// Validate trims the request and checks the required fields.
func (r *CreateBuildRequest) Validate() error {
	r.Branch = strings.TrimSpace(r.Branch)
	r.Hash = strings.TrimSpace(r.Hash)
	r.ExternalBuildURL = strings.TrimSpace(r.ExternalBuildURL)

	if r.ProjectID == "" || r.Branch == "" || r.Hash == "" {
		return ErrInvalidBuild
	}
	return nil
}
