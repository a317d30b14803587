package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	slugAttempts          = 5
)

// ProjectRepository handles PostgreSQL operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project, assigning its ID and slug.
func (r *ProjectRepository) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	const q = `
INSERT INTO projects (id, name, slug, external_url)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at;
`
	for i := 0; i < slugAttempts; i++ {
		slug, err := domain.NewSlug(req.Name)
		if err != nil {
			return nil, err
		}

		p := domain.Project{
			ID:          uuid.New().String(),
			Name:        req.Name,
			Slug:        slug,
			ExternalURL: req.ExternalURL,
		}
		err = r.db.QueryRowContext(ctx, q, p.ID, p.Name, p.Slug, nullString(p.ExternalURL)).
			Scan(&p.CreatedAt, &p.UpdatedAt)
		if err == nil {
			return &p, nil
		}

		// unique violation on slug → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			continue
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return nil, domain.ErrProjectExists
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
SELECT id, name, slug, external_url, created_at, updated_at
FROM projects
WHERE id = $1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// GetBySlug retrieves a project by its slug
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	const q = `
SELECT id, name, slug, external_url, created_at, updated_at
FROM projects
WHERE slug = $1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project by slug: %w", err)
	}
	return p, nil
}

// List returns all projects, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
SELECT id, name, slug, external_url, created_at, updated_at
FROM projects
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p           domain.Project
		externalURL sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &externalURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ExternalURL = externalURL.String
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
