package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GoSim-25-26J-441/lhci-dashboard/internal/dashboard/domain"
)

// DefaultBuildLimit caps build listings when the caller passes no limit.
const DefaultBuildLimit = 100

// BuildRepository handles PostgreSQL operations for builds
type BuildRepository struct {
	db *sql.DB
}

// NewBuildRepository creates a new BuildRepository
func NewBuildRepository(db *sql.DB) *BuildRepository {
	return &BuildRepository{db: db}
}

// Create inserts a build. A missing creation time is stored as NULL.
func (r *BuildRepository) Create(ctx context.Context, req domain.CreateBuildRequest) (*domain.Build, error) {
	b := domain.Build{
		ID:               uuid.New().String(),
		ProjectID:        req.ProjectID,
		Branch:           req.Branch,
		Hash:             req.Hash,
		ExternalBuildURL: req.ExternalBuildURL,
		CommitMessage:    req.CommitMessage,
		Author:           req.Author,
		RunAt:            req.RunAt,
		CreatedAt:        req.CreatedAt,
	}

	const q = `
INSERT INTO builds (
	id, project_id, branch, hash, external_build_url,
	commit_message, author, run_at, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.db.ExecContext(ctx, q,
		b.ID,
		b.ProjectID,
		b.Branch,
		b.Hash,
		b.ExternalBuildURL,
		nullString(b.CommitMessage),
		nullString(b.Author),
		nullTime(b.RunAt),
		nullTime(b.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create build: %w", err)
	}

	return &b, nil
}

// ListByProject returns up to limit builds of a project, most recent first.
// Builds without a creation time sort last.
func (r *BuildRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Build, error) {
	if limit <= 0 {
		limit = DefaultBuildLimit
	}

	const q = `
SELECT id, project_id, branch, hash, external_build_url,
       commit_message, author, run_at, created_at
FROM builds
WHERE project_id = $1
ORDER BY created_at DESC NULLS LAST, id DESC
LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer rows.Close()

	builds := make([]domain.Build, 0, min(limit, 16))
	for rows.Next() {
		var (
			b                     domain.Build
			commitMessage, author sql.NullString
			runAt, createdAt      sql.NullTime
		)
		err := rows.Scan(
			&b.ID,
			&b.ProjectID,
			&b.Branch,
			&b.Hash,
			&b.ExternalBuildURL,
			&commitMessage,
			&author,
			&runAt,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}

		b.CommitMessage = commitMessage.String
		b.Author = author.String
		b.RunAt = timePtr(runAt)
		b.CreatedAt = timePtr(createdAt)

		builds = append(builds, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating builds: %w", err)
	}

	return builds, nil
}
