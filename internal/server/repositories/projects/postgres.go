// Package projects provides PostgreSQL-backed project persistence with
// per-owner visibility applied inside every query.
//
// Visibility rule: a row is visible to a caller when owner_id matches the
// caller or is NULL (ownerless legacy rows). Writes against an ownerless row
// succeed and stamp the caller as the new owner.
package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aivanovs/issuetracker/internal/common"
	"github.com/aivanovs/issuetracker/internal/dbx"
	"github.com/aivanovs/issuetracker/internal/server/models"
)

// PostgresRepository implements project storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListVisible returns all projects visible to ownerID, oldest first.
func (r *PostgresRepository) ListVisible(ctx context.Context, ownerID string) ([]*models.Project, error) {
	query :=
		`SELECT id, name, active, owner_id, created_at, updated_at FROM projects
		 WHERE owner_id = $1 OR owner_id IS NULL
		 ORDER BY created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		var item models.Project
		if err := rows.Scan(&item.ID, &item.Name, &item.Active, &item.OwnerID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetVisible returns the project with the given id if it is visible to
// ownerID. Rows that are absent or owned by someone else both yield
// common.ErrorNotFound; callers cannot tell the two cases apart.
func (r *PostgresRepository) GetVisible(ctx context.Context, id, ownerID string) (*models.Project, error) {
	query :=
		`SELECT id, name, active, owner_id, created_at, updated_at FROM projects
		 WHERE id = $1 AND (owner_id = $2 OR owner_id IS NULL)
		 `

	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&project.ID, &project.Name, &project.Active, &project.OwnerID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}

// Create inserts a new project row. OwnerID must already be stamped by the
// caller; it is never taken from client input.
func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	query :=
		`INSERT INTO projects (id, name, active, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		project.ID, project.Name, project.Active, project.OwnerID).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}

// Update rewrites a visible project and stamps ownerID as the owner, which
// claims ownerless rows on first write. Invisible or absent rows yield
// common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, project *models.Project, ownerID string) (*models.Project, error) {
	query :=
		`UPDATE projects SET name = $1, active = $2, owner_id = $3, updated_at = now()
		 WHERE id = $4 AND (owner_id = $3 OR owner_id IS NULL)
		 RETURNING owner_id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		project.Name, project.Active, ownerID, project.ID).Scan(
		&project.OwnerID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}
