// Package issues provides PostgreSQL-backed issue persistence with the same
// per-owner visibility rule as the projects repository: a row is visible
// when owner_id matches the caller or is NULL, and writes claim ownerless
// rows for the caller.
package issues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aivanovs/issuetracker/internal/common"
	"github.com/aivanovs/issuetracker/internal/dbx"
	"github.com/aivanovs/issuetracker/internal/server/models"
)

// PostgresRepository implements issue storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, title, priority, to_char(due_date, 'YYYY-MM-DD'), done, project_id, owner_id, created_at, updated_at`

func (r *PostgresRepository) scanRows(rows *sql.Rows) ([]*models.Issue, error) {
	defer rows.Close()

	var result []*models.Issue
	for rows.Next() {
		var item models.Issue
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Priority, &item.DueDate, &item.Done,
			&item.ProjectID, &item.OwnerID, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListVisible returns all issues visible to ownerID, oldest first.
func (r *PostgresRepository) ListVisible(ctx context.Context, ownerID string) ([]*models.Issue, error) {
	query := `SELECT ` + selectColumns + ` FROM issues
		 WHERE owner_id = $1 OR owner_id IS NULL
		 ORDER BY created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanRows(rows)
}

// ListVisibleByProject narrows ListVisible to one project.
func (r *PostgresRepository) ListVisibleByProject(ctx context.Context, ownerID, projectID string) ([]*models.Issue, error) {
	query := `SELECT ` + selectColumns + ` FROM issues
		 WHERE project_id = $2 AND (owner_id = $1 OR owner_id IS NULL)
		 ORDER BY created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanRows(rows)
}

// GetVisible returns the issue with the given id if it is visible to
// ownerID; absent and foreign rows both yield common.ErrorNotFound.
func (r *PostgresRepository) GetVisible(ctx context.Context, id, ownerID string) (*models.Issue, error) {
	query := `SELECT ` + selectColumns + ` FROM issues
		 WHERE id = $1 AND (owner_id = $2 OR owner_id IS NULL)
		 `

	issue := &models.Issue{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&issue.ID, &issue.Title, &issue.Priority, &issue.DueDate, &issue.Done,
		&issue.ProjectID, &issue.OwnerID, &issue.CreatedAt, &issue.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return issue, nil
}

// Create inserts a new issue row. OwnerID must already be stamped by the caller.
func (r *PostgresRepository) Create(ctx context.Context, issue *models.Issue) (*models.Issue, error) {
	query :=
		`INSERT INTO issues (id, title, priority, due_date, done, project_id, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		issue.ID, issue.Title, issue.Priority, issue.DueDate, issue.Done,
		issue.ProjectID, issue.OwnerID).Scan(&issue.CreatedAt, &issue.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return issue, nil
}

// Update rewrites a visible issue and stamps ownerID as the owner.
func (r *PostgresRepository) Update(ctx context.Context, issue *models.Issue, ownerID string) (*models.Issue, error) {
	query :=
		`UPDATE issues SET title = $1, priority = $2, due_date = $3, done = $4, owner_id = $5, updated_at = now()
		 WHERE id = $6 AND (owner_id = $5 OR owner_id IS NULL)
		 RETURNING project_id, owner_id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		issue.Title, issue.Priority, issue.DueDate, issue.Done, ownerID, issue.ID).Scan(
		&issue.ProjectID, &issue.OwnerID, &issue.CreatedAt, &issue.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return issue, nil
}

// Delete removes a visible issue; absent or foreign rows yield
// common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query :=
		`DELETE FROM issues
		 WHERE id = $1 AND (owner_id = $2 OR owner_id IS NULL)
		 `

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
