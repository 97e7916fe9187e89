// Package attachments provides PostgreSQL-backed persistence for issue
// attachment records. The attachment body lives in S3-compatible storage;
// only the metadata row is kept here.
package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aivanovs/issuetracker/internal/common"
	"github.com/aivanovs/issuetracker/internal/dbx"
	"github.com/aivanovs/issuetracker/internal/server/models"
)

// PostgresRepository implements attachment storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {
	query :=
		`INSERT INTO attachments (id, issue_id, file_name, storage_key, uploaded, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		attachment.ID, attachment.IssueID, attachment.FileName, attachment.StorageKey,
		attachment.Uploaded, attachment.OwnerID).Scan(&attachment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachment, nil
}

// ListByIssue returns attachment records for an issue, oldest first. Issue
// visibility must be checked by the caller before listing.
func (r *PostgresRepository) ListByIssue(ctx context.Context, issueID string) ([]*models.Attachment, error) {
	query :=
		`SELECT id, issue_id, file_name, storage_key, uploaded, owner_id, created_at FROM attachments
		 WHERE issue_id = $1
		 ORDER BY created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, issueID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		var item models.Attachment
		if err := rows.Scan(
			&item.ID, &item.IssueID, &item.FileName, &item.StorageKey,
			&item.Uploaded, &item.OwnerID, &item.CreatedAt,
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

// Get returns the attachment with the given id. Visibility follows the
// owning issue, so there is no owner predicate here.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Attachment, error) {
	query :=
		`SELECT id, issue_id, file_name, storage_key, uploaded, owner_id, created_at FROM attachments
		 WHERE id = $1
		 `

	attachment := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&attachment.ID, &attachment.IssueID, &attachment.FileName, &attachment.StorageKey,
		&attachment.Uploaded, &attachment.OwnerID, &attachment.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachment, nil
}

// MarkUploaded flips the uploaded flag once the client confirms the PUT.
func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query :=
		`UPDATE attachments SET uploaded = TRUE
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
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
