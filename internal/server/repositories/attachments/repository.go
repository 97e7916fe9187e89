package attachments

import (
	"context"

	"github.com/aivanovs/issuetracker/internal/server/models"
)

// Visibility of an attachment is decided by the owning issue, so Get and
// ListByIssue carry no owner predicate; callers check the issue first.
type Repository interface {
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	ListByIssue(ctx context.Context, issueID string) ([]*models.Attachment, error)
	Get(ctx context.Context, id string) (*models.Attachment, error)
	MarkUploaded(ctx context.Context, id string) error
}
