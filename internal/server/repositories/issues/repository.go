package issues

import (
	"context"

	"github.com/aivanovs/issuetracker/internal/server/models"
)

type Repository interface {
	ListVisible(ctx context.Context, ownerID string) ([]*models.Issue, error)
	ListVisibleByProject(ctx context.Context, ownerID, projectID string) ([]*models.Issue, error)
	GetVisible(ctx context.Context, id, ownerID string) (*models.Issue, error)
	Create(ctx context.Context, issue *models.Issue) (*models.Issue, error)
	Update(ctx context.Context, issue *models.Issue, ownerID string) (*models.Issue, error)
	Delete(ctx context.Context, id, ownerID string) error
}
