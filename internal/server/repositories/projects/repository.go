package projects

import (
	"context"

	"github.com/aivanovs/issuetracker/internal/server/models"
)

type Repository interface {
	ListVisible(ctx context.Context, ownerID string) ([]*models.Project, error)
	GetVisible(ctx context.Context, id, ownerID string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	Update(ctx context.Context, project *models.Project, ownerID string) (*models.Project, error)
}
