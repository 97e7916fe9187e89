package services

import (
	"context"
	"database/sql"

	"github.com/aivanovs/issuetracker/internal/server/models"
	"github.com/aivanovs/issuetracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ProjectService implements project CRUD scoped to the calling user.
// Rows with no owner are visible to everyone and become owned by whoever
// writes to them first.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{db: db, repomanager: m}
}

// List returns all projects visible to the user.
func (s *ProjectService) List(ctx context.Context, userID string) ([]*models.Project, error) {
	repo := s.repomanager.Projects(s.db)
	return repo.ListVisible(ctx, userID)
}

// Get returns a single visible project or common.ErrorNotFound.
func (s *ProjectService) Get(ctx context.Context, id, userID string) (*models.Project, error) {
	repo := s.repomanager.Projects(s.db)
	return repo.GetVisible(ctx, id, userID)
}

// Create stores a new project owned by the caller. A client-supplied id is
// kept; an empty one is generated.
func (s *ProjectService) Create(ctx context.Context, userID string, project *models.Project) (*models.Project, error) {
	repo := s.repomanager.Projects(s.db)
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.OwnerID = &userID
	return repo.Create(ctx, project)
}

// Update modifies a visible project. Writing to an ownerless row claims it.
func (s *ProjectService) Update(ctx context.Context, userID string, project *models.Project) (*models.Project, error) {
	repo := s.repomanager.Projects(s.db)
	return repo.Update(ctx, project, userID)
}
