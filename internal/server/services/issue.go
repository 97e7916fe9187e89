package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aivanovs/issuetracker/internal/common"
	"github.com/aivanovs/issuetracker/internal/server/models"
	"github.com/aivanovs/issuetracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// IssueService implements issue CRUD scoped to the calling user. Creating an
// issue requires the parent project to be visible to the caller.
type IssueService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewIssueService(db *sql.DB, m repomanager.RepositoryManager) *IssueService {
	return &IssueService{db: db, repomanager: m}
}

// List returns issues visible to the user, optionally filtered by project.
// An empty projectID means all visible issues.
func (s *IssueService) List(ctx context.Context, userID, projectID string) ([]*models.Issue, error) {
	repo := s.repomanager.Issues(s.db)
	if projectID == "" {
		return repo.ListVisible(ctx, userID)
	}
	return repo.ListVisibleByProject(ctx, userID, projectID)
}

// Get returns a single visible issue or common.ErrorNotFound.
func (s *IssueService) Get(ctx context.Context, id, userID string) (*models.Issue, error) {
	repo := s.repomanager.Issues(s.db)
	return repo.GetVisible(ctx, id, userID)
}

// Create stores a new issue owned by the caller. The parent project must be
// visible to the caller, otherwise common.ErrorNotFound is returned. A
// client-supplied id is kept; an empty one is generated.
func (s *IssueService) Create(ctx context.Context, userID string, issue *models.Issue) (*models.Issue, error) {
	projectRepo := s.repomanager.Projects(s.db)
	if _, err := projectRepo.GetVisible(ctx, issue.ProjectID, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	repo := s.repomanager.Issues(s.db)
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	issue.OwnerID = &userID
	return repo.Create(ctx, issue)
}

// Update replaces the mutable fields of a visible issue. Writing to an
// ownerless row claims it.
func (s *IssueService) Update(ctx context.Context, userID string, issue *models.Issue) (*models.Issue, error) {
	repo := s.repomanager.Issues(s.db)
	return repo.Update(ctx, issue, userID)
}

// Patch applies a partial update on top of the stored issue. Nil fields are
// left unchanged.
func (s *IssueService) Patch(ctx context.Context, userID, id string, patch *models.IssuePatch) (*models.Issue, error) {
	repo := s.repomanager.Issues(s.db)

	issue, err := repo.GetVisible(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		issue.Title = *patch.Title
	}
	if patch.Priority != nil {
		issue.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		issue.DueDate = *patch.DueDate
	}
	if patch.Done != nil {
		issue.Done = *patch.Done
	}

	return repo.Update(ctx, issue, userID)
}

// Delete removes a visible issue or returns common.ErrorNotFound.
func (s *IssueService) Delete(ctx context.Context, id, userID string) error {
	repo := s.repomanager.Issues(s.db)
	return repo.Delete(ctx, id, userID)
}
