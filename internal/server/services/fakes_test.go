package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aivanovs/issuetracker/internal/dbx"
	"github.com/aivanovs/issuetracker/internal/server/models"
	attachmentsrepo "github.com/aivanovs/issuetracker/internal/server/repositories/attachments"
	issuesrepo "github.com/aivanovs/issuetracker/internal/server/repositories/issues"
	projectsrepo "github.com/aivanovs/issuetracker/internal/server/repositories/projects"
	usersrepo "github.com/aivanovs/issuetracker/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeProjectsRepo struct {
	listOut []*models.Project
	listErr error

	getOut *models.Project
	getErr error

	createOut *models.Project
	createErr error

	updateOut *models.Project
	updateErr error

	lastCreated *models.Project
	lastUpdated *models.Project
}

func (f *fakeProjectsRepo) ListVisible(ctx context.Context, ownerID string) ([]*models.Project, error) {
	return f.listOut, f.listErr
}

func (f *fakeProjectsRepo) GetVisible(ctx context.Context, id, ownerID string) (*models.Project, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeProjectsRepo) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	f.lastCreated = p
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return p, nil
}

func (f *fakeProjectsRepo) Update(ctx context.Context, p *models.Project, ownerID string) (*models.Project, error) {
	f.lastUpdated = p
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	return p, nil
}

type fakeIssuesRepo struct {
	listOut []*models.Issue
	listErr error

	listByProjectOut []*models.Issue
	listByProjectErr error

	getOut *models.Issue
	getErr error

	createErr error
	updateErr error
	deleteErr error

	lastCreated *models.Issue
	lastUpdated *models.Issue
}

func (f *fakeIssuesRepo) ListVisible(ctx context.Context, ownerID string) ([]*models.Issue, error) {
	return f.listOut, f.listErr
}

func (f *fakeIssuesRepo) ListVisibleByProject(ctx context.Context, ownerID, projectID string) ([]*models.Issue, error) {
	return f.listByProjectOut, f.listByProjectErr
}

func (f *fakeIssuesRepo) GetVisible(ctx context.Context, id, ownerID string) (*models.Issue, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeIssuesRepo) Create(ctx context.Context, i *models.Issue) (*models.Issue, error) {
	f.lastCreated = i
	if f.createErr != nil {
		return nil, f.createErr
	}
	return i, nil
}

func (f *fakeIssuesRepo) Update(ctx context.Context, i *models.Issue, ownerID string) (*models.Issue, error) {
	f.lastUpdated = i
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return i, nil
}

func (f *fakeIssuesRepo) Delete(ctx context.Context, id, ownerID string) error {
	return f.deleteErr
}

type fakeAttachmentsRepo struct {
	createErr error

	listOut []*models.Attachment
	listErr error

	getOut *models.Attachment
	getErr error

	markErr    error
	lastMarked string

	lastCreated *models.Attachment
}

func (f *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	f.lastCreated = a
	if f.createErr != nil {
		return nil, f.createErr
	}
	return a, nil
}

func (f *fakeAttachmentsRepo) ListByIssue(ctx context.Context, issueID string) ([]*models.Attachment, error) {
	return f.listOut, f.listErr
}

func (f *fakeAttachmentsRepo) Get(ctx context.Context, id string) (*models.Attachment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAttachmentsRepo) MarkUploaded(ctx context.Context, id string) error {
	f.lastMarked = id
	return f.markErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProjectsRepo
	i *fakeIssuesRepo
	a *fakeAttachmentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Projects(db dbx.DBTX) projectsrepo.Repository { return m.p }
func (m *fakeRepoManager) Issues(db dbx.DBTX) issuesrepo.Repository     { return m.i }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository {
	return m.a
}
