package projects

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aivanovs/issuetracker/internal/common"
	"github.com/aivanovs/issuetracker/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestListVisible_ScopesByOwnerOrNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+projects\s+WHERE\s+owner_id\s*=\s*\$1\s+OR\s+owner_id\s+IS\s+NULL\s+ORDER\s+BY\s+created_at\s+ASC\s*$`

	owner := "u-1"
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "active", "owner_id", "created_at", "updated_at"}).
		AddRow("p-1", "Apollo", true, owner, now, now).
		AddRow("p-2", "Legacy", true, nil, now, now)
	mock.ExpectQuery(q).WithArgs(owner).WillReturnRows(rows)

	got, err := repo.ListVisible(context.Background(), owner)
	if err != nil {
		t.Fatalf("ListVisible error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(got))
	}
	if got[0].OwnerID == nil || *got[0].OwnerID != owner {
		t.Fatalf("unexpected owner: %+v", got[0])
	}
	if got[1].OwnerID != nil {
		t.Fatalf("legacy row must have nil owner: %+v", got[1])
	}
}

func TestGetVisible_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+projects\s+WHERE\s+id\s*=\s*\$1\s+AND\s+\(owner_id\s*=\s*\$2\s+OR\s+owner_id\s+IS\s+NULL\)\s*$`

	mock.ExpectQuery(q).WithArgs("p-x", "u-1").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetVisible(context.Background(), "p-x", "u-1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+projects\s*\(id,\s*name,\s*active,\s*owner_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

	owner := "u-1"
	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("p-1", "Apollo", true, "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p := &models.Project{ID: "p-1", Name: "Apollo", Active: true, OwnerID: &owner}
	got, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("created_at not populated: %+v", got)
	}
}

func TestUpdate_ClaimsOwnerlessRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+projects\s+SET\s+name\s*=\s*\$1,\s*active\s*=\s*\$2,\s*owner_id\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$4\s+AND\s+\(owner_id\s*=\s*\$3\s+OR\s+owner_id\s+IS\s+NULL\)\s+RETURNING\s+owner_id,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("Renamed", false, "u-1", "p-1").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "created_at", "updated_at"}).AddRow("u-1", now, now))

	p := &models.Project{ID: "p-1", Name: "Renamed", Active: false}
	got, err := repo.Update(context.Background(), p, "u-1")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.OwnerID == nil || *got.OwnerID != "u-1" {
		t.Fatalf("owner must be claimed on write: %+v", got)
	}
}

func TestUpdate_OtherOwnersRowIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+projects\s+SET\s+.*RETURNING\s+owner_id,\s*created_at,\s*updated_at\s*$`

	mock.ExpectQuery(q).
		WithArgs("Renamed", true, "u-2", "p-1").
		WillReturnError(sql.ErrNoRows)

	p := &models.Project{ID: "p-1", Name: "Renamed", Active: true}
	_, err := repo.Update(context.Background(), p, "u-2")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestListVisible_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+projects\s+WHERE\s+owner_id\s*=\s*\$1.*$`

	mock.ExpectQuery(q).WithArgs("u-1").WillReturnError(errors.New("db down"))

	_, err := repo.ListVisible(context.Background(), "u-1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
