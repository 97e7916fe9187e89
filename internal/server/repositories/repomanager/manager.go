package repomanager

import (
	"context"
	"database/sql"

	"github.com/aivanovs/issuetracker/internal/dbx"
	"github.com/aivanovs/issuetracker/internal/server/repositories/attachments"
	"github.com/aivanovs/issuetracker/internal/server/repositories/issues"
	"github.com/aivanovs/issuetracker/internal/server/repositories/projects"
	"github.com/aivanovs/issuetracker/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Projects(db dbx.DBTX) projects.Repository
	Issues(db dbx.DBTX) issues.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
