// Package server initializes and runs the issue tracker server. It opens the
// database, applies migrations, wires services, handles graceful shutdown,
// and starts the HTTP server.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aivanovs/issuetracker/internal/logging"
	"github.com/aivanovs/issuetracker/internal/server/config"
	"github.com/aivanovs/issuetracker/internal/server/httpapi"
	"github.com/aivanovs/issuetracker/internal/server/repositories/repomanager"
	"github.com/aivanovs/issuetracker/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if c.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	ps := services.NewProjectService(db, rm)
	is := services.NewIssueService(db, rm)
	as := services.NewAttachmentService(db, rm, c)

	srv := httpapi.NewServer(c, logger, us, ps, is, as)

	app := &App{config: c, logger: logger, db: db, server: srv}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
