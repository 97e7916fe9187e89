// Package httpapi exposes the issue tracker over HTTP/JSON using fiber.
// Route casing (/Project, /Issue) follows the original frontend contract.
package httpapi

import (
	"context"
	"time"

	"github.com/aivanovs/issuetracker/internal/logging"
	"github.com/aivanovs/issuetracker/internal/server/config"
	"github.com/aivanovs/issuetracker/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

const shutdownTimeout = 5 * time.Second

// Version is reported by the health endpoint.
var Version = "1.0.0"

// Server wires fiber routes to the service layer.
type Server struct {
	app    *fiber.App
	addr   string
	logger logging.Logger

	jwtSecret []byte
	startedAt time.Time

	users       *services.UserService
	projects    *services.ProjectService
	issues      *services.IssueService
	attachments *services.AttachmentService
}

// NewServer builds a Server with all routes registered.
func NewServer(cfg *config.Config, logger logging.Logger,
	users *services.UserService, projects *services.ProjectService,
	issues *services.IssueService, attachments *services.AttachmentService) *Server {

	s := &Server{
		app:         fiber.New(fiber.Config{ErrorHandler: errorHandler}),
		addr:        cfg.EndpointAddr,
		logger:      logger,
		jwtSecret:   []byte(cfg.SecretKey),
		startedAt:   time.Now(),
		users:       users,
		projects:    projects,
		issues:      issues,
		attachments: attachments,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)

	authGroup := s.app.Group("/auth")
	authGroup.Post("/signup", s.handleSignup)
	authGroup.Post("/signin", s.handleSignin)
	authGroup.Post("/signout", s.handleSignout)

	projectGroup := s.app.Group("/Project", s.requireAuth)
	projectGroup.Get("/", s.handleProjectList)
	projectGroup.Post("/", s.handleProjectCreate)
	projectGroup.Get("/:id", s.handleProjectGet)
	projectGroup.Patch("/:id", s.handleProjectPatch)

	issueGroup := s.app.Group("/Issue", s.requireAuth)
	issueGroup.Get("/", s.handleIssueList)
	issueGroup.Post("/", s.handleIssueCreate)
	issueGroup.Get("/:id", s.handleIssueGet)
	issueGroup.Put("/:id", s.handleIssuePut)
	issueGroup.Patch("/:id", s.handleIssuePatch)
	issueGroup.Delete("/:id", s.handleIssueDelete)
	issueGroup.Post("/:id/attachments", s.handleAttachmentCreate)
	issueGroup.Get("/:id/attachments", s.handleAttachmentList)

	s.app.Post("/attachments/:id/confirm", s.requireAuth, s.handleAttachmentConfirm)
	s.app.Get("/attachments/:id/download", s.requireAuth, s.handleAttachmentDownload)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.addr)
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "shutting down http server")
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}
