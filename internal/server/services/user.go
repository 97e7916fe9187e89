// Package services contains server-side business logic. This file implements
// UserService, which handles signup and signin and mints session JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aivanovs/issuetracker/internal/common"
	"github.com/aivanovs/issuetracker/internal/server/auth"
	"github.com/aivanovs/issuetracker/internal/server/config"
	"github.com/aivanovs/issuetracker/internal/server/models"
	"github.com/aivanovs/issuetracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Session bundles a signed JWT with the user it was issued for.
type Session struct {
	Token string
	User  *models.User
}

// UserService provides authentication-related operations:
// - Signup: create users and issue a first session token
// - Signin: verify credentials and mint a session token
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
	}
}

// Signup registers a new account and returns a ready-to-use session.
// An empty role defaults to RoleUser. A taken email yields ErrDuplicateEmail
// regardless of whether the clash is caught by the pre-check or by the
// unique index.
func (s *UserService) Signup(ctx context.Context, email, password, role string) (*Session, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, common.ErrorInternal
	}

	return s.newSession(created)
}

// Signin verifies the provided credentials and, on success, returns a new
// session. An unknown email and a wrong password both yield
// ErrInvalidCredentials so the response does not reveal which one failed.
func (s *UserService) Signin(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.newSession(user)
}

func (s *UserService) newSession(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, User: user}, nil
}
