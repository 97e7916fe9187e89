package httpapi

import (
	"strings"

	"github.com/aivanovs/issuetracker/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

// Locals keys populated by requireAuth.
const (
	localUserID    = "user_id"
	localUserEmail = "user_email"
	localUserRole  = "user_role"
)

// requireAuth extracts and verifies the Bearer token and stores the caller's
// identity in c.Locals. Requests without a valid token get 401.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return toFiberError(err)
	}

	c.Locals(localUserID, claims.UserID)
	c.Locals(localUserEmail, claims.Email)
	c.Locals(localUserRole, claims.Role)
	return c.Next()
}

// callerID returns the authenticated user id set by requireAuth.
func callerID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localUserID).(string); ok {
		return v
	}
	return ""
}
