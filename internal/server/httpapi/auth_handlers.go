package httpapi

import (
	"regexp"

	"github.com/gofiber/fiber/v2"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// bcrypt hashes at most 72 bytes and rejects longer inputs outright, so the
// validated maximum is 72 rather than silently truncating.
const (
	passwordMinLen = 6
	passwordMaxLen = 72
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email")
	}
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return fiber.NewError(fiber.StatusBadRequest, "password must be 6 to 72 characters")
	}
	return nil
}

func (s *Server) handleSignup(c *fiber.Ctx) error {
	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := validateCredentials(body.Email, body.Password); err != nil {
		return err
	}

	session, err := s.users.Signup(c.UserContext(), body.Email, body.Password, body.UserType)
	if err != nil {
		return toFiberError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

func (s *Server) handleSignin(c *fiber.Ctx) error {
	var body signinRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	session, err := s.users.Signin(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return toFiberError(err)
	}

	return c.JSON(sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

// handleSignout exists for frontend symmetry. Tokens are stateless, so the
// server has nothing to revoke; clients discard the token.
func (s *Server) handleSignout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}
