package httpapi

import (
	"time"

	"github.com/aivanovs/issuetracker/internal/server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type issueCreateRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	DueDate   string `json:"dueDate"`
	Done      bool   `json:"done"`
	ProjectID string `json:"projectId"`
}

type issuePatchRequest struct {
	Title    *string `json:"title"`
	Priority *string `json:"priority"`
	DueDate  *string `json:"dueDate"`
	Done     *bool   `json:"done"`
}

func validPriority(p string) bool {
	switch p {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return true
	}
	return false
}

func validDueDate(d string) bool {
	_, err := time.Parse("2006-01-02", d)
	return err == nil
}

// validOptionalID accepts a client-supplied id on create if it is a UUID;
// an empty id means the server generates one.
func validOptionalID(id string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a UUID")
	}
	return nil
}

func (s *Server) handleIssueList(c *fiber.Ctx) error {
	items, err := s.issues.List(c.UserContext(), callerID(c), c.Query("projectId"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(toIssueResponses(items))
}

func (s *Server) handleIssueGet(c *fiber.Ctx) error {
	issue, err := s.issues.Get(c.UserContext(), c.Params("id"), callerID(c))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(toIssueResponse(issue))
}

func (s *Server) handleIssueCreate(c *fiber.Ctx) error {
	var body issueCreateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Title == "" || body.ProjectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title and projectId required")
	}
	if !validPriority(body.Priority) {
		return fiber.NewError(fiber.StatusBadRequest, "priority must be 1, 2 or 3")
	}
	if !validDueDate(body.DueDate) {
		return fiber.NewError(fiber.StatusBadRequest, "dueDate must be YYYY-MM-DD")
	}
	if err := validOptionalID(body.ID); err != nil {
		return err
	}

	issue, err := s.issues.Create(c.UserContext(), callerID(c), &models.Issue{
		ID:        body.ID,
		Title:     body.Title,
		Priority:  body.Priority,
		DueDate:   body.DueDate,
		Done:      body.Done,
		ProjectID: body.ProjectID,
	})
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(toIssueResponse(issue))
}

// handleIssuePut replaces all mutable fields of an issue.
func (s *Server) handleIssuePut(c *fiber.Ctx) error {
	var body issueCreateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title required")
	}
	if !validPriority(body.Priority) {
		return fiber.NewError(fiber.StatusBadRequest, "priority must be 1, 2 or 3")
	}
	if !validDueDate(body.DueDate) {
		return fiber.NewError(fiber.StatusBadRequest, "dueDate must be YYYY-MM-DD")
	}

	issue, err := s.issues.Update(c.UserContext(), callerID(c), &models.Issue{
		ID:       c.Params("id"),
		Title:    body.Title,
		Priority: body.Priority,
		DueDate:  body.DueDate,
		Done:     body.Done,
	})
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(toIssueResponse(issue))
}

// handleIssuePatch applies a partial update; omitted fields keep their value.
func (s *Server) handleIssuePatch(c *fiber.Ctx) error {
	var body issuePatchRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Priority != nil && !validPriority(*body.Priority) {
		return fiber.NewError(fiber.StatusBadRequest, "priority must be 1, 2 or 3")
	}
	if body.DueDate != nil && !validDueDate(*body.DueDate) {
		return fiber.NewError(fiber.StatusBadRequest, "dueDate must be YYYY-MM-DD")
	}

	issue, err := s.issues.Patch(c.UserContext(), callerID(c), c.Params("id"), &models.IssuePatch{
		Title:    body.Title,
		Priority: body.Priority,
		DueDate:  body.DueDate,
		Done:     body.Done,
	})
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(toIssueResponse(issue))
}

func (s *Server) handleIssueDelete(c *fiber.Ctx) error {
	if err := s.issues.Delete(c.UserContext(), c.Params("id"), callerID(c)); err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}
