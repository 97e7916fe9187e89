package httpapi

import (
	"github.com/aivanovs/issuetracker/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

type projectCreateRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type projectPatchRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

func (s *Server) handleProjectList(c *fiber.Ctx) error {
	items, err := s.projects.List(c.UserContext(), callerID(c))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(toProjectResponses(items))
}

func (s *Server) handleProjectGet(c *fiber.Ctx) error {
	project, err := s.projects.Get(c.UserContext(), c.Params("id"), callerID(c))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(toProjectResponse(project))
}

func (s *Server) handleProjectCreate(c *fiber.Ctx) error {
	var body projectCreateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}
	if err := validOptionalID(body.ID); err != nil {
		return err
	}

	active := true
	if body.Active != nil {
		active = *body.Active
	}

	project, err := s.projects.Create(c.UserContext(), callerID(c), &models.Project{
		ID:     body.ID,
		Name:   body.Name,
		Active: active,
	})
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProjectResponse(project))
}

func (s *Server) handleProjectPatch(c *fiber.Ctx) error {
	var body projectPatchRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	userID := callerID(c)
	project, err := s.projects.Get(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return toFiberError(err)
	}

	if body.Name != nil {
		project.Name = *body.Name
	}
	if body.Active != nil {
		project.Active = *body.Active
	}

	updated, err := s.projects.Update(c.UserContext(), userID, &models.Project{
		ID:     project.ID,
		Name:   project.Name,
		Active: project.Active,
	})
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(toProjectResponse(updated))
}
