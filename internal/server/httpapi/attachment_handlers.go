package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

type attachmentCreateRequest struct {
	FileName string `json:"fileName"`
}

type attachmentUploadResponse struct {
	attachmentResponse
	UploadURL string `json:"uploadUrl"`
}

// handleAttachmentCreate registers attachment metadata for an issue and
// returns a presigned PUT URL. The client uploads the body directly to
// object storage and then confirms.
func (s *Server) handleAttachmentCreate(c *fiber.Ctx) error {
	var body attachmentCreateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.FileName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "fileName required")
	}

	attachment, uploadURL, err := s.attachments.CreateUpload(c.UserContext(), callerID(c), c.Params("id"), body.FileName)
	if err != nil {
		return toFiberError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(attachmentUploadResponse{
		attachmentResponse: toAttachmentResponse(attachment),
		UploadURL:          uploadURL,
	})
}

func (s *Server) handleAttachmentList(c *fiber.Ctx) error {
	items, err := s.attachments.List(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}

	result := make([]attachmentResponse, 0, len(items))
	for _, a := range items {
		result = append(result, toAttachmentResponse(a))
	}
	return c.JSON(result)
}

// handleAttachmentConfirm marks an attachment uploaded once the client
// finishes its PUT to storage.
func (s *Server) handleAttachmentConfirm(c *fiber.Ctx) error {
	if err := s.attachments.ConfirmUpload(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleAttachmentDownload(c *fiber.Ctx) error {
	attachment, downloadURL, err := s.attachments.GetDownloadURL(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}

	return c.JSON(fiber.Map{
		"id":          attachment.ID,
		"fileName":    attachment.FileName,
		"downloadUrl": downloadURL,
	})
}
