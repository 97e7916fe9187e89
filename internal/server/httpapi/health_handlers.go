package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Uptime    float64   `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(healthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.startedAt).Seconds(),
		Timestamp: time.Now(),
		Version:   Version,
	})
}
