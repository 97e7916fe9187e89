package httpapi

import (
	"time"

	"github.com/aivanovs/issuetracker/internal/server/models"
)

// Response DTOs use the camelCase field names the original frontend expects.

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UserType  string    `json:"userType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		UserType:  u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type projectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	OwnerID   *string   `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Active:    p.Active,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProjectResponses(items []*models.Project) []projectResponse {
	result := make([]projectResponse, 0, len(items))
	for _, p := range items {
		result = append(result, toProjectResponse(p))
	}
	return result
}

type issueResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority"`
	DueDate   string    `json:"dueDate"`
	Done      bool      `json:"done"`
	ProjectID string    `json:"projectId"`
	OwnerID   *string   `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toIssueResponse(i *models.Issue) issueResponse {
	return issueResponse{
		ID:        i.ID,
		Title:     i.Title,
		Priority:  i.Priority,
		DueDate:   i.DueDate,
		Done:      i.Done,
		ProjectID: i.ProjectID,
		OwnerID:   i.OwnerID,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func toIssueResponses(items []*models.Issue) []issueResponse {
	result := make([]issueResponse, 0, len(items))
	for _, i := range items {
		result = append(result, toIssueResponse(i))
	}
	return result
}

type attachmentResponse struct {
	ID         string    `json:"id"`
	IssueID    string    `json:"issueId"`
	FileName   string    `json:"fileName"`
	StorageKey string    `json:"storageKey"`
	Uploaded   bool      `json:"uploaded"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toAttachmentResponse(a *models.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:         a.ID,
		IssueID:    a.IssueID,
		FileName:   a.FileName,
		StorageKey: a.StorageKey,
		Uploaded:   a.Uploaded,
		CreatedAt:  a.CreatedAt,
	}
}
