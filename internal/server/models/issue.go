package models

import "time"

// Issue priorities, stored as single-character strings ("1" is highest).
const (
	PriorityHigh   = "1"
	PriorityMedium = "2"
	PriorityLow    = "3"
)

// IssuePatch carries a partial update. Nil fields are left unchanged.
type IssuePatch struct {
	Title    *string
	Priority *string
	DueDate  *string
	Done     *bool
}

type Issue struct {
	ID        string
	Title     string
	Priority  string
	DueDate   string // YYYY-MM-DD
	Done      bool
	ProjectID string
	OwnerID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
