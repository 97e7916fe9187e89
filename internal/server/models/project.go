package models

import "time"

// Project is a top-level container for issues. OwnerID is nil for rows that
// predate ownership or whose owning account was removed.
type Project struct {
	ID        string
	Name      string
	Active    bool
	OwnerID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
