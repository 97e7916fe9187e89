package models

import "time"

// Attachment links an uploaded object in S3-compatible storage to an issue.
// The file body itself never passes through the server; clients upload and
// download via presigned URLs.
type Attachment struct {
	ID         string
	IssueID    string
	FileName   string
	StorageKey string
	Uploaded   bool
	OwnerID    *string
	CreatedAt  time.Time
}
