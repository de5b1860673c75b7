package model

import "time"

// AccessLevel is the visibility tier of a document.
// It is a closed enumeration: private, team, or public.
type AccessLevel string

const (
	AccessPrivate AccessLevel = "private"
	AccessTeam    AccessLevel = "team"
	AccessPublic  AccessLevel = "public"
)

// Valid reports whether the level is one of the three known tiers.
func (l AccessLevel) Valid() bool {
	switch l {
	case AccessPrivate, AccessTeam, AccessPublic:
		return true
	}
	return false
}

// Attachment is one (display name, storage URL) pair of a document.
// Attachments are ordered and duplicates are permitted.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Document represents a stored document record.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Department  string       `json:"department"`
	OwnerEmail  string       `json:"owner_email"`
	Tags        string       `json:"tags"`
	Description string       `json:"description"`
	AccessLevel AccessLevel  `json:"access_level"`
	Attachments []Attachment `json:"attachments"`
	IsDeleted   bool         `json:"is_deleted"`
	CreatedAt   time.Time    `json:"created_at"`
	EditedAt    *time.Time   `json:"edited_at,omitempty"`
}
