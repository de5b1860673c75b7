package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"edms/internal/model"
)

// Commands are the strongly-typed, fully-validated inputs the lifecycle
// manager operates on. Handlers build them from untyped form/JSON payloads
// and must call Validate before passing them down; the service validates
// again so raw input can never reach policy or persistence.

// Actor identifies who performs a mutation. Admin actors bypass the ownership
// guard but not the lifecycle state machine.
type Actor struct {
	Email string
	Admin bool
}

// FileUpload is one file received at the boundary, streamed to object storage.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateDocumentCommand carries the metadata for a new document.
type CreateDocumentCommand struct {
	Title       string
	Department  string
	OwnerEmail  string
	Tags        string
	Description string
	AccessLevel model.AccessLevel
	CreatedAt   time.Time
}

// Validate enforces the creation rules: title and department are mandatory,
// the owner must be an email address, and the access level must be one of the
// three known tiers (callers default it to private before validation).
func (c CreateDocumentCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Department, validation.Required),
		validation.Field(&c.OwnerEmail, validation.Required, is.Email),
		validation.Field(&c.AccessLevel, validation.By(accessLevelRule)),
	)
}

// UpdateDocumentCommand carries a full metadata replacement. Title and
// department are mandatory on every update; partial updates to those two
// fields are rejected, not merged. A nil AccessLevel keeps the stored value.
type UpdateDocumentCommand struct {
	Title       string
	Department  string
	Tags        string
	Description string
	AccessLevel *model.AccessLevel
}

func (c UpdateDocumentCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Department, validation.Required),
		validation.Field(&c.AccessLevel, validation.By(optionalAccessLevelRule)),
	)
}

func accessLevelRule(value any) error {
	level, _ := value.(model.AccessLevel)
	if !level.Valid() {
		return fmt.Errorf("must be one of private, team, public")
	}
	return nil
}

func optionalAccessLevelRule(value any) error {
	level, _ := value.(*model.AccessLevel)
	if level == nil {
		return nil
	}
	return accessLevelRule(*level)
}

// createdAtLayouts are the wall-clock shapes the upload form produces: a bare
// date from a date input, or a minute-precision local datetime. Values without
// zone information are treated as UTC.
var createdAtLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseCreatedAt normalizes a caller-supplied creation timestamp. An empty
// value means "now". Zoned inputs (RFC 3339) are trusted as-is.
func ParseCreatedAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized createdAt value %q", raw)
}
