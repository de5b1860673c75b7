package repository

import (
	"context"

	"edms/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

// Guard restricts a conditional mutation to rows owned by the given email.
// The zero value is the administrative bypass: the mutation matches on
// identifier and lifecycle state only.
type Guard struct {
	OwnerEmail string
}

// Admin reports whether the guard bypasses the ownership check.
func (g Guard) Admin() bool {
	return g.OwnerEmail == ""
}

// MetadataUpdate carries the full replacement metadata for a document.
// Title and Department are always written; AccessLevel nil keeps the stored
// value (COALESCE semantics).
type MetadataUpdate struct {
	Title       string
	Department  string
	Tags        string
	Description string
	AccessLevel *model.AccessLevel
}

// ListFilter selects which active documents a listing returns.
// All = true is the administrative view: every active document regardless of
// visibility. Otherwise the requester's email/department drive the policy
// filter; empty values match only public documents.
type ListFilter struct {
	RequesterEmail      string
	RequesterDepartment string
	All                 bool
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations. Every conditional
// mutation returns the affected row count; zero rows is the sole signal that
// the combined identifier/ownership/state guard did not hold.
type DocumentRepository interface {
	// Insert stores a new document row and returns the stored record.
	Insert(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, including soft-deleted rows.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns active documents matching the filter, newest first,
	// with a total row count for the same filter.
	List(ctx context.Context, f ListFilter, pq PageQuery) (*PageResult[model.Document], error)

	// UpdateMetadata applies a full metadata replacement to an active document.
	UpdateMetadata(ctx context.Context, id string, upd MetadataUpdate, g Guard) (int64, error)

	// UpdateAttachments replaces the attachment list of an active document.
	// The edited timestamp is not touched by this path.
	UpdateAttachments(ctx context.Context, id string, atts []model.Attachment, g Guard) (int64, error)

	// SoftDelete flips the deletion flag on an active document.
	SoftDelete(ctx context.Context, id string, g Guard) (int64, error)

	// Purge permanently removes a document that is already soft-deleted.
	Purge(ctx context.Context, id string) (int64, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
