package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Package storage contains object storage abstractions for S3-compatible
// backends. Implementations must avoid local disk and rely on streaming I/O.

// Class is the content classification of an uploaded object. Document-like
// files (pdf, docx) are stored under a dedicated prefix so the backend can
// serve them as raw downloads rather than transformable media.
type Class string

const (
	ClassDocument Class = "document"
	ClassGeneric  Class = "generic"
)

// ClassifyFilename derives the storage class from a filename extension.
func ClassifyFilename(name string) Class {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx":
		return ClassDocument
	}
	return ClassGeneric
}

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Class       Class
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
// URL is a durable, publicly dereferenceable location for the object.
type ObjectInfo struct {
	Key          string
	URL          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable, S3-compatible object storage client interface.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL usable without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
