package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"edms/internal/model"
	"edms/internal/policy"
	"edms/internal/repository"
	"edms/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrForbidden  = errors.New("operation not permitted")
	ErrNoFiles    = errors.New("no files supplied")
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService owns the document lifecycle: creation, metadata and
// attachment edits while active, soft deletion, and the final purge. Every
// mutation is applied as one conditional update in the store; a zero-row
// outcome is classified into not-found or forbidden by a follow-up read so
// callers can tell an absent object from a denied one.
type DocumentService interface {
	// Upload stores each file in object storage and inserts the document row.
	// The batch is atomic: any upload failure fails the whole request and
	// removes the objects stored so far; nothing reaches the database.
	Upload(ctx context.Context, cmd CreateDocumentCommand, files []FileUpload) (*model.Document, error)

	// List returns active documents readable by the requester, newest first.
	List(ctx context.Context, req policy.Requester, limit, offset int) (*DocumentListResult, error)

	// ListAll is the administrative listing: every active document,
	// ignoring ownership and department filters.
	ListAll(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single active document if the requester may read it.
	// Unreadable and soft-deleted documents are reported as not found; read
	// denial does not reveal existence.
	Get(ctx context.Context, id string, req policy.Requester) (*model.Document, error)

	// UpdateMetadata replaces the document's metadata. Title and department
	// are mandatory on every update.
	UpdateMetadata(ctx context.Context, id string, cmd UpdateDocumentCommand, actor Actor) error

	// UpdateAttachments uploads the new files and replaces the attachment
	// list with keep ++ uploads. The edited timestamp is untouched.
	UpdateAttachments(ctx context.Context, id string, keep []model.Attachment, files []FileUpload, actor Actor) (*model.Document, error)

	// SoftDelete flips the document into the trash. Only active documents
	// can be soft-deleted; repeating the call reports not found.
	SoftDelete(ctx context.Context, id string, actor Actor) error

	// Purge permanently removes a soft-deleted document. Purging an active
	// document is rejected. Administrative callers only.
	Purge(ctx context.Context, id string) error
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

func (s *documentService) Upload(ctx context.Context, cmd CreateDocumentCommand, files []FileUpload) (*model.Document, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	atts, keys, err := s.uploadBatch(ctx, files)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       cmd.Title,
		Department:  cmd.Department,
		OwnerEmail:  cmd.OwnerEmail,
		Tags:        cmd.Tags,
		Description: cmd.Description,
		AccessLevel: cmd.AccessLevel,
		Attachments: atts,
		CreatedAt:   cmd.CreatedAt,
	}
	stored, err := s.repo.Insert(ctx, doc)
	if err != nil {
		s.removeObjects(ctx, keys)
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// uploadBatch stores every file independently and concurrently, preserving
// upload order in the returned attachment list. On any failure the objects
// stored so far are removed and the whole batch fails; there is no partial
// success to report.
func (s *documentService) uploadBatch(ctx context.Context, files []FileUpload) ([]model.Attachment, []string, error) {
	atts := make([]model.Attachment, len(files))
	keys := make([]string, len(files))
	var mu sync.Mutex
	stored := make([]string, 0, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if f.Reader == nil {
				return fmt.Errorf("file %q: no content", f.Name)
			}
			class := storage.ClassifyFilename(f.Name)
			key := objectKey(f.Name, class)

			info, err := s.store.Put(gctx, key, f.Reader, storage.PutObjectOptions{
				Size:        f.Size,
				ContentType: f.ContentType,
				Class:       class,
				Metadata:    map[string]string{"original-filename": f.Name},
			})
			if err != nil {
				return fmt.Errorf("upload to storage: %w", err)
			}

			atts[i] = model.Attachment{Name: f.Name, URL: info.URL}
			keys[i] = info.Key
			mu.Lock()
			stored = append(stored, info.Key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.removeObjects(ctx, stored)
		return nil, nil, err
	}
	return atts, keys, nil
}

// removeObjects is best-effort cleanup after a failed batch; a failed delete
// leaves an orphaned object, never a dangling database reference.
func (s *documentService) removeObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if key != "" {
			_ = s.store.Delete(ctx, key)
		}
	}
}

func objectKey(filename string, class storage.Class) string {
	prefix := "uploads"
	if class == storage.ClassDocument {
		prefix = "documents"
	}
	return prefix + "/" + uuid.New().String() + filepath.Ext(filename)
}

func (s *documentService) List(ctx context.Context, req policy.Requester, limit, offset int) (*DocumentListResult, error) {
	return s.list(ctx, repository.ListFilter{
		RequesterEmail:      req.Email,
		RequesterDepartment: req.Department,
	}, limit, offset)
}

func (s *documentService) ListAll(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	return s.list(ctx, repository.ListFilter{All: true}, limit, offset)
}

func (s *documentService) list(ctx context.Context, f repository.ListFilter, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id string, req policy.Requester) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.IsDeleted || !policy.Evaluate(doc, req).CanRead {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *documentService) UpdateMetadata(ctx context.Context, id string, cmd UpdateDocumentCommand, actor Actor) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	guard, err := actorGuard(actor)
	if err != nil {
		return err
	}

	rows, err := s.repo.UpdateMetadata(ctx, id, repository.MetadataUpdate{
		Title:       cmd.Title,
		Department:  cmd.Department,
		Tags:        cmd.Tags,
		Description: cmd.Description,
		AccessLevel: cmd.AccessLevel,
	}, guard)
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.classifyMiss(ctx, id, actor)
	}
	return nil
}

func (s *documentService) UpdateAttachments(ctx context.Context, id string, keep []model.Attachment, files []FileUpload, actor Actor) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	guard, err := actorGuard(actor)
	if err != nil {
		return nil, err
	}

	var uploaded []model.Attachment
	var keys []string
	if len(files) > 0 {
		uploaded, keys, err = s.uploadBatch(ctx, files)
		if err != nil {
			return nil, err
		}
	}

	final := ReconcileAttachments(keep, uploaded)
	rows, err := s.repo.UpdateAttachments(ctx, id, final, guard)
	if err != nil {
		s.removeObjects(ctx, keys)
		return nil, err
	}
	if rows == 0 {
		s.removeObjects(ctx, keys)
		return nil, s.classifyMiss(ctx, id, actor)
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) SoftDelete(ctx context.Context, id string, actor Actor) error {
	if id == "" {
		return ErrIDRequired
	}
	guard, err := actorGuard(actor)
	if err != nil {
		return err
	}

	rows, err := s.repo.SoftDelete(ctx, id, guard)
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.classifyMiss(ctx, id, actor)
	}
	return nil
}

func (s *documentService) Purge(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	rows, err := s.repo.Purge(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Either the row is gone or it is still active; the purge guard
		// excludes both, and both read as not found.
		return ErrNotFound
	}
	return nil
}

// actorGuard translates the actor into the repository guard. Non-admin
// mutations always require an owning identity.
func actorGuard(actor Actor) (repository.Guard, error) {
	if actor.Admin {
		return repository.Guard{}, nil
	}
	if actor.Email == "" {
		return repository.Guard{}, ErrForbidden
	}
	return repository.Guard{OwnerEmail: actor.Email}, nil
}

// classifyMiss resolves a zero-row conditional update into not-found or
// forbidden. A row that exists, is active, and is owned by someone else is a
// denial; anything else (absent, soft-deleted, or a lost race) is not found.
func (s *documentService) classifyMiss(ctx context.Context, id string, actor Actor) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if doc.IsDeleted {
		return ErrNotFound
	}
	if !actor.Admin && doc.OwnerEmail != actor.Email {
		return ErrForbidden
	}
	return ErrNotFound
}
