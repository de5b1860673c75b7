package handler

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edms/internal/directory"
	"edms/internal/http/middleware"
	"edms/internal/model"
	"edms/internal/policy"
	"edms/internal/service"
)

// verifiedEmail returns the gateway-attested identity, empty when the request
// came in anonymously (safe methods bypass the gateway).
func verifiedEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(middleware.VerifiedEmailLocalKey).(string)
	return email
}

// requesterFrom builds the policy requester for read operations. Anonymous
// reads fall back to the self-declared email query parameter; the visibility
// filter treats it as a hint, and everything beyond public visibility is
// cross-checked against ownership in the store. Department affiliation is
// resolved through the HR directory on a best-effort basis.
func requesterFrom(c *fiber.Ctx, dir directory.Directory) policy.Requester {
	email := verifiedEmail(c)
	if email == "" {
		email = strings.TrimSpace(c.Query("email"))
	}
	req := policy.Requester{Email: email}
	if email == "" || dir == nil {
		return req
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if dep, err := dir.DepartmentByEmail(ctx, email); err == nil {
		req.Department = dep.Name
	}
	return req
}

func actorFrom(c *fiber.Ctx) service.Actor {
	return service.Actor{Email: verifiedEmail(c)}
}

// parsePage parses the pagination query parameters. On invalid input it
// writes the 400 envelope itself and reports ok=false; the handler must stop.
func parsePage(c *fiber.Ctx) (limit, offset int, ok bool) {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		return 0, 0, false
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		return 0, 0, false
	}
	return limit, offset, true
}

func formValue(c *fiber.Ctx, names ...string) string {
	for _, n := range names {
		if v := c.FormValue(n); v != "" {
			return v
		}
	}
	return ""
}

// parseID validates the :id path parameter. On a malformed id it writes the
// 400 envelope itself and reports ok=false; the handler must stop.
func parseID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		return "", false
	}
	return id, true
}

// openUploads converts multipart file headers into service uploads. The
// returned closer must be called after the service consumed the readers.
func openUploads(headers []*multipart.FileHeader) ([]service.FileUpload, func(), error) {
	files := make([]service.FileUpload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opened = append(opened, f)

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		files = append(files, service.FileUpload{
			Name:        fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Reader:      f,
		})
	}
	return files, closeAll, nil
}

// HealthCheck reports readiness by pinging the primary database.
func HealthCheck(pinger interface {
	PingContext(ctx context.Context) error
}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pinger.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// ListDocuments returns the active documents visible to the requester.
func ListDocuments(docSvc service.DocumentService, dir directory.Directory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := parsePage(c)
		if !ok {
			return nil
		}
		res, err := docSvc.List(c.UserContext(), requesterFrom(c, dir), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument creates a document from a multipart form: metadata fields
// plus one or more entries under the "files" field. The verified gateway
// identity becomes the owner.
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := verifiedEmail(c)
		if owner == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "verified identity required")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form required")
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
		}

		// The employee portal's upload form uses createdAt/shareTo; accept
		// those aliases alongside the canonical names.
		createdAt, err := service.ParseCreatedAt(formValue(c, "created_at", "createdAt"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CREATED_AT", "unrecognized created_at value")
		}

		level := model.AccessLevel(formValue(c, "access_level", "shareTo"))
		if level == "" {
			level = model.AccessPrivate
		}

		cmd := service.CreateDocumentCommand{
			Title:       c.FormValue("title"),
			Department:  c.FormValue("department"),
			OwnerEmail:  owner,
			Tags:        c.FormValue("tags"),
			Description: c.FormValue("description"),
			AccessLevel: level,
			CreatedAt:   createdAt,
		}
		if err := cmd.Validate(); err != nil {
			return writeServiceError(c, err)
		}

		files, closeAll, err := openUploads(headers)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeAll()

		doc, err := docSvc.Upload(c.UserContext(), cmd, files)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns one active document if the requester may read it.
func GetDocument(docSvc service.DocumentService, dir directory.Directory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		doc, err := docSvc.Get(c.UserContext(), id, requesterFrom(c, dir))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type updateDocumentRequest struct {
	Title       string  `json:"title"`
	Department  string  `json:"department"`
	Tags        string  `json:"tags"`
	Description string  `json:"description"`
	AccessLevel *string `json:"access_level"`
}

func (r updateDocumentRequest) command() service.UpdateDocumentCommand {
	cmd := service.UpdateDocumentCommand{
		Title:       r.Title,
		Department:  r.Department,
		Tags:        r.Tags,
		Description: r.Description,
	}
	if r.AccessLevel != nil {
		level := model.AccessLevel(*r.AccessLevel)
		cmd.AccessLevel = &level
	}
	return cmd
}

// UpdateDocument replaces the metadata of a document owned by the caller.
func UpdateDocument(docSvc service.DocumentService) fiber.Handler {
	return updateDocument(docSvc, actorFrom)
}

// AdminUpdateDocument replaces the metadata of any active document.
func AdminUpdateDocument(docSvc service.DocumentService) fiber.Handler {
	return updateDocument(docSvc, func(*fiber.Ctx) service.Actor {
		return service.Actor{Admin: true}
	})
}

func updateDocument(docSvc service.DocumentService, actor func(*fiber.Ctx) service.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		if err := docSvc.UpdateMetadata(c.UserContext(), id, req.command(), actor(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UpdateAttachments replaces a document's attachment list. The form declares
// which existing attachments survive (existingNames/existingUrls, two JSON
// string arrays paired by position) and may add new files under "files".
func UpdateAttachments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}

		// An unparseable form is a malformed request, not an empty edit;
		// committing it would wipe the attachment list. Lenient recovery
		// applies only to the keep-list fields below.
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form required")
		}

		keep := service.ParseKeepList(c.FormValue("existingNames"), c.FormValue("existingUrls"))

		files, closeAll, err := openUploads(form.File["files"])
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeAll()

		doc, err := docSvc.UpdateAttachments(c.UserContext(), id, keep, files, actorFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument moves a document owned by the caller into the trash.
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return softDelete(docSvc, actorFrom)
}

// AdminDeleteDocument moves any active document into the trash.
func AdminDeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return softDelete(docSvc, func(*fiber.Ctx) service.Actor {
		return service.Actor{Admin: true}
	})
}

func softDelete(docSvc service.DocumentService, actor func(*fiber.Ctx) service.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		if err := docSvc.SoftDelete(c.UserContext(), id, actor(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AdminListDocuments returns every active document, unfiltered.
func AdminListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := parsePage(c)
		if !ok {
			return nil
		}
		res, err := docSvc.ListAll(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// PurgeDocument permanently removes a soft-deleted document.
func PurgeDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		if err := docSvc.Purge(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
