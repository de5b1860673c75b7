package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"edms/internal/model"
	"edms/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Attachment name/URL lists are persisted as two parallel JSONB arrays, matching
// the row shape of the original document table.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, department, owner_email, tags, description,
		access_level, file_names, file_urls, is_deleted, created_at, edited_at`

// Insert stores a new document row and returns the stored record.
func (r *DocumentPostgres) Insert(ctx context.Context, doc *model.Document) (*model.Document, error) {
	names, urls, err := marshalAttachments(doc.Attachments)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO edms_documents
			(id, title, department, owner_email, tags, description, access_level, file_names, file_urls, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Department,
		doc.OwnerEmail,
		doc.Tags,
		doc.Description,
		string(doc.AccessLevel),
		names,
		urls,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID. Soft-deleted rows are returned
// too; classifying them is the caller's concern.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM edms_documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns active documents matching the filter, newest first.
// The visibility clause mirrors the policy evaluator's read grant: public to
// anyone, team to the document's department or its owner, private to the
// owner. Empty requester values match only the public branch.
func (r *DocumentPostgres) List(ctx context.Context, f repository.ListFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where := `is_deleted = FALSE`
	args := []any{}
	if !f.All {
		where += ` AND (
			access_level = 'public'
			OR (access_level = 'team' AND ((department = $1 AND $1 <> '') OR (owner_email = $2 AND $2 <> '')))
			OR (access_level = 'private' AND owner_email = $2 AND $2 <> '')
		)`
		args = append(args, f.RequesterDepartment, f.RequesterEmail)
	}

	var total int
	qCount := `SELECT COUNT(*) FROM edms_documents WHERE ` + where
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + documentColumns + ` FROM edms_documents WHERE ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pq.Limit, pq.Offset)

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// UpdateMetadata applies a full metadata replacement guarded by identifier,
// active state, and (unless admin) ownership, in one conditional statement.
func (r *DocumentPostgres) UpdateMetadata(ctx context.Context, id string, upd repository.MetadataUpdate, g repository.Guard) (int64, error) {
	var level sql.NullString
	if upd.AccessLevel != nil {
		level = sql.NullString{String: string(*upd.AccessLevel), Valid: true}
	}

	const q = `
		UPDATE edms_documents
		SET title = $1,
		    department = $2,
		    tags = $3,
		    description = $4,
		    access_level = COALESCE($5, access_level),
		    edited_at = now()
		WHERE id = $6
		  AND is_deleted = FALSE
		  AND ($7 = '' OR owner_email = $7)
	`
	res, err := r.db.ExecContext(ctx, q,
		upd.Title, upd.Department, upd.Tags, upd.Description, level, id, g.OwnerEmail)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateAttachments replaces both attachment arrays under the same guard as
// UpdateMetadata. The edited timestamp is deliberately left untouched.
func (r *DocumentPostgres) UpdateAttachments(ctx context.Context, id string, atts []model.Attachment, g repository.Guard) (int64, error) {
	names, urls, err := marshalAttachments(atts)
	if err != nil {
		return 0, err
	}

	const q = `
		UPDATE edms_documents
		SET file_names = $1, file_urls = $2
		WHERE id = $3
		  AND is_deleted = FALSE
		  AND ($4 = '' OR owner_email = $4)
	`
	res, err := r.db.ExecContext(ctx, q, names, urls, id, g.OwnerEmail)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete flips the deletion flag; only active rows match.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, id string, g repository.Guard) (int64, error) {
	const q = `
		UPDATE edms_documents
		SET is_deleted = TRUE
		WHERE id = $1
		  AND is_deleted = FALSE
		  AND ($2 = '' OR owner_email = $2)
	`
	res, err := r.db.ExecContext(ctx, q, id, g.OwnerEmail)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Purge removes the row permanently; only soft-deleted rows match.
func (r *DocumentPostgres) Purge(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM edms_documents WHERE id = $1 AND is_deleted = TRUE`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d        model.Document
		level    string
		names    []byte
		urls     []byte
		editedAt sql.NullTime
	)
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Department,
		&d.OwnerEmail,
		&d.Tags,
		&d.Description,
		&level,
		&names,
		&urls,
		&d.IsDeleted,
		&d.CreatedAt,
		&editedAt,
	); err != nil {
		return nil, err
	}
	d.AccessLevel = model.AccessLevel(level)
	if editedAt.Valid {
		t := editedAt.Time
		d.EditedAt = &t
	}

	atts, err := unmarshalAttachments(names, urls)
	if err != nil {
		return nil, err
	}
	d.Attachments = atts
	return &d, nil
}

func marshalAttachments(atts []model.Attachment) ([]byte, []byte, error) {
	names := make([]string, len(atts))
	urls := make([]string, len(atts))
	for i, a := range atts {
		names[i] = a.Name
		urls[i] = a.URL
	}
	nb, err := json.Marshal(names)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal file names: %w", err)
	}
	ub, err := json.Marshal(urls)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal file urls: %w", err)
	}
	return nb, ub, nil
}

func unmarshalAttachments(namesRaw, urlsRaw []byte) ([]model.Attachment, error) {
	var names, urls []string
	if len(namesRaw) > 0 {
		if err := json.Unmarshal(namesRaw, &names); err != nil {
			return nil, fmt.Errorf("unmarshal file names: %w", err)
		}
	}
	if len(urlsRaw) > 0 {
		if err := json.Unmarshal(urlsRaw, &urls); err != nil {
			return nil, fmt.Errorf("unmarshal file urls: %w", err)
		}
	}

	atts := make([]model.Attachment, 0, len(urls))
	for i, u := range urls {
		a := model.Attachment{URL: u}
		if i < len(names) {
			a.Name = names[i]
		}
		atts = append(atts, a)
	}
	return atts, nil
}
