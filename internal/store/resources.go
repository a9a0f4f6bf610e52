package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Resource is a gated downloadable asset (whitepaper, guide, checklist).
// FileKey is the object key in the resource bucket; the file itself is
// never served directly, only via short-lived presigned URLs granted
// after lead capture.
type Resource struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileKey     string    `json:"file_key,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateResource creates a new resource
func (s *Store) CreateResource(ctx context.Context, res *Resource) error {
	res.ID = uuid.New()
	res.CreatedAt = time.Now()
	res.UpdatedAt = time.Now()

	query := `INSERT INTO resources (id, slug, title, description, file_key, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query, res.ID, res.Slug, res.Title, res.Description,
		res.FileKey, res.Published, res.CreatedAt, res.UpdatedAt)
	return err
}

// GetResource retrieves a resource by ID
func (s *Store) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	return s.scanResource(s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, description, file_key, published, created_at, updated_at
		FROM resources WHERE id = $1`, id))
}

// GetResourceBySlug retrieves a published resource by slug.
// Returns (nil, nil) when the slug is unknown or the resource is unpublished.
func (s *Store) GetResourceBySlug(ctx context.Context, slug string) (*Resource, error) {
	return s.scanResource(s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, description, file_key, published, created_at, updated_at
		FROM resources WHERE slug = $1 AND published = true`, slug))
}

func (s *Store) scanResource(row *sql.Row) (*Resource, error) {
	res := &Resource{}
	err := row.Scan(&res.ID, &res.Slug, &res.Title, &res.Description, &res.FileKey,
		&res.Published, &res.CreatedAt, &res.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return res, err
}

// ListResources retrieves resources. When publishedOnly is set, drafts are
// excluded and file keys are not meaningful to the caller (public listing).
func (s *Store) ListResources(ctx context.Context, publishedOnly bool) ([]*Resource, error) {
	query := `SELECT id, slug, title, description, file_key, published, created_at, updated_at
		FROM resources`
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY title`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []*Resource
	for rows.Next() {
		res := &Resource{}
		err := rows.Scan(&res.ID, &res.Slug, &res.Title, &res.Description, &res.FileKey,
			&res.Published, &res.CreatedAt, &res.UpdatedAt)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

// UpdateResource updates an existing resource. Returns false if it does not exist.
func (s *Store) UpdateResource(ctx context.Context, res *Resource) (bool, error) {
	res.UpdatedAt = time.Now()

	query := `UPDATE resources SET slug = $2, title = $3, description = $4, file_key = $5,
		published = $6, updated_at = $7 WHERE id = $1`

	r, err := s.db.ExecContext(ctx, query, res.ID, res.Slug, res.Title, res.Description,
		res.FileKey, res.Published, res.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := r.RowsAffected()
	return n > 0, err
}

// SetResourceFileKey records the uploaded object key for a resource.
func (s *Store) SetResourceFileKey(ctx context.Context, id uuid.UUID, fileKey string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resources SET file_key = $2, updated_at = $3 WHERE id = $1`,
		id, fileKey, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteResource deletes a resource by ID. Returns false if it does not exist.
func (s *Store) DeleteResource(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
