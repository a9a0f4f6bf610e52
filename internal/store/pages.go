package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Page is a CMS-managed marketing page.
type Page struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Published       bool      `json:"published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreatePage creates a new page
func (s *Store) CreatePage(ctx context.Context, page *Page) error {
	page.ID = uuid.New()
	page.CreatedAt = time.Now()
	page.UpdatedAt = time.Now()

	query := `INSERT INTO pages (id, slug, title, body, meta_description, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query, page.ID, page.Slug, page.Title, page.Body,
		page.MetaDescription, page.Published, page.CreatedAt, page.UpdatedAt)
	return err
}

// GetPage retrieves a page by ID
func (s *Store) GetPage(ctx context.Context, id uuid.UUID) (*Page, error) {
	return s.scanPage(s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, body, meta_description, published, created_at, updated_at
		FROM pages WHERE id = $1`, id))
}

// GetPageBySlug retrieves a published page by slug.
// Returns (nil, nil) when the slug is unknown or the page is unpublished.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	return s.scanPage(s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, body, meta_description, published, created_at, updated_at
		FROM pages WHERE slug = $1 AND published = true`, slug))
}

func (s *Store) scanPage(row *sql.Row) (*Page, error) {
	page := &Page{}
	err := row.Scan(&page.ID, &page.Slug, &page.Title, &page.Body, &page.MetaDescription,
		&page.Published, &page.CreatedAt, &page.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return page, err
}

// ListPages retrieves all pages, including unpublished drafts (admin view).
func (s *Store) ListPages(ctx context.Context) ([]*Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, title, meta_description, published, created_at, updated_at
		FROM pages ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		page := &Page{}
		err := rows.Scan(&page.ID, &page.Slug, &page.Title, &page.MetaDescription,
			&page.Published, &page.CreatedAt, &page.UpdatedAt)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// UpdatePage updates an existing page. Returns false if the page does not exist.
func (s *Store) UpdatePage(ctx context.Context, page *Page) (bool, error) {
	page.UpdatedAt = time.Now()

	query := `UPDATE pages SET slug = $2, title = $3, body = $4, meta_description = $5,
		published = $6, updated_at = $7 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, page.ID, page.Slug, page.Title, page.Body,
		page.MetaDescription, page.Published, page.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeletePage deletes a page by ID. Returns false if the page does not exist.
func (s *Store) DeletePage(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
