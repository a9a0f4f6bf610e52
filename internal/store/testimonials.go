package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Testimonial is a client quote shown on marketing pages.
type Testimonial struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Company   string    `json:"company,omitempty"`
	Quote     string    `json:"quote"`
	Rating    int       `json:"rating,omitempty"`
	SortOrder int       `json:"sort_order"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTestimonial creates a new testimonial
func (s *Store) CreateTestimonial(ctx context.Context, tm *Testimonial) error {
	tm.ID = uuid.New()
	tm.CreatedAt = time.Now()
	tm.UpdatedAt = time.Now()

	query := `INSERT INTO testimonials (id, author, company, quote, rating, sort_order, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query, tm.ID, tm.Author, tm.Company, tm.Quote,
		tm.Rating, tm.SortOrder, tm.Published, tm.CreatedAt, tm.UpdatedAt)
	return err
}

// GetTestimonial retrieves a testimonial by ID
func (s *Store) GetTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	tm := &Testimonial{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, author, company, quote, rating, sort_order, published, created_at, updated_at
		FROM testimonials WHERE id = $1`, id).Scan(
		&tm.ID, &tm.Author, &tm.Company, &tm.Quote, &tm.Rating, &tm.SortOrder,
		&tm.Published, &tm.CreatedAt, &tm.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return tm, err
}

// ListTestimonials retrieves testimonials in display order. When
// publishedOnly is set, drafts are excluded (public endpoint).
func (s *Store) ListTestimonials(ctx context.Context, publishedOnly bool) ([]*Testimonial, error) {
	query := `SELECT id, author, company, quote, rating, sort_order, published, created_at, updated_at
		FROM testimonials`
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY sort_order, created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var testimonials []*Testimonial
	for rows.Next() {
		tm := &Testimonial{}
		err := rows.Scan(&tm.ID, &tm.Author, &tm.Company, &tm.Quote, &tm.Rating,
			&tm.SortOrder, &tm.Published, &tm.CreatedAt, &tm.UpdatedAt)
		if err != nil {
			return nil, err
		}
		testimonials = append(testimonials, tm)
	}
	return testimonials, rows.Err()
}

// UpdateTestimonial updates an existing testimonial. Returns false if it does not exist.
func (s *Store) UpdateTestimonial(ctx context.Context, tm *Testimonial) (bool, error) {
	tm.UpdatedAt = time.Now()

	query := `UPDATE testimonials SET author = $2, company = $3, quote = $4, rating = $5,
		sort_order = $6, published = $7, updated_at = $8 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, tm.ID, tm.Author, tm.Company, tm.Quote,
		tm.Rating, tm.SortOrder, tm.Published, tm.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteTestimonial deletes a testimonial by ID. Returns false if it does not exist.
func (s *Store) DeleteTestimonial(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
