package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Post is a blog post.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	Author      string     `json:"author,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreatePost creates a new blog post
func (s *Store) CreatePost(ctx context.Context, post *Post) error {
	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.Published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	query := `INSERT INTO posts (id, slug, title, excerpt, body, author, published, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query, post.ID, post.Slug, post.Title, post.Excerpt,
		post.Body, post.Author, post.Published, post.PublishedAt, post.CreatedAt, post.UpdatedAt)
	return err
}

// GetPost retrieves a post by ID
func (s *Store) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.scanPost(s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, excerpt, body, author, published, published_at, created_at, updated_at
		FROM posts WHERE id = $1`, id))
}

// GetPostBySlug retrieves a published post by slug.
// Returns (nil, nil) when the slug is unknown or the post is unpublished.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.scanPost(s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, excerpt, body, author, published, published_at, created_at, updated_at
		FROM posts WHERE slug = $1 AND published = true`, slug))
}

func (s *Store) scanPost(row *sql.Row) (*Post, error) {
	post := &Post{}
	err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.Body,
		&post.Author, &post.Published, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return post, err
}

// PostExistsBySlug reports whether any post (published or not) has the slug.
func (s *Store) PostExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// ListPublishedPosts retrieves published posts newest-first for the blog listing.
func (s *Store) ListPublishedPosts(ctx context.Context, limit, offset int) ([]*Post, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE published = true`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, slug, title, excerpt, author, published, published_at, created_at, updated_at
		FROM posts WHERE published = true ORDER BY published_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.Author,
			&post.Published, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}

// ListPosts retrieves all posts for the admin dashboard, drafts included.
func (s *Store) ListPosts(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, title, excerpt, author, published, published_at, created_at, updated_at
		FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.Author,
			&post.Published, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// UpdatePost updates an existing post. Returns false if the post does not exist.
func (s *Store) UpdatePost(ctx context.Context, post *Post) (bool, error) {
	post.UpdatedAt = time.Now()
	if post.Published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	query := `UPDATE posts SET slug = $2, title = $3, excerpt = $4, body = $5, author = $6,
		published = $7, published_at = $8, updated_at = $9 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, post.ID, post.Slug, post.Title, post.Excerpt,
		post.Body, post.Author, post.Published, post.PublishedAt, post.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeletePost deletes a post by ID. Returns false if the post does not exist.
func (s *Store) DeletePost(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
