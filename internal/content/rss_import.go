package content

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/optiflow/site-backend/internal/pkg/logger"
	"github.com/optiflow/site-backend/internal/store"
)

// PostStore is the subset of the store the importer needs.
type PostStore interface {
	CreatePost(ctx context.Context, post *store.Post) error
	PostExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// RSSImporter pulls posts from an existing blog feed into the CMS.
// Imported posts arrive as unpublished drafts so an admin reviews each
// one before it goes live. Re-importing the same feed is idempotent:
// items whose slug already exists are skipped.
type RSSImporter struct {
	parser *gofeed.Parser
	posts  PostStore
}

// ImportResult summarizes one import run.
type ImportResult struct {
	FeedTitle string `json:"feed_title"`
	Imported  int    `json:"imported"`
	Skipped   int    `json:"skipped"`
}

// NewRSSImporter creates an importer.
func NewRSSImporter(posts PostStore) *RSSImporter {
	return &RSSImporter{parser: gofeed.NewParser(), posts: posts}
}

// ImportFeed fetches and parses the feed, creating a draft post per new item.
func (imp *RSSImporter) ImportFeed(ctx context.Context, feedURL string) (*ImportResult, error) {
	feed, err := imp.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	result := &ImportResult{FeedTitle: feed.Title}
	for _, item := range feed.Items {
		slug := Slugify(item.Title)
		if slug == "" {
			result.Skipped++
			continue
		}

		exists, err := imp.posts.PostExistsBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("check slug %q: %w", slug, err)
		}
		if exists {
			result.Skipped++
			continue
		}

		body := item.Content
		if body == "" {
			body = item.Description
		}

		post := &store.Post{
			Slug:        slug,
			Title:       item.Title,
			Excerpt:     excerpt(item.Description),
			Body:        body,
			Author:      itemAuthor(item),
			Published:   false,
			PublishedAt: item.PublishedParsed,
		}
		if err := imp.posts.CreatePost(ctx, post); err != nil {
			return nil, fmt.Errorf("create post %q: %w", slug, err)
		}
		result.Imported++
	}

	logger.Info("rss import finished", "feed", feedURL,
		"imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title: lowercase, alphanumeric runs
// joined by single hyphens.
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func itemAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return item.Authors[0].Name
	}
	return ""
}

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// excerpt strips markup and truncates the description for listing cards.
func excerpt(description string) string {
	text := strings.TrimSpace(tagRegex.ReplaceAllString(description, ""))
	if len(text) <= 280 {
		return text
	}
	cut := strings.LastIndex(text[:280], " ")
	if cut <= 0 {
		cut = 280
	}
	return text[:cut] + "…"
}
