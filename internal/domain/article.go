package domain

import (
	"fmt"
	"strings"
	"time"
)

// Article is a single stored article record. Published is kept as the
// ISO-8601 string the scraper wrote; it is never reinterpreted after ingest.
type Article struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Published string `json:"published"`
	PDFLink   string `json:"pdf_link"`
}

// IndexText returns the text blob the similarity index is built from:
// title and summary joined by a space, trimmed. An empty result means the
// article carries no indexable text and is skipped at build time.
func (a Article) IndexText() string {
	return strings.TrimSpace(a.Title + " " + a.Summary)
}

// publishedLayouts are accepted publication date formats: RFC 3339, the
// timezone-less ISO form scrapers commonly emit, and a bare date.
var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParsePublished parses an article's publication date string.
func ParsePublished(s string) (time.Time, error) {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized published date %q", ErrInvalidArticle, s)
}
