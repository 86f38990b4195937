package article

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/topsearch/topsearch/internal/domain"
)

// Hash field names. published_ts is a derived unix timestamp backing the
// NUMERIC range index; it is never exposed to clients.
const (
	fieldTitle       = "title"
	fieldSummary     = "summary"
	fieldPublished   = "published"
	fieldPDFLink     = "pdf_link"
	fieldPublishedTS = "published_ts"
)

func articleKey(collection, id string) string {
	return "article:" + collection + ":" + id
}

func articlePrefix(collection string) string {
	return "article:" + collection + ":"
}

func indexName(collection string) string {
	return "idx:articles:" + collection
}

func extractID(key, collection string) string {
	return strings.TrimPrefix(key, articlePrefix(collection))
}

// buildHashFields converts a domain Article into a flat map for HSET,
// deriving the numeric publication timestamp.
func buildHashFields(a domain.Article) (map[string]string, error) {
	ts, err := domain.ParsePublished(a.Published)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		fieldTitle:       a.Title,
		fieldSummary:     a.Summary,
		fieldPublished:   a.Published,
		fieldPDFLink:     a.PDFLink,
		fieldPublishedTS: strconv.FormatInt(ts.Unix(), 10),
	}, nil
}

// parseHashFields converts a flat hash map back into a domain Article.
func parseHashFields(id string, m map[string]string) domain.Article {
	return domain.Article{
		ID:        id,
		Title:     m[fieldTitle],
		Summary:   m[fieldSummary],
		Published: m[fieldPublished],
		PDFLink:   m[fieldPDFLink],
	}
}

// rangeQuery translates an inclusive publication range into an FT.SEARCH
// numeric filter on published_ts.
func rangeQuery(pr domain.PublishedRange) string {
	if pr.IsEmpty() {
		return "*"
	}

	minBound := "-inf"
	maxBound := "+inf"
	if pr.HasFrom {
		minBound = strconv.FormatInt(pr.From.Unix(), 10)
	}
	if pr.HasTo {
		maxBound = strconv.FormatInt(pr.To.Unix(), 10)
	}

	return fmt.Sprintf("@%s:[%s %s]", fieldPublishedTS, minBound, maxBound)
}
