package search

import (
	"context"

	"github.com/topsearch/topsearch/internal/domain"
)

// ArticleSource fetches collection contents for index builds.
type ArticleSource interface {
	List(ctx context.Context, collectionName string, pr domain.PublishedRange) ([]domain.Article, error)
	ListCollections(ctx context.Context) ([]string, error)
}
