package article

import (
	"context"

	"github.com/topsearch/topsearch/internal/domain"
)

// Repository defines the storage contract for articles.
type Repository interface {
	Put(ctx context.Context, collectionName string, a domain.Article) (bool, error)
	Get(ctx context.Context, collectionName, id string) (domain.Article, error)
	Delete(ctx context.Context, collectionName, id string) error
	DeleteCollection(ctx context.Context, collectionName string) error
	List(ctx context.Context, collectionName string, pr domain.PublishedRange) ([]domain.Article, error)
	ListCollections(ctx context.Context) ([]string, error)
}
