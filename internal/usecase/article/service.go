package article

import (
	"context"
	"fmt"

	"github.com/topsearch/topsearch/internal/domain"
)

// Service handles article listing, retrieval, and ingest.
type Service struct {
	repo Repository
}

// New creates an article service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns articles filtered by publication year parameters. The
// filtered listing treats an empty result as domain.ErrNotFound, matching
// the articles endpoint contract.
func (s *Service) List(ctx context.Context, collectionName string, year, startYear, endYear *int) (
	[]domain.Article, error,
) {
	pr, err := domain.NewPublishedRange(year, startYear, endYear)
	if err != nil {
		return nil, err
	}

	articles, err := s.repo.List(ctx, collectionName, pr)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, domain.ErrNotFound
	}
	return articles, nil
}

// ListAll returns every article in a collection; an empty collection is an
// empty listing, not an error.
func (s *Service) ListAll(ctx context.Context, collectionName string) ([]domain.Article, error) {
	articles, err := s.repo.List(ctx, collectionName, domain.PublishedRange{})
	if err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	return articles, nil
}

// Get returns a single article by ID.
func (s *Service) Get(ctx context.Context, collectionName, id string) (domain.Article, error) {
	a, err := s.repo.Get(ctx, collectionName, id)
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return a, nil
}

// Put validates and stores an article. Returns true if created.
func (s *Service) Put(ctx context.Context, collectionName string, a domain.Article) (bool, error) {
	if a.ID == "" {
		return false, fmt.Errorf("%w: id is required", domain.ErrInvalidArticle)
	}
	if a.Title == "" && a.Summary == "" {
		return false, fmt.Errorf("%w: title or summary is required", domain.ErrInvalidArticle)
	}
	if _, err := domain.ParsePublished(a.Published); err != nil {
		return false, err
	}

	created, err := s.repo.Put(ctx, collectionName, a)
	if err != nil {
		return false, fmt.Errorf("put article %s: %w", a.ID, err)
	}
	return created, nil
}

// Delete removes an article by ID.
func (s *Service) Delete(ctx context.Context, collectionName, id string) error {
	if err := s.repo.Delete(ctx, collectionName, id); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

// DeleteCollection removes a collection wholesale: its articles, its search
// index, and its registry entry.
func (s *Service) DeleteCollection(ctx context.Context, collectionName string) error {
	if err := s.repo.DeleteCollection(ctx, collectionName); err != nil {
		return fmt.Errorf("delete collection %s: %w", collectionName, err)
	}
	return nil
}

// Collections returns every known collection name.
func (s *Service) Collections(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}
