package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/topsearch/topsearch/internal/domain"
	"github.com/topsearch/topsearch/internal/index"
	"github.com/topsearch/topsearch/internal/logger"
	"github.com/topsearch/topsearch/internal/metrics"
)

// Service answers similarity searches from a process-wide cache of
// per-collection TF-IDF indexes, building each index lazily on first use.
type Service struct {
	source       ArticleSource
	cache        *index.Cache
	buildTimeout time.Duration
}

// New creates a search service around an injectable bundle cache.
func New(source ArticleSource, cache *index.Cache) *Service {
	return &Service{source: source, cache: cache}
}

// WithBuildTimeout bounds the fetch+fit step of each index build.
// Zero disables the bound.
func (s *Service) WithBuildTimeout(d time.Duration) *Service {
	s.buildTimeout = d
	return s
}

// Search returns the articles nearest to the query text, nearest first,
// at most min(5, corpus size) of them. The collection's index is built and
// cached on first use; a collection with no usable corpus yields
// domain.ErrIndexUnavailable and nothing is cached, so a later call retries.
func (s *Service) Search(ctx context.Context, collectionName, query string) ([]domain.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must be a non-blank string", domain.ErrInvalidQuery)
	}

	bundle, err := s.cache.GetOrBuild(ctx, collectionName, s.buildFor(collectionName))
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(collectionName, "error").Inc()
		return nil, err
	}
	if bundle == nil {
		metrics.SearchesTotal.WithLabelValues(collectionName, "error").Inc()
		return nil, fmt.Errorf("%w: collection %q has no indexable articles",
			domain.ErrIndexUnavailable, collectionName)
	}

	results := bundle.Nearest(query)
	metrics.SearchesTotal.WithLabelValues(collectionName, "ok").Inc()
	return results, nil
}

// buildFor returns the build function the cache runs on a miss: fetch the
// whole collection, then fit the bundle.
func (s *Service) buildFor(collectionName string) index.BuildFunc {
	return func(ctx context.Context) (*index.Bundle, error) {
		if s.buildTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.buildTimeout)
			defer cancel()
		}

		articles, err := s.source.List(ctx, collectionName, domain.PublishedRange{})
		if err != nil {
			metrics.IndexBuildsTotal.WithLabelValues(collectionName, "error").Inc()
			return nil, fmt.Errorf("fetch collection %s: %w", collectionName, err)
		}

		start := time.Now()
		bundle, err := index.Build(articles)
		metrics.IndexBuildDuration.WithLabelValues(collectionName).Observe(time.Since(start).Seconds())

		log := logger.FromContext(ctx)
		switch {
		case err != nil:
			metrics.IndexBuildsTotal.WithLabelValues(collectionName, "error").Inc()
			return nil, fmt.Errorf("build index %s: %w", collectionName, err)
		case bundle == nil:
			metrics.IndexBuildsTotal.WithLabelValues(collectionName, "empty").Inc()
			log.Info("no indexable articles, skipping index",
				zap.String("collection", collectionName))
		default:
			metrics.IndexBuildsTotal.WithLabelValues(collectionName, "ok").Inc()
			log.Info("similarity index built",
				zap.String("collection", collectionName),
				zap.Int("articles", len(bundle.Articles)),
				zap.Int("vocabulary", bundle.Vectorizer.VocabularySize()),
				zap.Duration("took", time.Since(start)),
			)
		}
		return bundle, nil
	}
}
