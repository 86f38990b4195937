package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/topsearch/topsearch/internal/logger"
)

// Warm primes the index cache for every known collection, building all
// indexes concurrently. Failures are logged and swallowed per collection:
// warm-up is best-effort cache priming, and Search still builds lazily for
// anything it missed.
func (s *Service) Warm(ctx context.Context) {
	log := logger.FromContext(ctx)

	names, err := s.source.ListCollections(ctx)
	if err != nil {
		log.Warn("warm-up: list collections", zap.Error(err))
		return
	}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if _, err := s.cache.GetOrBuild(ctx, name, s.buildFor(name)); err != nil {
				log.Warn("warm-up: build index",
					zap.String("collection", name), zap.Error(err))
			}
		}(name)
	}
	wg.Wait()

	log.Info("warm-up complete",
		zap.Int("collections", len(names)),
		zap.Int("indexes", s.cache.Len()),
	)
}
