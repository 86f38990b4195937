package article

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/topsearch/topsearch/internal/db"
	"github.com/topsearch/topsearch/internal/domain"
)

// registryKey is the set holding every known collection name.
const registryKey = "collections"

// store is the consumer interface for articles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SRem(ctx context.Context, key string, members ...string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements article storage over Redis hashes with a per-collection
// FT index for publication-date range queries.
type Repo struct {
	store store
}

// New creates an article repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put creates or updates an article. The first write to a collection creates
// its FT index and registers the collection name. Returns true if created.
func (r *Repo) Put(ctx context.Context, collectionName string, a domain.Article) (bool, error) {
	fields, err := buildHashFields(a)
	if err != nil {
		return false, err
	}

	if err := r.ensureIndex(ctx, collectionName); err != nil {
		return false, err
	}

	key := articleKey(collectionName, a.ID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: check exists %s: %w", domain.ErrDataSource, key, err)
	}

	if err := r.store.HSet(ctx, key, fields); err != nil {
		return false, fmt.Errorf("%w: hset %s: %w", domain.ErrDataSource, key, err)
	}

	if err := r.store.SAdd(ctx, registryKey, collectionName); err != nil {
		return false, fmt.Errorf("%w: register collection %s: %w", domain.ErrDataSource, collectionName, err)
	}

	return !exists, nil
}

// Get returns an article by ID.
func (r *Repo) Get(ctx context.Context, collectionName, id string) (domain.Article, error) {
	key := articleKey(collectionName, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Article{}, domain.ErrNotFound
		}
		return domain.Article{}, fmt.Errorf("%w: hgetall %s: %w", domain.ErrDataSource, key, err)
	}
	return parseHashFields(id, m), nil
}

// Delete removes an article by ID. A missing article is domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, collectionName, id string) error {
	key := articleKey(collectionName, id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: check exists %s: %w", domain.ErrDataSource, key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("%w: del %s: %w", domain.ErrDataSource, key, err)
	}
	return nil
}

// List returns a collection's articles whose publication date falls inside
// the inclusive range, sorted by publication date then ID. An empty range
// returns the whole collection. A collection with no index (never written
// to) is simply empty.
func (r *Repo) List(ctx context.Context, collectionName string, pr domain.PublishedRange) (
	[]domain.Article, error,
) {
	idxName := indexName(collectionName)
	query := rangeQuery(pr)

	total, err := r.store.SearchCount(ctx, idxName, query)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: search count %s: %w", domain.ErrDataSource, collectionName, err)
	}
	if total == 0 {
		return nil, nil
	}

	result, err := r.store.SearchList(ctx, idxName, query, 0, total, nil)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: search list %s: %w", domain.ErrDataSource, collectionName, err)
	}

	articles := make([]domain.Article, 0, len(result.Entries))
	for _, entry := range result.Entries {
		id := extractID(entry.Key, collectionName)
		articles = append(articles, parseHashFields(id, entry.Fields))
	}

	// FT.SEARCH result order is unspecified without SORTBY; ISO-8601 strings
	// sort chronologically, so order client-side for a stable listing.
	sort.Slice(articles, func(i, j int) bool {
		if articles[i].Published != articles[j].Published {
			return articles[i].Published < articles[j].Published
		}
		return articles[i].ID < articles[j].ID
	})

	return articles, nil
}

// DeleteCollection removes a whole collection: every article hash, the FT
// index, and the registry entry. An unknown collection is domain.ErrNotFound.
func (r *Repo) DeleteCollection(ctx context.Context, collectionName string) error {
	idxName := indexName(collectionName)

	exists, err := r.store.IndexExists(ctx, idxName)
	if err != nil {
		return fmt.Errorf("%w: index info %s: %w", domain.ErrDataSource, collectionName, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	total, err := r.store.SearchCount(ctx, idxName, "*")
	if err != nil {
		return fmt.Errorf("%w: search count %s: %w", domain.ErrDataSource, collectionName, err)
	}
	if total > 0 {
		result, err := r.store.SearchList(ctx, idxName, "*", 0, total, nil)
		if err != nil {
			return fmt.Errorf("%w: search list %s: %w", domain.ErrDataSource, collectionName, err)
		}
		for _, entry := range result.Entries {
			if err := r.store.Del(ctx, entry.Key); err != nil {
				return fmt.Errorf("%w: del %s: %w", domain.ErrDataSource, entry.Key, err)
			}
		}
	}

	if err := r.store.DropIndex(ctx, idxName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("%w: drop index %s: %w", domain.ErrDataSource, collectionName, err)
	}

	if err := r.store.SRem(ctx, registryKey, collectionName); err != nil {
		return fmt.Errorf("%w: unregister collection %s: %w", domain.ErrDataSource, collectionName, err)
	}
	return nil
}

// ListCollections returns every known collection name.
func (r *Repo) ListCollections(ctx context.Context) ([]string, error) {
	names, err := r.store.SMembers(ctx, registryKey)
	if err != nil {
		return nil, fmt.Errorf("%w: list collections: %w", domain.ErrDataSource, err)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Repo) ensureIndex(ctx context.Context, collectionName string) error {
	def := db.NewIndex(indexName(collectionName)).
		Prefix(articlePrefix(collectionName)).
		Numeric(fieldPublishedTS).
		Build()

	err := r.store.CreateIndex(ctx, def)
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("%w: create index %s: %w", domain.ErrDataSource, collectionName, err)
	}
	return nil
}
