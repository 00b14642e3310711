package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-leadgen/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const attributionCacheKeyPrefix = "go-leadgen::attribution::v1"

var errAttributionCacheMiss = errors.New("sqlstore: attribution entity not found")

// CachedAttributionStore fronts attribution reads with a cache. Attribution
// entities are immutable once created, so hits never need invalidation;
// absent entities are never cached so a create becomes visible immediately.
type CachedAttributionStore struct {
	base  core.AttributionStore
	cache repositorycache.CacheService
}

func NewCachedAttributionStore(
	base core.AttributionStore,
	cacheService repositorycache.CacheService,
) (*CachedAttributionStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base attribution store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: attribution cache service is required")
	}
	return &CachedAttributionStore{base: base, cache: cacheService}, nil
}

// AttributionCacheKey returns the deterministic cache key contract for
// attribution reads: go-leadgen::attribution::v1::<kind>::<external_id> with
// each segment URL-path escaped.
func AttributionCacheKey(kind core.AttributionKind, externalID string) (string, error) {
	externalID = strings.TrimSpace(externalID)
	if !kind.IsValid() {
		return "", fmt.Errorf("sqlstore: invalid attribution kind %q", kind)
	}
	if externalID == "" {
		return "", fmt.Errorf("sqlstore: attribution external id is required")
	}
	segments := []string{
		url.PathEscape(string(kind)),
		url.PathEscape(externalID),
	}
	return strings.Join(append([]string{attributionCacheKeyPrefix}, segments...), "::"), nil
}

func (s *CachedAttributionStore) FindByExternalID(
	ctx context.Context,
	kind core.AttributionKind,
	externalID string,
) (core.AttributionRef, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.AttributionRef{}, false, fmt.Errorf("sqlstore: cached attribution store is not configured")
	}
	cacheKey, err := AttributionCacheKey(kind, strings.TrimSpace(externalID))
	if err != nil {
		return core.AttributionRef{}, false, err
	}

	ref, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.AttributionRef, error) {
		fetched, found, fetchErr := s.base.FindByExternalID(ctx, kind, externalID)
		if fetchErr != nil {
			return core.AttributionRef{}, fetchErr
		}
		if !found {
			return core.AttributionRef{}, errAttributionCacheMiss
		}
		return fetched, nil
	})
	if err != nil {
		if errors.Is(err, errAttributionCacheMiss) {
			return core.AttributionRef{}, false, nil
		}
		return core.AttributionRef{}, false, err
	}
	return ref, true, nil
}

func (s *CachedAttributionStore) Create(
	ctx context.Context,
	kind core.AttributionKind,
	externalID string,
	name string,
) (core.AttributionRef, error) {
	if s == nil || s.base == nil {
		return core.AttributionRef{}, fmt.Errorf("sqlstore: cached attribution store is not configured")
	}
	return s.base.Create(ctx, kind, externalID, name)
}

var _ core.AttributionStore = (*CachedAttributionStore)(nil)
