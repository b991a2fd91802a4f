package product

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/simp-lee/catalog/internal/cache"
	"github.com/simp-lee/catalog/internal/domain"
)

// CacheNamespace prefixes every cache key of the product collection. Pass it
// to cache.New when building the cache given to NewProductService.
const CacheNamespace = "catalog:products"

// productService implements domain.ProductService. Concurrent loads of the
// collection share one repository call, and results go through the
// versioned cache when one is configured.
type productService struct {
	repo  domain.ProductRepository
	cache *cache.Cache
	group singleflight.Group
}

// NewProductService creates a new ProductService. A nil cache disables caching.
func NewProductService(repo domain.ProductRepository, c *cache.Cache) domain.ProductService {
	if c == nil {
		c = cache.New(nil, CacheNamespace, 0)
	}
	return &productService{repo: repo, cache: c}
}

// ListProducts returns the whole collection in id order.
func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	key, err := s.cache.Key(ctx, "all")
	if err != nil {
		slog.WarnContext(ctx, "product cache unavailable", "error", err)
		return s.repo.List(ctx)
	}

	// The shared call must outlive any single caller; each caller still
	// stops waiting when its own ctx is done.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return s.fetch(shared, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		products := res.Val.([]domain.Product)
		// Callers sharing a result must not alias each other's slice.
		return append([]domain.Product(nil), products...), nil
	}
}

func (s *productService) fetch(ctx context.Context, key string) ([]domain.Product, error) {
	var loadErr error
	products := []domain.Product{}
	err := s.cache.FetchJSON(ctx, key, &products, func(ctx context.Context) (any, error) {
		list, err := s.repo.List(ctx)
		loadErr = err
		return list, err
	})
	switch {
	case err == nil:
		return products, nil
	case loadErr != nil:
		return nil, loadErr
	default:
		slog.WarnContext(ctx, "product cache read failed, loading from store", "key", key, "error", err)
		return s.repo.List(ctx)
	}
}

// Invalidate bumps the cache version so the next load reads the store.
func (s *productService) Invalidate(ctx context.Context) error {
	if err := s.cache.Bump(ctx); err != nil {
		return domain.NewAppError(domain.CodeInternal, "invalidate product cache", err)
	}
	return nil
}
