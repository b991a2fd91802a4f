package product

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/simp-lee/catalog/internal/cache"
	"github.com/simp-lee/catalog/internal/domain"
)

// --- mock repository ---

type mockProductRepo struct {
	products []domain.Product
	err      error
	calls    atomic.Int32
	gate     chan struct{}
}

func (m *mockProductRepo) List(_ context.Context) ([]domain.Product, error) {
	m.calls.Add(1)
	if m.gate != nil {
		<-m.gate
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{BaseModel: domain.BaseModel{ID: 1}, Name: "Widget", Price: 100, UserID: 1,
			User: domain.User{BaseModel: domain.BaseModel{ID: 1}, Name: "Alice"}},
		{BaseModel: domain.BaseModel{ID: 2}, Name: "Gadget", Price: 250, UserID: 2,
			User: domain.User{BaseModel: domain.BaseModel{ID: 2}, Name: "Bob"}},
	}
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, CacheNamespace, time.Minute), mr
}

func TestListProducts_NoCache(t *testing.T) {
	repo := &mockProductRepo{products: sampleProducts()}
	svc := NewProductService(repo, nil)

	for i := 0; i < 2; i++ {
		got, err := svc.ListProducts(context.Background())
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
		if len(got) != 2 || got[0].User.Name != "Alice" {
			t.Fatalf("unexpected products %+v", got)
		}
	}
	if n := repo.calls.Load(); n != 2 {
		t.Errorf("expected 2 repository calls without cache, got %d", n)
	}
	if err := svc.Invalidate(context.Background()); err != nil {
		t.Errorf("Invalidate without cache: %v", err)
	}
}

func TestListProducts_ServedFromCache(t *testing.T) {
	c, _ := newTestCache(t)
	repo := &mockProductRepo{products: sampleProducts()}
	svc := NewProductService(repo, c)

	for i := 0; i < 3; i++ {
		got, err := svc.ListProducts(context.Background())
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
		if len(got) != 2 || got[1].Name != "Gadget" || got[1].User.Name != "Bob" {
			t.Fatalf("unexpected products %+v", got)
		}
	}
	if n := repo.calls.Load(); n != 1 {
		t.Errorf("expected 1 repository call, got %d", n)
	}
}

func TestInvalidate_ReloadsFromStore(t *testing.T) {
	c, _ := newTestCache(t)
	repo := &mockProductRepo{products: sampleProducts()}
	svc := NewProductService(repo, c)
	ctx := context.Background()

	if _, err := svc.ListProducts(ctx); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	repo.products = repo.products[:1]
	if err := svc.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	got, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected reloaded collection of 1, got %d", len(got))
	}
	if n := repo.calls.Load(); n != 2 {
		t.Errorf("expected 2 repository calls, got %d", n)
	}
}

func TestListProducts_RepositoryErrorNotCached(t *testing.T) {
	c, _ := newTestCache(t)
	repoErr := domain.NewAppError(domain.CodeInternal, "database error", errors.New("disk I/O"))
	repo := &mockProductRepo{err: repoErr}
	svc := NewProductService(repo, c)

	if _, err := svc.ListProducts(context.Background()); !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}

	repo.err = nil
	repo.products = sampleProducts()
	got, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts after recovery: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 products, got %d", len(got))
	}
}

func TestListProducts_CacheDownFallsBackToStore(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	repo := &mockProductRepo{products: sampleProducts()}
	svc := NewProductService(repo, c)

	got, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 products, got %d", len(got))
	}
	if err := svc.Invalidate(context.Background()); !domain.IsInternal(err) {
		t.Errorf("expected internal error from Invalidate, got %v", err)
	}
}

func TestListProducts_ConcurrentCallsShareOneLoad(t *testing.T) {
	repo := &mockProductRepo{products: sampleProducts(), gate: make(chan struct{})}
	svc := NewProductService(repo, nil)

	const callers = 8
	var started, wg sync.WaitGroup
	started.Add(callers)
	wg.Add(callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			started.Done()
			_, err := svc.ListProducts(context.Background())
			errs <- err
		}()
	}
	started.Wait()
	// Let every caller reach the shared call before releasing the load.
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
	}
	if n := repo.calls.Load(); n != 1 {
		t.Errorf("expected 1 shared repository call, got %d", n)
	}
}

func TestListProducts_CallerCancellation(t *testing.T) {
	repo := &mockProductRepo{products: sampleProducts(), gate: make(chan struct{})}
	defer close(repo.gate)
	svc := NewProductService(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.ListProducts(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestListProducts_ResultsDoNotAlias(t *testing.T) {
	svc := NewProductService(&mockProductRepo{products: sampleProducts()}, nil)

	first, _ := svc.ListProducts(context.Background())
	first[0].Name = "Changed"
	second, _ := svc.ListProducts(context.Background())
	if second[0].Name != "Widget" {
		t.Errorf("second result affected by mutation of the first: %q", second[0].Name)
	}
}
