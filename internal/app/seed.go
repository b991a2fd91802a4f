package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/simp-lee/catalog/internal/config"
	"github.com/simp-lee/catalog/internal/module/product"
	"github.com/simp-lee/catalog/internal/seed"
)

// Seed migrates the store described by cfg and loads owners into it. The
// product cache, when enabled, is invalidated after the commit so running
// servers pick up the new collection.
func Seed(ctx context.Context, cfg *config.Config, owners []seed.Owner, reset bool) (seed.Result, error) {
	if cfg == nil {
		return seed.Result{}, errors.New("config is nil")
	}

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return seed.Result{}, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return seed.Result{}, fmt.Errorf("setup database: %w", err)
	}
	defer closeDB(db, log.Logger)

	if err := Migrate(db); err != nil {
		return seed.Result{}, err
	}

	productCache, err := setupCache(ctx, cfg.Server.Cache, log.Logger)
	if err != nil {
		return seed.Result{}, fmt.Errorf("setup cache: %w", err)
	}
	defer productCache.Close()

	products := product.NewProductService(product.NewProductRepository(db), productCache)
	return seed.New(db, products).Run(ctx, owners, reset)
}
