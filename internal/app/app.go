package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/catalog/internal/cache"
	"github.com/simp-lee/catalog/internal/config"
	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/middleware"
	"github.com/simp-lee/catalog/internal/module/product"
	"github.com/simp-lee/catalog/internal/module/user"
	"github.com/simp-lee/catalog/web"
)

// App holds the wired catalog server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	cache  *cache.Cache
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New wires logger, store, cache, modules, middleware and templates from cfg.
// Anything opened before a failing step is closed again.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 exposes permissive CORS and template reloads")
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		closeDB(db, log.Logger)
	}()

	if cfg.Server.Mode == gin.DebugMode {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info("auto migration completed")
	}

	productCache, err := setupCache(context.Background(), cfg.Server.Cache, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup cache: %w", err)
	}
	defer func() {
		if success {
			return
		}
		_ = productCache.Close()
	}()

	products := product.NewProductService(product.NewProductRepository(db), productCache)
	users := user.NewUserService(user.NewUserRepository(db))
	modules := []Module{
		product.NewModule(product.NewProductHandler(products), product.NewProductPageHandler(products)),
		user.NewModule(user.NewUserHandler(users)),
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: false}),
		middleware.Logger(log.Logger, "/static/", "/health"),
		middleware.SecureHeaders(middleware.SecureConfig{
			ContentSecurityPolicy: cfg.Server.Security.ContentSecurityPolicy,
			IsDevelopment:         cfg.Server.Mode != gin.ReleaseMode,
		}),
		middleware.CORSWithConfig(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)),
		middleware.Timeout(cfg.Server.TimeoutDuration()),
	)

	fsys, err := webFS(cfg.Server.Mode)
	if err != nil {
		return nil, err
	}
	renderer, err := NewTemplateRenderer(fsys, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer

	deps := &RouteDeps{
		Modules:       modules,
		DB:            db,
		Mode:          cfg.Server.Mode,
		APIMiddleware: apiMiddleware(cfg.Server.RateLimit),
	}
	if productCache.Enabled() {
		deps.Cache = productCache
	}
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		cache:  productCache,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Migrate creates or updates the users and products tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Product{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// setupCache connects to Redis when caching is enabled. A disabled cache is
// returned otherwise, and every product load then reaches the store.
func setupCache(ctx context.Context, cfg config.CacheConfig, log *slog.Logger) (*cache.Cache, error) {
	if !cfg.Enabled {
		return cache.New(nil, product.CacheNamespace, 0), nil
	}
	client, err := cache.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	log.Info("product cache connected",
		slog.String("redis_addr", cfg.RedisAddr),
		slog.Duration("ttl", cfg.TTLDuration()),
	)
	return cache.New(client, product.CacheNamespace, cfg.TTLDuration()), nil
}

// apiMiddleware returns the handlers applied to the /api group.
func apiMiddleware(cfg config.RateLimitConfig) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	return []gin.HandlerFunc{middleware.RateLimit(cfg.Requests, cfg.WindowDuration())}
}

// resolveCORSConfig applies the configured CORS settings over the defaults.
// Release mode without an allowlist denies every cross-origin request.
func resolveCORSConfig(mode string, cfg config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowCredentials = cfg.AllowCredentials
	if d := cfg.MaxAgeDuration(); d > 0 {
		corsConfig.MaxAge = strconv.Itoa(int(d.Seconds()))
	}

	switch {
	case len(cfg.AllowOrigins) > 0:
		corsConfig.AllowOrigins = cfg.AllowOrigins
	case mode == gin.ReleaseMode:
		corsConfig.AllowOrigins = []string{}
	}
	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// webFS serves templates from disk in debug mode and from the binary
// otherwise.
func webFS(mode string) (fs.FS, error) {
	if mode != gin.DebugMode {
		return web.EmbeddedFS, nil
	}
	fsys, err := resolveDebugWebFS()
	if err != nil {
		return nil, fmt.Errorf("resolve debug template fs: %w", err)
	}
	return fsys, nil
}

func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	exePath, err := os.Executable()
	if err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	return nil, errors.New("debug web directory not found")
}

func closeDB(db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down within five
// seconds and releases the store, the cache and the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if a.db != nil {
		closeDB(a.db, log)
	}
	if err := a.cache.Close(); err != nil {
		log.Error("cache close error", slog.Any("error", err))
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
