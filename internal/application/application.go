package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ytbuzz/internal/api"
	"ytbuzz/internal/api/handlers"
	"ytbuzz/internal/cache"
	"ytbuzz/internal/config"
	pgprovider "ytbuzz/internal/infrastructure"
	youtubeprovider "ytbuzz/internal/infrastructure/youtube_provider"
	"ytbuzz/internal/keypool"
	"ytbuzz/internal/provider"
	"ytbuzz/internal/repo"
	"ytbuzz/internal/service"

	"go.uber.org/zap"
)

type Application struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	db       *pgprovider.Provider
	keys     *keypool.Pool
	provider provider.BuzzProvider
	memory   *cache.Memory
	durable  service.CacheRepository
	service  *service.SearchService
	router   *api.Router
	errChan  chan error
	wg       sync.WaitGroup
}

func NewApplication() *Application {
	return &Application{
		errChan: make(chan error, 1),
	}
}

func (a *Application) Start(ctx context.Context) error {
	if err := a.initConfig(); err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	if err := a.initLogger(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := a.initDatabase(ctx); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := a.initKeyPool(); err != nil {
		return fmt.Errorf("init key pool: %w", err)
	}
	if err := a.initProvider(); err != nil {
		return fmt.Errorf("init provider: %w", err)
	}
	a.initCaches()
	a.initService()
	a.initRouter()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.router.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	a.logger.Infof("Application started, listening on %s", a.cfg.HTTP.ListenAddr)

	return nil
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	defer cancel()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-a.errChan:
		a.logger.Errorf("Fatal error: %v", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := a.router.Shutdown(shutdownCtx); err != nil {
		a.logger.Errorf("HTTP server shutdown error: %v", err)
	}

	if a.db != nil {
		a.db.Close()
		a.logger.Info("Database connections closed")
	}

	a.wg.Wait()

	a.logger.Info("Graceful shutdown completed")

	return nil
}

func (a *Application) initConfig() error {
	cfg, err := config.ParseConfig()
	if err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

func (a *Application) initLogger() error {
	log, err := zap.NewProduction()
	if err != nil {
		return err
	}

	a.logger = log.Sugar()

	return nil
}

// initDatabase connects the durable cache tier. With it disabled the
// service runs on the memory tier alone.
func (a *Application) initDatabase(ctx context.Context) error {
	if !a.cfg.Cache.DurableEnable {
		a.logger.Info("Durable cache disabled, skipping database connection")
		return nil
	}

	a.db = pgprovider.NewProvider(a.logger, pgprovider.Options{
		Host:           a.cfg.DB.Host,
		Port:           a.cfg.DB.Port,
		Database:       a.cfg.DB.Name,
		Username:       a.cfg.DB.User,
		Password:       a.cfg.DB.Password,
		MinConns:       int32(a.cfg.DB.MinConns),
		MaxConns:       int32(a.cfg.DB.MaxConns),
		ConnLifetime:   time.Duration(a.cfg.DB.ConnMaxLifetimeMin) * time.Minute,
		ConnectTimeout: time.Duration(a.cfg.DB.ConnectTimeoutSec) * time.Second,
	})

	if err := a.db.Open(ctx); err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	a.durable = repo.NewSearchCacheRepo(
		a.db.DB(),
		a.logger,
		time.Duration(a.cfg.DB.QueryTimeoutSec)*time.Second,
	)

	a.logger.Info("Database connection established")

	return nil
}

func (a *Application) initKeyPool() error {
	keys := a.cfg.YouTube.KeyList()
	if len(keys) == 0 {
		return fmt.Errorf("no YouTube API keys configured")
	}

	a.keys = keypool.New(keys, a.logger)

	return nil
}

func (a *Application) initProvider() error {
	client, err := youtubeprovider.NewClient(
		youtubeprovider.NewHTTPClient(a.cfg.YouTube.Timeout()),
		youtubeprovider.Config{
			BaseURL:              a.cfg.YouTube.BaseURL,
			RatePerSec:           a.cfg.YouTube.RatePerSec,
			RateBurst:            a.cfg.YouTube.RateBurst,
			RetryInitialInterval: time.Duration(a.cfg.YouTube.RetryInitialMs) * time.Millisecond,
			RetryMaxInterval:     time.Duration(a.cfg.YouTube.RetryMaxMs) * time.Millisecond,
		},
		a.logger,
	)
	if err != nil {
		return err
	}

	a.provider = client

	return nil
}

func (a *Application) initCaches() {
	a.memory = cache.NewMemory(
		a.cfg.Cache.MemorySize,
		time.Duration(a.cfg.Cache.MemoryTTLMin)*time.Minute,
	)
}

func (a *Application) initService() {
	a.service = service.NewSearchService(
		a.provider,
		a.keys,
		a.memory,
		a.durable,
		service.Config{
			CacheTTL:      time.Duration(a.cfg.Cache.TTLHours) * time.Hour,
			EmptyCacheTTL: time.Duration(a.cfg.Cache.EmptyTTLHours) * time.Hour,
		},
		a.logger,
	)
}

func (a *Application) initRouter() {
	handler := handlers.NewHandler(a.service, a.logger)
	a.router = api.NewRouter(a.cfg, handler)
}
