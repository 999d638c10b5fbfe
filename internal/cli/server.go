package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"business-english-quiz/internal/app"
	"business-english-quiz/internal/config"
	"business-english-quiz/internal/infra/file"
	"business-english-quiz/internal/infra/memory"
	"business-english-quiz/internal/infra/postgres"
	rediscache "business-english-quiz/internal/infra/redis"
	"business-english-quiz/internal/infra/sqlite"
	"business-english-quiz/internal/scheduler"
	transport "business-english-quiz/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// catalogRepository is a cached catalog that can be refreshed ahead of expiry.
type catalogRepository interface {
	app.CatalogRepository
	scheduler.Warmer
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, *port)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, portFlag string) error {
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	loader, err := newCatalogLoader(cfg, pool)
	if err != nil {
		return err
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog catalogRepository
	if redisClient != nil {
		catalog = rediscache.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalogRepository(loader, catalogTTL)
	}

	if cfg.Catalog.Refresh != "" {
		refresher := scheduler.New(catalog)
		if err := refresher.Start(config.TTLDuration(cfg.Catalog.Refresh, catalogTTL)); err != nil {
			return err
		}
		defer refresher.Stop()
	}

	kv, closeKV, err := newBookmarkKV(cfg, redisClient, pool)
	if err != nil {
		return err
	}
	defer closeKV()

	bookmarks := app.NewBookmarkStore(ctx, kv, cfg.Bookmarks.Key)
	defer bookmarks.Close()

	opts := app.Options{
		RetryDelay: config.TTLDuration(cfg.Game.RetryDelay, app.DefaultRetryDelay),
		Requeue: app.RequeuePolicy{
			MinOffset: cfg.Game.RequeueMinOffset,
			MaxOffset: cfg.Game.RequeueMaxOffset,
		},
	}
	if cfg.Game.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(cfg.Game.Seed))
	}
	service := app.NewQuizService(catalog, bookmarks, opts)
	defer service.Close()

	if err := service.Start(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.Printf("catalog loaded, %d items queued", service.Snapshot().QueueLength)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newCatalogLoader(cfg config.Config, pool *pgxpool.Pool) (memory.CatalogLoader, error) {
	switch source := cfg.Catalog.Source; {
	case source == config.CatalogFromPostgres:
		if pool == nil {
			return nil, errors.New("catalog source is postgres but postgres.url is empty")
		}
		return postgres.NewCatalogStore(pool), nil
	case source == "":
		log.Printf("no catalog source configured, using the built-in sample")
		return memory.NewStaticCatalogLoader(sampleCatalog()), nil
	default:
		if _, err := os.Stat(source); errors.Is(err, fs.ErrNotExist) {
			log.Printf("catalog %s not found, using the built-in sample", source)
			return memory.NewStaticCatalogLoader(sampleCatalog()), nil
		}
		return file.NewCatalogLoader(source).WithSheet(cfg.Catalog.Sheet), nil
	}
}

func newBookmarkKV(cfg config.Config, redisClient *redis.Client, pool *pgxpool.Pool) (app.KVStore, func(), error) {
	noop := func() {}
	switch cfg.Bookmarks.Backend {
	case "", "sqlite":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("closing sqlite: %v", err)
			}
		}, nil
	case "memory":
		return memory.NewKVStore(), noop, nil
	case "file":
		store, err := file.NewKVStore(cfg.Bookmarks.Dir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "redis":
		if redisClient == nil {
			return nil, noop, errors.New("bookmarks backend is redis but redis.addr is empty")
		}
		// saved items never expire
		return rediscache.NewKVStore(redisClient, 0), noop, nil
	case "postgres":
		if pool == nil {
			return nil, noop, errors.New("bookmarks backend is postgres but postgres.url is empty")
		}
		return postgres.NewKVStore(pool), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown bookmarks backend %q", cfg.Bookmarks.Backend)
	}
}
