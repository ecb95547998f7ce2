package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-console/internal/backend"
	"auction-console/internal/config"
	"auction-console/internal/endpoints"
	"auction-console/internal/server"
	"auction-console/internal/session"
	"auction-console/internal/views"
	"auction-console/internal/webui"
	handler "auction-console/services/console/handler"
	"auction-console/utils"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load(os.Getenv("AUCTION_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := utils.ConfigureLogger(cfg.Log.Level, utils.LogFileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Session)
	if err != nil {
		utils.Fatal("could not open session store", map[string]any{"store": cfg.Session.Store, "error": err.Error()})
	}
	defer closeStore()

	reg, err := endpoints.New(cfg.Backend.BaseURL)
	if err != nil {
		utils.Fatal("invalid backend url", map[string]any{"error": err.Error()})
	}
	client := backend.NewClient(reg, cfg.Backend.Timeout)

	bundle, err := webui.Load(cfg.Location())
	if err != nil {
		utils.Fatal("could not load web ui", map[string]any{"error": err.Error()})
	}

	consoleHandler := handler.NewConsoleHandler(client, handler.Options{
		Listing:  views.ListingOptions{Tick: cfg.Listing.Tick, Refresh: cfg.Listing.Refresh},
		Location: cfg.Location(),
	})
	router := server.SetupRouter(consoleHandler, server.SessionOptions{
		Store:      store,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
	}, bundle)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.Warn("shutdown did not complete", map[string]any{"error": err.Error()})
		}
	}()

	utils.Info("starting auction console", map[string]any{
		"addr":    srv.Addr,
		"backend": reg.Base(),
		"store":   cfg.Session.Store,
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// openStore builds the configured credential store and its cleanup func
func openStore(ctx context.Context, cfg config.SessionConfig) (session.CredentialStore, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return session.NewRedisStore(rdb, cfg.TTL), func() { _ = rdb.Close() }, nil
	case config.StoreSQLite:
		store, err := session.OpenSQLiteStore(cfg.SQLitePath, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		// with no TTL nothing ever expires
		if every := purgeInterval(cfg.TTL); every > 0 {
			go purgeExpired(ctx, store, every)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return session.NewMemoryStore(cfg.TTL), func() {}, nil
	}
}

// purgeInterval is how often lapsed sessions are swept, zero for never
func purgeInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return min(ttl, time.Hour)
}

// purgeExpired drops lapsed sessions from the sqlite table until ctx ends
func purgeExpired(ctx context.Context, store *session.GormStore, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				utils.Warn("purge expired sessions failed", map[string]any{"error": err.Error()})
				continue
			}
			if n > 0 {
				utils.Debug("purged expired sessions", map[string]any{"count": n})
			}
		}
	}
}
