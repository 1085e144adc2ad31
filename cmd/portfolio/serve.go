// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"portfolio/internal/auth"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/engine"
	"portfolio/internal/handlers"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/render"
	"portfolio/internal/router"
	"portfolio/internal/session"
	"portfolio/internal/storage"
	"portfolio/internal/store"
	"portfolio/internal/upload"
	"portfolio/internal/workflow"
)

// maxAdminBody caps a whole admin submission: the cover plus a gallery.
const maxAdminBody = 64 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	slog.SetDefault(cfg.Logger())
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	// The server starts without PostgreSQL: public reads degrade, the
	// fallback admin can still sign in, and migrations run on recovery.
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	schema := database.NewSchema(db)
	if err := schema.Ensure(cmd.Context()); err != nil {
		slog.Warn("database not ready, serving degraded until it recovers", "error", err)
	}

	// Valkey backs the page cache. The site works without it, uncached.
	var pageCache *cache.PageCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, page cache disabled", "addr", cfg.ValkeyAddr(), "error", err)
	} else {
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
		// Rendered pages may predate this build's templates.
		pageCache.InvalidateAll(cmd.Context())
	}

	backend, uploadDir, err := uploadBackend(cfg)
	if err != nil {
		return err
	}
	uploads := upload.NewStore(backend, cfg.UploadMaxBytes)

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("init admin renderer: %w", err)
	}
	eng, err := engine.New(cfg.Profile)
	if err != nil {
		return fmt.Errorf("init site engine: %w", err)
	}

	projectStore := store.NewProjectStore(db)
	cacheLogStore := store.NewCacheLogStore(db)
	sessions := session.NewManager(cfg)
	authenticator := auth.New(store.NewAdminStore(db), cfg)
	mutations := workflow.New(projectStore, uploads, cache.NewRevalidator(pageCache, cacheLogStore))

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginLimiter.Stop()
	loginLimiter.OnReject(func(*http.Request) {
		metrics.LoginAttemptsTotal.WithLabelValues("limited").Inc()
	})

	adminHandlers := handlers.NewAdmin(renderer, projectStore, mutations, cacheLogStore)
	authHandlers := handlers.NewAuth(renderer, authenticator, sessions)
	publicHandlers := handlers.NewPublic(eng, store.NewProjectReader(projectStore), pageCache)

	r := router.New(router.Options{
		Secure:          !cfg.IsDev(),
		UploadDir:       uploadDir,
		UploadURLPrefix: cfg.UploadURLPrefix,
		MaxAdminBody:    maxAdminBody,
		Prepare:         schema.Ensure,
	}, sessions, loginLimiter, adminHandlers, authHandlers, publicHandlers)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// uploadBackend picks the remote blob service when it is configured and the
// local disk otherwise. The returned directory is non-empty only for disk,
// where the server itself serves the files.
func uploadBackend(cfg *config.Config) (upload.Backend, string, error) {
	if !cfg.BlobEnabled() {
		disk := upload.NewDisk(cfg.UploadDir, cfg.UploadURLPrefix)
		slog.Info("uploads stored on disk", "dir", disk.Dir())
		return disk, disk.Dir(), nil
	}

	client, err := storage.New(
		cfg.BlobEndpoint, cfg.BlobRegion, cfg.BlobAccessKey, cfg.BlobSecretKey,
		cfg.BlobBucket, cfg.BlobPublicURL,
	)
	if err != nil {
		return nil, "", fmt.Errorf("init blob storage: %w", err)
	}
	slog.Info("uploads stored in blob service", "endpoint", cfg.BlobEndpoint, "bucket", client.Bucket())
	return upload.NewBlob(client, "uploads"), "", nil
}
