// Package main is the entry point for the PostPilot API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postpilot/internal/cache"
	"postpilot/internal/config"
	"postpilot/internal/database"
	"postpilot/internal/gateway"
	"postpilot/internal/handlers"
	"postpilot/internal/mail"
	"postpilot/internal/middleware"
	"postpilot/internal/pipeline"
	"postpilot/internal/router"
	"postpilot/internal/session"
	"postpilot/internal/storage"
	"postpilot/internal/store"
	"postpilot/internal/wordpress"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Audit-log session lifecycle changes. The subscription is released
	// during shutdown.
	unsubscribe := sessionStore.Subscribe(func(ev session.Event) {
		slog.Info("session event", "kind", ev.Kind, "user_id", ev.UserID, "email", ev.Email)
	})
	defer unsubscribe()

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	contentStore := store.NewContentStore(db)
	wordpressStore := store.NewWordPressStore(db)
	keywordStore := store.NewKeywordStore(db)

	// Connect to S3-compatible object storage (optional — thumbnails fall
	// back to inline data URLs without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — thumbnails stored inline")
	}

	// AI gateway client and the content pipeline on top of it.
	gatewayClient := gateway.New(gateway.Config{
		BaseURL:    cfg.GatewayBaseURL,
		APIKey:     cfg.GatewayAPIKey,
		Model:      cfg.GatewayModel,
		ImageModel: cfg.GatewayImageModel,
		MaxRetries: cfg.GatewayMaxRetries,
	})
	contentPipeline := pipeline.New(gatewayClient)

	slog.Info("ai gateway initialized",
		"base_url", cfg.GatewayBaseURL,
		"model", cfg.GatewayModel,
		"image_model", cfg.GatewayImageModel,
	)

	// Keyword suggestion cache in Valkey.
	keywordCache := cache.NewKeywordCache(valkeyClient, cache.DefaultKeywordTTL)

	// SMTP relay for transactional mail. Optional: password reset is
	// disabled without it.
	mailer, err := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	if err != nil {
		slog.Error("failed to initialize mailer", "error", err)
		os.Exit(1)
	}
	if mailer == nil {
		slog.Warn("smtp not configured, password reset disabled")
	}

	// Rate limiter for the AI routes.
	aiLimiter := middleware.NewRateLimiter(30, time.Minute)
	defer aiLimiter.Stop()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(sessionStore, userStore, mailer, storageClient)
	writeHandlers := handlers.NewWrite(contentPipeline, "postpilot", cfg.Env)
	thumbnailHandlers := handlers.NewThumbnails(contentPipeline)
	keywordHandlers := handlers.NewKeywords(gatewayClient, keywordStore, keywordCache)
	contentHandlers := handlers.NewContents(contentStore, wordpressStore, wordpress.New(), storageClient)
	settingsHandlers := handlers.NewSettings(wordpressStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Sessions:   sessionStore,
		AILimiter:  aiLimiter,
		Auth:       authHandlers,
		Write:      writeHandlers,
		Thumbnails: thumbnailHandlers,
		Keywords:   keywordHandlers,
		Contents:   contentHandlers,
		Settings:   settingsHandlers,
	})

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate the full pipeline endpoint, which chains
	// several LLM calls (refine, generate, validate, fix loop).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
