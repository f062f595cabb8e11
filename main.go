package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/snap-point/social-api/config"
	"github.com/snap-point/social-api/directory"
	"github.com/snap-point/social-api/friends"
	"github.com/snap-point/social-api/media"
	"github.com/snap-point/social-api/middleware"
	"github.com/snap-point/social-api/observability"
	"github.com/snap-point/social-api/routes"
	"github.com/snap-point/social-api/store"
	"github.com/snap-point/social-api/utils"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to set up the OTLP tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}()

	// Initialize database
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	var avatars media.AvatarStorage
	var resolver media.URLResolver = media.StaticURL(cfg.R2.PublicURL)
	if cfg.R2.Enabled() {
		r2 := media.NewR2Storage(cfg.R2)
		avatars, resolver = r2, r2
	} else {
		slog.Info("object storage not configured, avatar uploads disabled")
	}

	var friendships store.FriendshipStore
	switch cfg.FriendshipStore {
	case config.StoreMemory:
		slog.Warn("friendships are kept in memory and will not survive a restart")
		friendships = store.NewMemoryStore()
	default:
		friendships = store.NewGormStore(db)
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	svc := friends.NewService(friendships, directory.NewGormDirectory(db, resolver), metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupRoutes(r, routes.Dependencies{
		DB:      db,
		Friends: svc,
		Tokens:  utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Avatars: avatars,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port, "friendship_store", cfg.FriendshipStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
