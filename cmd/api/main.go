package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/namefreezers/city-directory/internal/app"
	"github.com/namefreezers/city-directory/internal/config"
	"github.com/namefreezers/city-directory/internal/directory"
	"github.com/namefreezers/city-directory/internal/handlers"
	"github.com/namefreezers/city-directory/internal/logging"
	"github.com/namefreezers/city-directory/internal/metrics"
	"github.com/namefreezers/city-directory/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1) Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	// 2) Initialize structured logger
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3) Wire the city source and the weather lookup chain
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	// 4) Load the working set once; a failed load leaves an empty table
	m := metrics.New("city_directory")
	if err := a.Directory.Load(ctx); err != nil {
		logger.Warn("starting with an empty city table", zap.Error(err))
	}
	m.SetCitiesLoaded(a.Directory.Len())

	// 5) Per-viewer widget state
	store := session.NewStore(func() *directory.Session {
		return a.NewSession(logger)
	}, cfg.Session.Max, cfg.Session.Idle, logger)

	// 6) Drop idle sessions in the background
	pruner := cron.New()
	if cfg.Session.Idle > 0 {
		if _, err := session.SchedulePrune(pruner, store, cfg.Session.Idle/2, logger); err != nil {
			logger.Fatal("unable to schedule session prune", zap.Error(err))
		}
	}
	pruner.Start()
	defer func() { <-pruner.Stop().Done() }()

	// 7) Set up Gin router and handlers
	router := gin.New()
	router.Use(gin.Recovery(), m.HTTPMiddleware())
	router.SetHTMLTemplate(handlers.Templates())

	router.GET("/healthz", handlers.HealthHandler(a.Directory))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	ui := router.Group("/", handlers.SessionMiddleware(store))
	{
		ui.GET("/", handlers.PageHandler())
		ui.POST("/select/:key", handlers.SelectPageHandler(m))
	}
	api := router.Group("/api", handlers.SessionMiddleware(store))
	{
		api.GET("/cities", handlers.CitiesHandler())
		api.POST("/cities/:key/select", handlers.SelectHandler(m))
		api.GET("/state", handlers.StateHandler())
	}

	// 8) Start HTTP server and wait for a signal
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		logger.Info("starting API server", zap.String("address", srv.Addr), zap.Int("cities", a.Directory.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}
}
