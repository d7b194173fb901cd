package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sillysavant/f1nance/config"
	"github.com/sillysavant/f1nance/internal/backend"
	"github.com/sillysavant/f1nance/internal/handlers"
	"github.com/sillysavant/f1nance/internal/middleware"
	"github.com/sillysavant/f1nance/internal/router"
	"github.com/sillysavant/f1nance/internal/tokenstore"
	"github.com/sillysavant/f1nance/internal/userstate"
	"github.com/sillysavant/f1nance/pkg/httpclient"
	"github.com/sillysavant/f1nance/pkg/logger"
	"github.com/sillysavant/f1nance/pkg/metrics"
	"github.com/sillysavant/f1nance/pkg/profiling"
	"github.com/sillysavant/f1nance/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting f1nance gateway",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize metrics runtime collectors
	metrics.Init()

	// Continuous profiling (optional)
	if cfg.Profiling.Enabled {
		stopProfiler, err := profiling.InitProfiler(
			cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv,
		)
		if err != nil {
			logger.Error("Failed to start profiler", zap.Error(err))
		} else {
			defer stopProfiler()
		}
	}

	// Outbound HTTP client for the finance API
	httpClient := httpclient.NewStandardClientWithTimeout(time.Duration(cfg.Backend.TimeoutSeconds) * time.Second)
	api := backend.New(cfg.Backend.BaseURL, httpClient)

	// Session storage and the shared profile cache
	stores := tokenstore.NewCookieFactory(
		cfg.Session.CookieDomain,
		cfg.Session.CookieSecure,
		time.Duration(cfg.Session.CookieTTLHours)*time.Hour,
	)
	users := userstate.NewManager(api, time.Duration(cfg.Cache.ProfileTTLSeconds)*time.Second)

	// Handlers
	errs := handlers.NewErrorResponder(stores, users)
	pagesHandler := handlers.NewPagesHandler()
	authHandler := handlers.NewAuthHandler(api, stores, users, cfg.Session, errs)
	adminAuthHandler := handlers.NewAdminAuthHandler(api, stores, cfg.Session)
	dashboardHandler := handlers.NewDashboardHandler(api, users, errs)
	adminHandler := handlers.NewAdminHandler(api, errs)
	healthHandler := handlers.NewHealthHandler()
	logsHandler := handlers.NewLogsHandler(cfg.Logging.Dir)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	r.Use(middleware.Observability())
	r.Use(middleware.SecurityHeaders())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // session cookies
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters: credential endpoints are limited much harder than
	// page loads.
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	authRateLimiter := middleware.NewRateLimiter(1, 5)        // 1 req/sec, burst of 5 per IP

	router.Register(r, router.Deps{
		Stores:             stores,
		Pages:              pagesHandler,
		Auth:               authHandler,
		AdminAuth:          adminAuthHandler,
		Dashboard:          dashboardHandler,
		Admin:              adminHandler,
		Health:             healthHandler,
		Logs:               logsHandler,
		GeneralRateLimiter: generalRateLimiter,
		AuthRateLimiter:    authRateLimiter,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
