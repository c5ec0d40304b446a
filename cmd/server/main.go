package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"muafin_web_go/config"
	"muafin_web_go/db"
	"muafin_web_go/handlers"
	"muafin_web_go/middleware"
	"muafin_web_go/models"
	"muafin_web_go/services"
	"muafin_web_go/services/i18n"
	"muafin_web_go/services/jobs"
	"muafin_web_go/services/leads"
	"muafin_web_go/services/metrics"
	"muafin_web_go/services/supabase"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	if err := services.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		log.Printf("[WARNING] %v", err)
	}
	defer services.FlushSentry()

	// Submission log is optional
	if cfg.SubmissionLogEnabled() {
		if err := db.Initialize(db.Options{
			Path:        cfg.DBPath,
			TursoURL:    cfg.TursoDatabaseURL,
			TursoToken:  cfg.TursoAuthToken,
			Environment: cfg.Environment,
		}); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := db.AutoMigrate(&models.SubmissionAttempt{}); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Lead table
	client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	handlers.LeadStore = leads.NewSupabaseStore(client, cfg.LeadsTable)

	if cfg.MetricsEnabled {
		handlers.LeadMetrics = metrics.NewLeadMetrics(nil)
	}

	// Shared rate limit counters when Redis is available
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARNING] Redis unreachable, rate limiting stays in memory: %v", err)
		} else {
			middleware.PublicFormRateLimiter.UseStore(middleware.NewRedisStore(rdb, "muafin:ratelimit"))
			log.Println("[INFO] Rate limiting backed by Redis")
		}
		cancel()
	}

	middleware.InitAssetVersions()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	if cfg.MetricsEnabled {
		e.Use(middleware.RequestMetrics(metrics.NewHTTPMetrics(nil)))
	}
	e.Use(middleware.CSRF(cfg))
	e.Use(middleware.CSPNonce(middleware.CSPSourcesFromConfig(cfg)))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.Locale(cfg))

	// Static files
	e.Static("/static", "static")

	e.GET("/", handlers.LandingHandler)
	e.POST("/leads", handlers.LeadPostHandler, middleware.PublicFormRateLimiter.Middleware())
	e.POST("/language/toggle", handlers.ToggleLanguageHandler)
	e.GET("/healthz", handlers.HealthHandler)
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// Submission log retention (runs every hour)
	if cfg.SubmissionLogEnabled() {
		retention := time.Duration(cfg.SubmissionRetentionDays) * 24 * time.Hour
		scheduler, err := jobs.StartScheduler(db.DB, retention)
		if err != nil {
			log.Fatalf("Failed to schedule retention job: %v", err)
		}
		defer scheduler.Stop()
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
