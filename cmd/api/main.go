package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	_ "go.uber.org/automaxprocs"

	_ "github.com/bizmatters/agent-builder/testcase-generator/docs" // swagger docs
	"github.com/bizmatters/agent-builder/testcase-generator/internal/config"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/export"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/gateway"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/llm"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/metrics"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/storage"
)

// @title Test Case Generator API
// @version 1.0
// @description Generates Azure DevOps test cases from acceptance criteria
// @description
// @description Test case titles and steps come from a completion model when one is configured and
// @description available, and from built-in templates otherwise.

// @contact.name API Support
// @contact.email support@bizmatters.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.ConfigFileInUse != "" {
		log.Printf("Using config file: %s", cfg.ConfigFileInUse)
	}

	// Initialize OpenTelemetry
	tp, err := initTracer()
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	ctx := context.Background()

	// Select storage
	store, closeStore, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeStore()

	// Completion client and pipeline
	completer, err := llm.New(ctx, cfg.Provider())
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}
	genMetrics, err := metrics.NewGenerationMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	limiter := cfg.Limiter()
	orchestrator := generation.NewOrchestrator(completer, limiter,
		generation.WithConfig(cfg.Generation()),
		generation.WithParser(cfg.Parser()),
		generation.WithMetrics(genMetrics),
	)

	// Prometheus registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewRateLimitCollector(limiter),
	)
	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		log.Fatalf("Failed to register HTTP metrics: %v", err)
	}

	handler := gateway.NewHandler(orchestrator, store, limiter, export.NewRegistry())
	router := newRouter(handler, store, registry, httpMetrics, cfg.CORSOrigin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // comprehensive generation makes up to 30 sequential completion calls
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Test Case Generator API server on port %s (provider=%s, perMinute=%d, perDay=%d)\n",
			cfg.Port, cfg.LLMProvider, cfg.RateLimitPerMinute, cfg.RateLimitPerDay)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to flush traces: %v", err)
	}

	log.Println("Server exited")
}

// openStore returns the Postgres store when dbURL is set and the in-memory
// store otherwise. The returned func releases the store's resources.
func openStore(ctx context.Context, dbURL string) (storage.Store, func(), error) {
	if dbURL == "" {
		log.Println("DATABASE_URL not set, using in-memory storage")
		return storage.NewMemoryStore(), func() {}, nil
	}

	log.Println("Connecting to PostgreSQL database...")
	pool, err := storage.Connect(ctx, dbURL, 10, 3*time.Second)
	if err != nil {
		return nil, nil, err
	}
	log.Println("Connected to PostgreSQL database")

	store := storage.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}

// newRouter wires middleware, probes, metrics, docs and the API routes.
func newRouter(handler *gateway.Handler, store storage.Store, registry *prometheus.Registry, httpMetrics *metrics.HTTPMetrics, corsOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add structured JSON logging middleware
	router.Use(structuredLoggingMiddleware())
	router.Use(httpMetrics.Middleware())
	router.Use(gateway.CORS(corsOrigin))

	// Health checks MUST be at the root for the WebService standard
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/ready", func(c *gin.Context) {
		// Check storage connectivity for readiness
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  "storage unavailable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// Health check - keep for backward compatibility
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	handler.RegisterRoutes(api)
	return router
}

// initTracer initializes OpenTelemetry tracing
func initTracer() (*trace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}

// structuredLoggingMiddleware provides structured JSON logging for all requests
func structuredLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Build log entry
		logEntry := map[string]interface{}{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		// Add error if present
		if len(c.Errors) > 0 {
			logEntry["errors"] = c.Errors.String()
		}

		// Output as JSON
		logJSON, _ := json.Marshal(logEntry)
		log.Println(string(logJSON))
	}
}
