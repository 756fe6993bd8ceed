package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careatlas/provider-lookup/internal/adapters/cache"
	"github.com/careatlas/provider-lookup/internal/api/handlers"
	"github.com/careatlas/provider-lookup/internal/api/routes"
	"github.com/careatlas/provider-lookup/internal/application/services"
	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/careatlas/provider-lookup/internal/infrastructure/clients/nppes"
	"github.com/careatlas/provider-lookup/internal/infrastructure/clients/openai"
	"github.com/careatlas/provider-lookup/internal/infrastructure/clients/places"
	"github.com/careatlas/provider-lookup/internal/infrastructure/clients/redis"
	"github.com/careatlas/provider-lookup/internal/infrastructure/observability"
	"github.com/careatlas/provider-lookup/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize Redis client; the service works without it using the
	// in-process cache
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		cacheProvider = cache.NewMemoryAdapter(1000, 24*time.Hour)
		log.Println("Using in-process cache (Redis unavailable)")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Initialize the NPPES registry client
	registryClient := nppes.NewClient(&cfg.Registry)

	// Initialize the optional NLP intent collaborator
	var intentProvider providers.IntentProvider
	if cfg.OpenAI.APIKey != "" {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			intentProvider = openaiClient
			log.Println("OpenAI intent client initialized successfully")
		}
	} else {
		log.Println("No OpenAI API key configured; using deterministic query parsing only")
	}

	// Initialize the optional Places enrichment collaborator
	var enrichmentProvider providers.EnrichmentProvider
	if cfg.Places.APIKey != "" {
		enrichmentProvider = places.NewClientWithOptions(cfg.Places.APIKey, cacheProvider, cfg.Places.BaseURL, nil)
		log.Println("Places enrichment client initialized successfully")
	} else {
		log.Println("No Places API key configured; results will carry registry data only")
	}

	// The query-parse cache is instance-scoped and bounded regardless of
	// which shared cache backend is in use.
	parseCache := cache.NewMemoryAdapter(1000, 24*time.Hour)

	specialtyNormalizer := services.NewSpecialtyNormalizer()
	locationNormalizer := services.NewLocationNormalizer()
	nameParser := services.NewNameParser()

	queryParser := services.NewQueryParserService(
		intentProvider,
		specialtyNormalizer,
		locationNormalizer,
		nameParser,
		parseCache,
		metrics,
	)
	strategy := services.NewSearchStrategyService(registryClient, specialtyNormalizer, locationNormalizer, metrics)
	ranker := services.NewRankingService()
	searchService := services.NewProviderSearchService(queryParser, strategy, ranker, enrichmentProvider, metrics)

	// Initialize handlers and routes
	searchHandler := handlers.NewSearchHandler(searchService)
	router := routes.NewRouter(searchHandler, metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine so shutdown signals can be handled
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
