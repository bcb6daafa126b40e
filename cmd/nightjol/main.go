package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/nightjol/nightjol/pkg/collectors"
	"github.com/nightjol/nightjol/pkg/config"
	"github.com/nightjol/nightjol/pkg/feed"
	"github.com/nightjol/nightjol/pkg/integrations"
	"github.com/nightjol/nightjol/pkg/integrations/sources/scrapers"
	"github.com/nightjol/nightjol/pkg/interfaces"
	"github.com/nightjol/nightjol/pkg/logger"
)

func main() {
	logger.Println("Starting nightjol...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	db, driver, err := openDatabase(cfg)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	likedRepo, err := collectors.NewLikedEventRepository(db, driver)
	if err != nil {
		logger.Fatalf("Failed to create liked-event repository: %v", err)
	}

	aggregator := buildAggregator(cfg)
	logger.Printf("Registered event sources: %v", aggregator.Sources())

	reconciler := feed.NewReconciler(likedRepo, time.Duration(cfg.Likes.FetchTimeoutSeconds)*time.Second)
	eventService := interfaces.NewEventService(aggregator, reconciler)

	router := mux.NewRouter()
	interfaces.NewEventHandler(eventService).RegisterRoutes(router)
	interfaces.NewLikedEventHandler(likedRepo).RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "x-session-id"},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Printf("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server stopped. See you on the dance floor.")
}

func openDatabase(cfg *config.Config) (*sql.DB, string, error) {
	if cfg.Database.UsePostgres() {
		db, err := sql.Open("postgres", cfg.Database.GetDSN())
		return db, "postgres", err
	}
	db, err := sql.Open("sqlite3", cfg.Database.SQLitePath)
	return db, "sqlite3", err
}

// buildAggregator registers every configured source. Registration
// order decides the concatenation order of fetched events, which in
// turn decides who wins name deduplication.
func buildAggregator(cfg *config.Config) *integrations.EventAggregator {
	aggregator := integrations.NewEventAggregator(integrations.AggregatorConfig{
		RequestTimeout: 30 * time.Second,
		CacheEnabled:   true,
		CacheTTL:       time.Duration(cfg.Cache.EventCacheMinutes) * time.Minute,
	})

	converter := integrations.NewCurrencyConverter(cfg.Currency.USDToZAR)

	if cfg.APIs.Ticketmaster.APIKey != "" {
		aggregator.RegisterSource(integrations.NewTicketmasterClient(integrations.TicketmasterConfig{
			APIKey:    cfg.APIs.Ticketmaster.APIKey,
			Converter: converter,
		}))
	}
	if cfg.APIs.Eventbrite.Token != "" {
		aggregator.RegisterSource(integrations.NewEventbriteClient(integrations.EventbriteConfig{
			Token:     cfg.APIs.Eventbrite.Token,
			Converter: converter,
		}))
	}
	if cfg.APIs.Yelp.APIKey != "" {
		aggregator.RegisterSource(integrations.NewYelpClient(integrations.YelpConfig{
			APIKey:    cfg.APIs.Yelp.APIKey,
			Converter: converter,
		}))
	}
	if cfg.APIs.Foursquare.APIKey != "" {
		aggregator.RegisterSource(integrations.NewFoursquareClient(integrations.FoursquareConfig{
			APIKey:    cfg.APIs.Foursquare.APIKey,
			Converter: converter,
		}))
	}
	if cfg.APIs.GooglePlaces.APIKey != "" {
		aggregator.RegisterSource(integrations.NewGooglePlacesClient(integrations.GooglePlacesConfig{
			APIKey: cfg.APIs.GooglePlaces.APIKey,
		}))
	}

	// The Computicket scrape needs no credentials and doubles as the
	// only source in an unconfigured deployment.
	aggregator.RegisterSource(scrapers.NewComputicketScraper(scrapers.ScrapingConfig{
		UserAgent:    cfg.Scrapers.UserAgent,
		RequestDelay: time.Duration(cfg.Scrapers.RateLimitSeconds) * time.Second,
		Timeout:      time.Duration(cfg.Scrapers.Timeout) * time.Second,
	}))

	return aggregator
}
