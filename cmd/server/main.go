package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arunavsaha123/food-vista/internal/cart"
	"github.com/arunavsaha123/food-vista/internal/catalog"
	"github.com/arunavsaha123/food-vista/internal/config"
	"github.com/arunavsaha123/food-vista/internal/handlers"
	"github.com/arunavsaha123/food-vista/internal/middleware"
	"github.com/arunavsaha123/food-vista/internal/openfoodfacts"
	"github.com/arunavsaha123/food-vista/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	log.Info("starting food catalog api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"upstream", cfg.OpenFoodFacts.BaseURL,
	)

	// Initialize the product lookup client
	offClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:    cfg.OpenFoodFacts.BaseURL,
		UserAgent:  cfg.OpenFoodFacts.UserAgent,
		PageSize:   cfg.OpenFoodFacts.PageSize,
		MaxRetries: cfg.OpenFoodFacts.MaxRetries,
		Timeout:    time.Duration(cfg.OpenFoodFacts.Timeout) * time.Second,
	}, log)

	// Initialize the catalog service and the session cart registry
	catalogService := catalog.NewService(offClient, time.Duration(cfg.Cache.TTL)*time.Second, log)
	cartRegistry := cart.NewRegistry()

	// Request metrics plus a gauge over live cart sessions
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	prometheus.DefaultRegisterer.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "foodvista_cart_sessions",
			Help: "Number of live cart sessions.",
		},
		func() float64 { return float64(cartRegistry.Len()) },
	))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(catalogService, log)
	cartHandler := handlers.NewCartHandler(cartRegistry, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handlers.SessionHeader},
		ExposedHeaders:   []string{handlers.SessionHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check and metrics endpoints
	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Product endpoints
		r.Get("/products", productHandler.SearchProducts)
		r.Get("/products/barcode/{barcode}", productHandler.GetByBarcode)

		// Cart endpoints, scoped by session
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
