package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tally-server/src/api"
	"tally-server/src/config"
	"tally-server/src/db"
	"tally-server/src/services"
	"tally-server/src/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer closeStore()

	cache, err := db.NewQueryCache(cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Cache setup failed: %v", err)
	}
	defer cache.Close()

	// Router
	router := api.NewRouter(api.Services{
		Auth:         services.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL),
		Transactions: services.NewTransactionService(store, cache, cfg.MaxPageSize),
		Categories:   services.NewCategoryService(store, cache),
		Budgets:      services.NewBudgetService(store),
	}, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Println("API server running on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Graceful shutdown failed: %v", err)
	}
}
