package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/pos-register/internal/adapter/catalog"
	"github.com/rl1809/pos-register/internal/adapter/connectivity"
	"github.com/rl1809/pos-register/internal/adapter/handler"
	"github.com/rl1809/pos-register/internal/adapter/pricing"
	"github.com/rl1809/pos-register/internal/adapter/storage"
	"github.com/rl1809/pos-register/internal/config"
	"github.com/rl1809/pos-register/internal/core/service"
	"github.com/rl1809/pos-register/internal/port"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()
	log.Printf("using %s store", cfg.StoreDriver)

	httpClient := &http.Client{Timeout: 10 * time.Second}

	cache := service.NewRequestCache(store, cfg.CacheTTL)
	catalogClient := catalog.NewClient(cfg.APIBaseURL, httpClient, cache)
	pricingClient := pricing.NewHTTPClient(cfg.APIBaseURL, httpClient)

	probe := connectivity.NewProbe(cfg.APIBaseURL, httpClient, cfg.ProbeInterval)
	go probe.Run(ctx)

	engine := service.NewCartEngine(pricingClient, probe)

	httpHandler := handler.NewHTTPHandler(engine, catalogClient, cache)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/api/cart", httpHandler.Cart)
	mux.HandleFunc("/api/cart/items", httpHandler.AddItem)
	mux.HandleFunc("/api/cart/remove", httpHandler.RemoveItem)
	mux.HandleFunc("/api/cart/quantity", httpHandler.UpdateQuantity)
	mux.HandleFunc("/api/cart/customer", httpHandler.SetCustomer)
	mux.HandleFunc("/api/cart/clear", httpHandler.ClearCart)
	mux.HandleFunc("/api/cart/validate", httpHandler.ValidateCart)
	mux.HandleFunc("/api/products", httpHandler.Products)
	mux.HandleFunc("/api/customers", httpHandler.Customers)
	mux.HandleFunc("/api/cache/clear", httpHandler.ClearCache)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("register listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")
}

func openStore(ctx context.Context, cfg config.Config) (port.KeyValueStore, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil

	case "bolt":
		store, err := storage.OpenBoltStore(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return storage.NewRedisStore(rdb), func() { rdb.Close() }, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		store := storage.NewSQLStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
