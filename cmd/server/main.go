package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/mihirp/food-order/internal/adapter/handler"
	"github.com/mihirp/food-order/internal/adapter/storage"
	"github.com/mihirp/food-order/internal/adapter/ws"
	"github.com/mihirp/food-order/internal/config"
	"github.com/mihirp/food-order/internal/core/service"
	"github.com/mihirp/food-order/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.New(logger.Options{
		Service: "food-order",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Error("open mysql", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Error("ping mysql", "error", err)
		os.Exit(1)
	}
	log.Info("connected to mysql")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("ping redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to redis")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)

	hub := ws.NewHub(log)

	locks := service.NewUserLocks()
	cartService := service.NewCartService(redisAdapter, mysqlAdapter, locks)
	checkoutService := service.NewCheckoutService(
		redisAdapter, mysqlAdapter, mysqlAdapter, mysqlAdapter,
		hub, locks, log, cfg.CheckoutResolveLimit,
	)
	orderService := service.NewOrderService(mysqlAdapter, hub, log)

	auth := handler.NewAuth(cfg.JWTSecret, mysqlAdapter)
	httpHandler := handler.NewHTTPHandler(
		cartService, checkoutService, orderService,
		mysqlAdapter, mysqlAdapter, hub, log,
	)

	mux := http.NewServeMux()
	httpHandler.Routes(mux, auth, hub)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("http server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("http server stopped")

	hub.Close()
	log.Info("websocket connections closed")

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
