package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marque/config"
	"marque/config/database"
	"marque/config/redisconn"
	"marque/pkg/logger"
	"marque/router"
	"marque/socket"

	"github.com/joho/godotenv"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Sugar.Warn("JWT_SECRET is not set; all authenticated requests will be rejected")
	}

	db := database.Connect(cfg)
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Sugar.Fatalf("Failed to run migrations: %v", err)
	}

	hub := socket.NewHub()

	// With Redis configured, feed events fan out across server instances.
	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	defer stopBridge()
	if cfg.RedisAddr != "" {
		rdb := redisconn.Connect(cfg)
		defer rdb.Close()
		bridge := socket.NewBridge(rdb, hub)
		hub.AttachBridge(bridge)
		go bridge.Run(bridgeCtx)
	}
	go hub.Run()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.Setup(db, hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Sugar.Infof("Listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Sugar.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar.Errorf("Forced shutdown: %v", err)
	}
}
