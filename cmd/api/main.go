package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unitwise/unitwise/internal/app"
	"github.com/unitwise/unitwise/internal/config"
	"github.com/unitwise/unitwise/internal/database"
	"github.com/unitwise/unitwise/internal/db"
	"github.com/unitwise/unitwise/internal/server"
	"github.com/unitwise/unitwise/pkg/Logger"
)

// This is the main entry point for the API server.
// Loads in all system components
// Exposes functionalities
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.New(cfg.Debug)
	logger.Info("Logger initialized")
	// fetch database connection
	gdb, err := db.InitDB(cfg.DB.DSN(), *cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// handle migrations
	database.MigrateDB(gdb)
	// redis holds the hot message store
	rc, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	application, err := app.NewApp(cfg, logger, gdb, rc)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// compose router
	router := gin.Default()
	server.InitializeRoutes(cfg, router, application.GetServerDependencies())

	// listen with graceful exit
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router.Handler(),
	}
	go func() {
		logger.Infof("Server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server exiting %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 5 secs then cancel
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	logger.Info("Shutdown system")
}
