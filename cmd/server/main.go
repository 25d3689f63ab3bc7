package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mall-site-backend/internal/config"
	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/middleware"
	"mall-site-backend/internal/routes"
	"mall-site-backend/internal/services/batch"
	"mall-site-backend/internal/storage"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		appLog.Fatal("Database init failed", "error", err)
	}

	objects, err := storage.New(context.Background(), cfg.Storage, appLog)
	if err != nil {
		appLog.Fatal("Object storage init failed", "error", err)
	}
	if closer, ok := objects.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(appLog))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Log:     appLog,
		Config:  cfg,
		Objects: objects,
		Tracker: batch.NewTracker(),
	})

	appLog.Info("Server starting", "addr", cfg.HTTPAddr, "storage", cfg.Storage.Mode)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		appLog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
