package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"mall-site-backend/internal/config"
	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/repository"
	"mall-site-backend/internal/services/batch"
	"mall-site-backend/internal/services/importer"
	"mall-site-backend/internal/services/logos"
	"mall-site-backend/internal/storage"
)

// app holds the services a command needs, wired the same way the HTTP server wires them.
type app struct {
	log      *logger.Logger
	importer *importer.Service
	logos    *logos.Service
	close    func()
}

type appOpener func(ctx context.Context) (*app, error)

func openApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()
	cfg := config.Read()
	if err := cfg.ValidateStorage(); err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	objects, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	a := newApp(log, db, objects)
	a.close = func() {
		if closer, ok := objects.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		log.Sync()
	}
	return a, nil
}

func newApp(log *logger.Logger, db *gorm.DB, objects storage.ObjectStore) *app {
	storeRepo := repository.NewStoreRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	runRepo := repository.NewImportRunRepository(db)
	recorder := batch.NewRecorder(runRepo, batch.NewTracker())

	return &app{
		log:      log,
		importer: importer.NewService(log, storeRepo, categoryRepo, recorder),
		logos:    logos.NewService(log, storeRepo, objects, runRepo, recorder),
		close:    func() {},
	}
}
