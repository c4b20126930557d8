package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/judyrop/storefront-admin/config"
	"github.com/judyrop/storefront-admin/editor"
	"github.com/judyrop/storefront-admin/settings"
	"github.com/judyrop/storefront-admin/storage"
	"github.com/judyrop/storefront-admin/store"
)

// App bundles the store and the two operator workflows for one admin session.
type App struct {
	Store    *store.Store
	Editor   *editor.Editor
	Settings *settings.Workflow
	Log      *logrus.Logger
}

func NewApp(db *gorm.DB, keyVersion string, logger *logrus.Logger) (*App, error) {
	kv, err := storage.NewGormKV(db)
	if err != nil {
		return nil, err
	}
	s := store.New(storage.NewAdapter(kv, keyVersion, logger), logger)
	return &App{
		Store:    s,
		Editor:   editor.New(s, logger),
		Settings: settings.New(s, logger),
		Log:      logger,
	}, nil
}

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logger.SetLevel(level)

	db, err := storage.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	app, err := NewApp(db, cfg.KeyVersion, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	r := SetupRouter(app)
	logger.Infof("Starting storefront admin on %s", cfg.Port)
	if err := r.Run(cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
