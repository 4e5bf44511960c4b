// Package setup assembles the application: configuration, logging, the
// community API client, and the local session store.
package setup

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/session"
	"github.com/ladleapp/ladle/internal/setup/client"
	"github.com/ladleapp/ladle/internal/setup/config"
	"github.com/ladleapp/ladle/internal/setup/telemetry"
	"go.uber.org/zap"
)

// App contains all the common application components.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	APILogger  *zap.Logger
	API        *api.Client
	Session    *session.Store
	ViewerID   string
	LogManager *telemetry.Manager
}

// InitializeApp loads configuration, starts a log session, and connects the
// API client and session store.
func InitializeApp(logDir string) (*App, error) {
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logManager := telemetry.NewManager(logDir, &cfg.Debug)

	logger, apiLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	creds, err := client.ReadCredentials(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	httpClient := client.NewHTTPClient(cfg, apiLogger,
		time.Duration(cfg.API.RequestTimeout)*time.Millisecond)
	apiClient := api.NewClient(httpClient, cfg.API.BaseURL, creds.Token, apiLogger)

	stateDir := cfg.Session.StateDir
	if stateDir == "" {
		stateDir = filepath.Join(configDir, "state")
	}

	store, err := session.Open(stateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	viewerID, err := store.Identity(creds.UserID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to resolve viewer identity: %w", err)
	}

	logger.Info("Application initialized",
		zap.String("configDir", configDir),
		zap.String("baseURL", cfg.API.BaseURL),
		zap.Bool("authenticated", creds.Token != ""))

	return &App{
		Config:     cfg,
		Logger:     logger,
		APILogger:  apiLogger,
		API:        apiClient,
		Session:    store,
		ViewerID:   viewerID,
		LogManager: logManager,
	}, nil
}

// Cleanup releases the app's resources.
func (a *App) Cleanup() {
	if err := a.Session.Close(); err != nil {
		log.Printf("Failed to close session store: %v", err)
	}
	if err := a.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}
	if err := a.APILogger.Sync(); err != nil {
		log.Printf("Failed to sync API logger: %v", err)
	}
}
