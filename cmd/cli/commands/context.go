package commands

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/clients/gmailclient"
	"github.com/jakechorley/peninsula-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/peninsula-roster/pkg/db"
	"github.com/jakechorley/peninsula-roster/pkg/postgres"
	"github.com/jakechorley/peninsula-roster/pkg/utils/logging"
)

// ErrNoDatabase is returned by commands that need stored runs when none is configured
var ErrNoDatabase = errors.New("no database configured, set databaseURL or ROSTER_DATABASE_URL")

// AppContext holds the application dependencies shared across all commands.
// Clients are created on first use so generate never needs OAuth or a database.
type AppContext struct {
	Env     string
	Verbose bool

	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context

	database     *postgres.DB
	oauthCfg     *config.OAuthClientConfig
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// Init sets up the logger and loads configuration
func (a *AppContext) Init() error {
	var err error

	a.Logger, err = logging.InitLogger(a.Env, a.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.Logger.Debug("Starting application", zap.String("environment", a.Env))

	a.Cfg, err = config.LoadWithEnv(a.Env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Logger.Debug("Configuration loaded successfully")

	return nil
}

// Store returns the roster store, or nil when no database is configured
func (a *AppContext) Store() (db.RosterStore, error) {
	if a.database != nil {
		return a.database, nil
	}
	if a.Cfg.DatabaseURL == "" {
		return nil, nil
	}

	a.Logger.Debug("Connecting to database")
	database, err := postgres.NewDB(a.Ctx, a.Cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(a.Ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a.database = database
	a.Logger.Debug("Database initialized successfully")
	return a.database, nil
}

// RequireStore is Store for commands that cannot work without a database
func (a *AppContext) RequireStore() (db.RosterStore, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrNoDatabase
	}
	return store, nil
}

// SheetsClient returns the Sheets client, running the OAuth flow if needed
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	oauthCfg, err := a.oauthConfig()
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("Initializing sheets client")
	a.sheetsClient, err = sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return a.sheetsClient, nil
}

// GmailClient returns the Gmail client, sharing the Sheets client's token
func (a *AppContext) GmailClient() (*gmailclient.Client, error) {
	if a.gmailClient != nil {
		return a.gmailClient, nil
	}

	sheets, err := a.SheetsClient()
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("Initializing gmail client")
	a.gmailClient, err = gmailclient.NewClient(a.Ctx, a.oauthCfg, sheets.Token(), a.Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	return a.gmailClient, nil
}

func (a *AppContext) oauthConfig() (*config.OAuthClientConfig, error) {
	if a.oauthCfg != nil {
		return a.oauthCfg, nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	a.oauthCfg = oauthCfg
	return oauthCfg, nil
}

// Close releases the database pool and flushes the logger
func (a *AppContext) Close() {
	if a.database != nil {
		a.database.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
