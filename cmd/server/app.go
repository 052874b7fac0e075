package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/taskmax/taskmax-api/internal/bot"
	"github.com/taskmax/taskmax-api/internal/config"
	"github.com/taskmax/taskmax-api/internal/events"
	"github.com/taskmax/taskmax-api/internal/notification"
	"github.com/taskmax/taskmax-api/internal/platform/logger"
	"github.com/taskmax/taskmax-api/internal/platform/messenger"
	"github.com/taskmax/taskmax-api/internal/platform/postgres"
	"github.com/taskmax/taskmax-api/internal/service"
)

// application holds the wired components of the running server.
type application struct {
	cfg    *config.Config
	db     *sql.DB
	server *http.Server
	poller *messenger.LongPoller
}

// Close releases the application's resources.
func (a *application) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}
}

// initializeApp loads configuration and wires every component of the
// server: storage, services, the event pipeline, the messenger gateway and
// the HTTP API.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"polling_enabled", cfg.Messenger.PollingEnabled)

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db); err != nil {
		return nil, err
	}

	// Storage
	userStore := postgres.NewPostgresUserStore(db, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)

	// Services
	identityService, err := service.NewIdentityService(
		service.NewUserRepositoryAdapter(userStore), appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(appLogger)

	taskService, err := service.NewTaskService(
		service.NewTaskRepositoryAdapter(taskStore, db),
		service.NewUserRepositoryAdapter(userStore),
		emitter,
		appLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	// Messenger transport
	client, err := messenger.NewClient(cfg.Messenger.APIBaseURL, cfg.Messenger.BotToken, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create messenger client: %w", err)
	}

	// Notifications ride on the task lifecycle events.
	listener, err := notification.NewListener(client, identityService, taskService, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification listener: %w", err)
	}
	emitter.RegisterHandler(listener)

	// Command gateway and its polling loop
	var poller *messenger.LongPoller
	if cfg.Messenger.PollingEnabled {
		gateway, err := bot.NewGateway(client, taskService, identityService, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create bot gateway: %w", err)
		}

		pollTimeout := time.Duration(cfg.Messenger.PollTimeoutSeconds) * time.Second
		poller, err = messenger.NewLongPoller(client, gateway, pollTimeout, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create long poller: %w", err)
		}
	}

	router := newRouter(taskService, appLogger)

	return &application{
		cfg: cfg,
		db:  db,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		poller: poller,
	}, nil
}

// openDatabase opens the connection pool and verifies connectivity.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
