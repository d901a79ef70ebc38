package guestbook

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/putto11262002/guestbook/core"
	"github.com/putto11262002/guestbook/internal/api"
	"github.com/putto11262002/guestbook/pkg/logger"
	"github.com/putto11262002/guestbook/pkg/server"
	"github.com/putto11262002/guestbook/store"
)

type App struct {
	config  *Config
	context context.Context
	server  *server.Server
	logger  *slog.Logger

	store   store.Store
	service *core.Service
	api     *api.Api

	cleanupFuncs []func(context.Context)
}

// New builds the HTTP application. The store is opened once and shared by every request.
func New(ctx context.Context, config *Config) (*App, error) {
	var err error
	app := &App{context: ctx}

	if config == nil {
		config, err = LoadConfig(ServerMode)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := config.Validate(); err != nil {
		if msg := FormatValidationErrors(err); msg != "" {
			return nil, fmt.Errorf("invalid config:\n%s", msg)
		}
		return nil, err
	}
	app.config = config

	app.logger = NewLogger(config)

	var cleanup func(context.Context)
	app.store, cleanup, err = OpenStore(ctx, config, app.logger)
	if err != nil {
		return nil, err
	}
	app.AddCleanupFunc(cleanup)

	app.service = core.NewService(app.store, app.logger)
	app.api = api.NewApi(app.service, app.logger)

	app.server = &server.Server{
		Server: &http.Server{
			Addr:    config.Addr(),
			Handler: app.api.Mux(),
		},
		Logger:          app.logger,
		ShutdownTimeout: config.ShutdownTimeout,
	}
	if config.TLSEnabled() {
		app.server.TLSConfig = newTLSConfig()
		app.server.CertFile = config.TLS.Crt
		app.server.KeyFile = config.TLS.Key
	}

	return app, nil
}

// Handler returns the HTTP handler of the application.
func (app *App) Handler() http.Handler {
	return app.api.Mux()
}

// Start serves until the app context is done, then shuts down gracefully.
func (app *App) Start() error {
	app.server.CleanUpFuncs = app.cleanupFuncs
	app.logger.Info(fmt.Sprintf("app running in %s mode on: %s", app.config.Mode, app.config.Addr()),
		slog.String("driver", string(app.config.Store.Driver)))
	return app.server.Start(app.context)
}

// Close releases the resources of an app that was never started.
func (app *App) Close(ctx context.Context) {
	for _, f := range app.cleanupFuncs {
		f(ctx)
	}
}

func (app *App) AddCleanupFunc(f func(context.Context)) {
	app.cleanupFuncs = append(app.cleanupFuncs, f)
}

// NewLogger builds the process logger from the log section of config.
func NewLogger(config *Config) *slog.Logger {
	return logger.New(os.Stdout, logger.Options{
		Level:     config.Log.Level,
		Format:    config.Log.Format,
		AddSource: true,
	})
}
