package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Serve() func() error
	Stop(context.Context, context.Context) func() error
}

type App struct {
	logger   *zap.Logger
	config   *Config
	server   *http.Server
	storage  BookStorage
	cleanups []func()
}

// NewApp provides an instance of App. The wiring order is part of the
// contract: configs, logging, store connection (non-fatal on failure),
// repository, service, handlers, middlewares, routes, server.
func NewApp() (AppProvider, error) {
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	// Ensure the logs folder exists and setup the logging module.
	err = os.MkdirAll(filepath.Dir(config.LogFile), 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging file: %s", err)
	}
	closer := func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Println("error during closing of log file: ", cerr)
		}
	}
	logger, flusher := SetupLogging(config, logFile)

	// Setup the store connection and the repository.
	storage, err := SetupBookStorage(context.Background(), logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to setup the book storage: %s", err)
	}

	// Setup the api service and routing.
	clock := NewClock(config.IsProduction)
	bookService := NewBookService(logger, config, clock, storage)
	apiService := NewAPIHandler(
		logger,
		config,
		&Statistics{version: config.GitTag, started: clock.Now()},
		clock,
		NewIDsHandler(),
		bookService,
	)

	// Use git commit in case the tag is not set.
	if config.GitTag == "" {
		apiService.stats.version = config.GitCommit
	}

	// Build the api server definition.
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
		Handler:        apiService.Handler(),
		ReadTimeout:    config.Server.ReadTimeout,
		WriteTimeout:   config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // Max headers size : 1MB
	}

	return &App{
		logger:  logger,
		config:  config,
		server:  srv,
		storage: storage,
		cleanups: []func(){
			flusher,
			closer,
		},
	}, nil
}

// SetupBookStorage builds the configured storage backend. With the
// document store backend, an unreachable server is logged but not
// fatal: the api keeps serving and store-touching requests answer 500
// until the store comes back.
func SetupBookStorage(ctx context.Context, logger *zap.Logger, config *Config) (BookStorage, error) {
	switch config.Storage.Backend {
	case BackendBolt:
		client, err := GetBoltDBClient(config)
		if err != nil {
			return nil, err
		}
		logger.Info("storage: using embedded bolt backend", zap.String("storage.path", config.BoltDB.FilePath))
		return NewBoltBookStorage(logger, &config.BoltDB, client), nil

	case BackendMongo:
		client, err := GetMongoClient(ctx, config)
		if client == nil {
			return nil, err
		}
		storage := NewMongoBookStorage(logger, config, client)
		if err != nil {
			logger.Error("storage: mongo server unreachable. serving without persistence", zap.Error(err))
			return storage, nil
		}
		if err := storage.EnsureIndexes(ctx); err != nil {
			logger.Error("storage: failed to ensure the isbn unique index", zap.Error(err))
		}
		logger.Info("storage: using mongo backend", zap.String("storage.database", config.Mongo.Database))
		return storage, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q", config.Storage.Backend)
	}
}

// Run starts the api web server and a goroutine which is responsible to stop it.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.Serve())
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("api server stopped",
		zap.String("app.host", app.config.Server.Host),
		zap.String("app.port", app.config.Server.Port),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Serve starts the api web server. Its returned error
// will be caught by the errorgroup.
func (app *App) Serve() func() error {
	return func() error {
		app.logger.Info("api server starting",
			zap.String("app.host", app.config.Server.Host),
			zap.String("app.port", app.config.Server.Port),
			zap.String("app.storage", app.config.Storage.Backend),
		)
		err := app.server.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		return err
	}
}

// Stop listens for the group context and triggers the server graceful shutdown.
// It states the reason of its call. We proceed with a brutal shutdown if the
// graceful one did not complete successfully. We explicitly return `nil` to
// allow the errorgroup catches only the `Serve` method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("api server stopping. reason: requested to stop")
		} else {
			app.logger.Info("api server stopping. reason: errored at running")
		}

		sCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		err := app.server.Shutdown(sCtx)
		switch err {
		case nil, http.ErrServerClosed:
			app.logger.Info("api server graceful shutdown succeeded")
		case context.DeadlineExceeded:
			app.logger.Info("api server graceful shutdown timed out")
		default:
			app.logger.Info("api server graceful shutdown failed", zap.Error(err))
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Info("api server going to force shutdown", zap.Error(app.server.Close()))
		}

		if err := app.storage.Close(sCtx); err != nil {
			app.logger.Error("failed to close the book storage", zap.Error(err))
		}
		return nil
	}
}
