package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
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
	broker   *ChangeBroker
	cleanups []func()
	workers  []func(context.Context) error
}

// NewApp provides an instance of App.
//
//nolint:funlen
func NewApp() (AppProvider, error) {
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	// ensure the logs folder exists and Setup the logging module.
	err = os.MkdirAll(config.LogFolder, 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	clock := NewClock(config.IsProduction)
	logWriter := NewRSyncWriter(config, clock)
	logger, flusher := SetupLogging(config, logWriter, NewTickClock(clock))

	app := &App{logger: logger, config: config}
	app.cleanups = append(app.cleanups,
		func() {
			if ferr := flusher(); ferr != nil {
				fmt.Println("error during flushing of logs: ", ferr)
			}
		},
		func() {
			if cerr := logWriter.Close(); cerr != nil {
				fmt.Println("error during closing of log file: ", cerr)
			}
		},
	)
	fail := func(format string, err error) (AppProvider, error) {
		app.Clean()
		return nil, fmt.Errorf(format, err)
	}

	// Setup the connection to redis when it holds the books or feeds the backup.
	var redisClient *redis.Client
	if config.Storage.Backend == BackendRedis || config.Backup.Enable {
		redisClient, err = GetRedisClient(&config.Redis)
		if err != nil {
			return fail("failed to connect to redis server: %s", err)
		}
		app.addCloser("redis", redisClient.Close)
	}

	var slot Slot
	switch config.Storage.Backend {
	case BackendBolt:
		boltDBClient, err := GetBoltDBClient(&config.BoltDB)
		if err != nil {
			return fail("failed to open boltDB storage: %s", err)
		}
		slot = NewBoltSlot(logger, &config.BoltDB, boltDBClient)
		app.addCloser("boltdb", slot.Close)
	case BackendRedis:
		slot = NewRedisSlot(logger, redisClient)
	default:
		slot = NewMemorySlot()
	}
	bookStorage := NewSlotBookStorage(logger, slot, config.Storage.Key)

	// Setup the repository and the rendering of the shelf.
	broker := NewChangeBroker()
	app.broker = broker
	repo := NewBookRepository(logger, NewBookIDGenerator(clock), bookStorage, broker)
	view := NewShelfView(clock)
	renderer := NewRenderCoordinator(logger, repo, view.RenderIncomplete, view.RenderComplete)
	broker.Attach(renderer)

	// Setup the change feed which mirrors the collection into the backup.
	if config.Backup.Enable {
		backupClient, err := GetBoltDBClient(&BoltDBConfig{
			FilePath:   config.Backup.FilePath,
			Timeout:    config.BoltDB.Timeout,
			BucketName: config.Backup.BucketName,
		})
		if err != nil {
			return fail("failed to open backup storage: %s", err)
		}
		backupSlot := NewBoltSlot(logger, &BoltDBConfig{BucketName: config.Backup.BucketName, FilePath: config.Backup.FilePath}, backupClient)
		app.addCloser("backup", backupSlot.Close)
		backupStorage := NewSlotBookStorage(logger, backupSlot, config.Storage.Key)

		queue := NewRedisQueue(redisClient)
		consumer := NewBackupConsumer(logger, queue, bookStorage, backupStorage)
		feedChanges, _ := broker.Subscribe(64)
		app.workers = append(app.workers,
			func(ctx context.Context) error {
				return ForwardChanges(ctx, logger, feedChanges, queue, config.Backup.Queue)
			},
			func(ctx context.Context) error {
				return consumer.Consume(ctx, config.Backup.Queue)
			},
		)
	}

	if err = repo.Load(context.Background()); err != nil {
		return fail("failed to load books: %s", err)
	}

	shelf := NewShelfService(logger, repo, renderer, view)
	apiService := NewAPIHandler(
		logger,
		config,
		&Statistics{
			version:   config.GitTag,
			container: IsAppRunningInDocker(),
			started:   clock.Now(),
			runtime:   runtime.Version(),
			platform:  runtime.GOOS + "/" + runtime.GOARCH,
		},
		clock,
		NewIDsHandler(),
		shelf,
	)

	// Use git commit in case the tag is not set.
	if config.GitTag == "" {
		apiService.stats.version = config.GitCommit
	}

	// Build the map of middlewares stacks.
	middlewaresPublic, middlewaresOps := apiService.MiddlewaresStacks()

	// Configure the endpoints with their handlers and middlewares.
	router := apiService.SetupRoutes(httprouter.New(),
		&MiddlewareMap{
			public: middlewaresPublic.Chain,
			ops:    middlewaresOps.Chain,
		},
	)

	// Build the api server definition.
	app.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
		Handler:        router,
		ReadTimeout:    config.Server.ReadTimeout,
		WriteTimeout:   config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // Max headers size : 1MB
	}

	return app, nil
}

// addCloser registers a resource to release during cleanup.
func (app *App) addCloser(name string, closer func() error) {
	app.cleanups = append(app.cleanups, func() {
		if err := closer(); err != nil {
			app.logger.Error("failed to close resource", zap.String("resource", name), zap.Error(err))
		}
	})
}

// Run starts the api web server and a goroutine which is responsible to stop it.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.RunWorkers(gCtx, g))
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

// Clean calls all registered cleanups functions in reverse order.
func (app *App) Clean() {
	for i := len(app.cleanups) - 1; i >= 0; i-- {
		app.cleanups[i]()
	}
}

// Serve starts the api web server. It returned error
// will be caught by the errorgroup.
func (app *App) Serve() func() error {
	return func() error {
		app.logger.Info("api server starting",
			zap.String("app.host", app.config.Server.Host),
			zap.String("app.port", app.config.Server.Port),
			zap.String("app.storage", app.config.Storage.Backend),
		)
		err := app.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return err
	}
}

// Stop listens for the group context and triggers the server graceful shutdown.
// It states the reason of its call. We proceed with a brutal shutdown if the
// the graceful did not complete successfully. We explicitly return `nil` to
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
		switch {
		case err == nil, errors.Is(err, http.ErrServerClosed):
			app.logger.Info("api server graceful shutdown succeeded")
		case errors.Is(err, context.DeadlineExceeded):
			app.logger.Info("api server graceful shutdown timed out")
		default:
			app.logger.Info("api server graceful shutdown failed", zap.Error(err))
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Info("api server going to force shutdown", zap.Error(app.server.Close()))
		}
		app.broker.Close()
		return nil
	}
}

// RunWorkers runs the render loop and the change feed workers into
// separate controlled goroutines.
func (app *App) RunWorkers(gCtx context.Context, g *errgroup.Group) func() error {
	return func() error {
		for _, work := range app.workers {
			work := work
			g.Go(func() error {
				return work(gCtx)
			})
		}
		return nil
	}
}
