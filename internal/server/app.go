// Package server initializes and runs the filehost application: it opens the
// database, applies migrations, prepares the upload directory, and serves the
// REST API until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/filehost/internal/dbx"
	"github.com/dmitrijs2005/filehost/internal/logging"
	"github.com/dmitrijs2005/filehost/internal/server/config"
	"github.com/dmitrijs2005/filehost/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filehost/internal/server/rest"
	"github.com/dmitrijs2005/filehost/internal/server/services"
	"github.com/dmitrijs2005/filehost/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	fileService *services.FileService
}

// NewApp prepares everything the server needs. Any failure here is fatal
// for the process; the caller must Close the returned App.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "using the built-in JWT secret; set JWT_SECRET or -s in production")
	}

	db, dialect, err := dbx.Open(ctx, c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "database ready", "dialect", string(dialect))

	disk, err := storage.NewDisk(c.UploadDir)
	if err == nil {
		err = disk.EnsureRoot()
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("upload dir init error: %w", err)
	}
	logger.Info(ctx, "upload directory ready", "path", disk.Root())

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: services.NewUserService(db, rm, c),
		fileService: services.NewFileService(db, rm, disk, c, logger),
	}, nil
}

// Close releases the database pool.
func (app *App) Close() error {
	return app.db.Close()
}

// Reconcile runs a single orphan sweep.
func (app *App) Reconcile(ctx context.Context, dryRun bool) (*services.ReconcileReport, error) {
	return app.fileService.Reconcile(ctx, dryRun)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := rest.NewRESTServer(app.config.Addr(), app.logger, app.userService, app.fileService, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startReconciler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := app.fileService.Reconcile(ctx, false); err != nil && ctx.Err() == nil {
				app.logger.Error(ctx, "reconcile failed", "error", err)
			}
		}
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	if interval := app.config.ReconcileInterval; interval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startReconciler(ctx, interval)
		}()
	}

	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
}
