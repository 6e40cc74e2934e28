// Package storesrv wires the table-store service together: database,
// HTTP endpoint and the optional backup snapshotter.
package storesrv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dvelarde/vigia/internal/logging"
	"github.com/dvelarde/vigia/internal/storesrv/backup"
	"github.com/dvelarde/vigia/internal/storesrv/config"
	"github.com/dvelarde/vigia/internal/storesrv/db"
	"github.com/dvelarde/vigia/internal/storesrv/httpapi"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	manager     *db.Manager
	server      *httpapi.Server
	snapshotter *backup.Snapshotter
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := db.NewManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	server := httpapi.NewServer(cfg.Addr, manager, cfg.APIKey, cfg.SecretKey, logger)

	app := &App{config: cfg, logger: logger, manager: manager, server: server}
	if cfg.BackupEnabled {
		app.snapshotter = backup.NewSnapshotter(manager, cfg, logger)
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting store service...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	if app.snapshotter != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.snapshotter.Run(ctx)
		}()
	}

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
