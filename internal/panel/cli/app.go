// Package cli implements the operator-facing panel: a small REPL over the
// order, log-book and shared-state services. The UI owns all triggers; the
// engines only expose explicit entry points.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dvelarde/vigia/internal/logbook"
	"github.com/dvelarde/vigia/internal/logging"
	"github.com/dvelarde/vigia/internal/panel/config"
	"github.com/dvelarde/vigia/internal/panel/services"
	"github.com/dvelarde/vigia/internal/session"
	"github.com/dvelarde/vigia/internal/state"
	"github.com/dvelarde/vigia/internal/store"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	session *session.Session
	cache   *state.Cache

	ordersService *services.OrdersService
	stateService  *services.StateService
	book          *logbook.Book

	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", c.TimeZone, err)
	}

	sess := session.New()
	cache := state.NewCache()
	cache.Subscribe(func() {
		logger.Debug(context.Background(), "shared state cache updated")
	})
	client := store.NewClient(c.StoreBaseURL, c.StoreAPIKey, sess, logger)

	app := &App{
		config:        c,
		logger:        logger,
		session:       sess,
		cache:         cache,
		ordersService: services.NewOrdersService(client, loc, logger),
		stateService:  services.NewStateService(client, cache, logger),
		book:          logbook.NewBook(client, cache.Label, sess.User, loc, logger),
		reader:        bufio.NewReader(os.Stdin),
	}
	return app, nil
}

func (a *App) Run(ctx context.Context) {
	go a.startStateRefresher(ctx, a.config.StateRefreshInterval)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Valid(time.Now())
}

// startStateRefresher periodically rehydrates the shared cache so label
// resolution stays close to the remote catalog.
func (a *App) startStateRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.stateService.Rehydrate(refreshCtx); err != nil {
				a.logger.Warn(refreshCtx, "state refresh failed", "error", err)
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
