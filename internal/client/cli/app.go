// Package cli is the interactive admissions console. It wires the local
// store, the REST client, the connectivity monitor and the sync engine, and
// drives them from a small REPL.
package cli

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/mgichure/EMIS/internal/client/api"
	"github.com/mgichure/EMIS/internal/client/config"
	"github.com/mgichure/EMIS/internal/client/connectivity"
	"github.com/mgichure/EMIS/internal/client/services"
	"github.com/mgichure/EMIS/internal/client/store"
	syncengine "github.com/mgichure/EMIS/internal/client/sync"
	"github.com/mgichure/EMIS/internal/common"
	"github.com/mgichure/EMIS/internal/logging"
)

type App struct {
	config  *config.Config
	store   *store.Store
	client  *api.Client
	monitor *connectivity.Monitor
	engine  *syncengine.Engine
	logger  logging.Logger

	admissions services.AdmissionsService
	documents  services.DocumentService
	catalog    services.CatalogService
	interviews services.InterviewService
	auth       services.AuthService

	reader   *bufio.Reader
	userName string

	// pending mirrors the outbox depth for the prompt, refreshed by
	// watchQueueDepth so the REPL never queries per keystroke.
	pending atomic.Int64
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	st, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout)
	monitor := connectivity.NewMonitor(client, cfg.OnlineCheckInterval, logger)
	engine := syncengine.New(st, client, monitor.Online, logger)

	app := &App{
		config:     cfg,
		store:      st,
		client:     client,
		monitor:    monitor,
		engine:     engine,
		logger:     logger,
		admissions: services.NewAdmissionsService(st),
		documents:  services.NewDocumentService(st),
		catalog:    services.NewCatalogService(st),
		interviews: services.NewInterviewService(st),
		auth:       services.NewAuthService(client, st),
		reader:     bufio.NewReader(os.Stdin),
	}

	// Regaining the connection drains whatever queued up while offline.
	monitor.OnOnline(func(ctx context.Context) {
		go func() {
			if _, err := engine.SyncNow(context.Background()); err != nil {
				logger.Error(ctx, "sync after reconnect failed", "error", err)
			}
		}()
	})

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// restoreSession picks up a cached sign-in from the previous run.
func (a *App) restoreSession(ctx context.Context) {
	if err := a.auth.Restore(ctx); err != nil {
		if !errors.Is(err, common.ErrTokenExpired) {
			a.logger.Error(ctx, "session restore failed", "error", err)
		}
		return
	}
	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return
	}
	a.userName = user
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.store.Close()

	a.restoreSession(ctx)

	go a.monitor.Start(ctx)
	go a.engine.StartPeriodic(ctx, a.config.SyncInterval)
	go a.watchQueueDepth(ctx)

	printFn("EMIS admissions console (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// watchQueueDepth consumes outbox change notifications and keeps the
// prompt's pending counter current. Runs until ctx is cancelled.
func (a *App) watchQueueDepth(ctx context.Context) {
	ch := a.store.Notifier.Subscribe(store.TopicOutbox)
	a.refreshQueueDepth(ctx)
	for {
		select {
		case <-ch:
			a.refreshQueueDepth(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) refreshQueueDepth(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if n, err := a.store.Repos.Outbox.PendingCount(ctx); err == nil {
		a.pending.Store(int64(n))
	}
}

// status builds the prompt decoration: user, connectivity and queue depth.
func (a *App) status() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.monitor.Online() {
		s += "online"
	} else {
		s += "offline"
	}
	if n := a.pending.Load(); n > 0 {
		s += " " + pendingLabel(int(n))
	}
	return "(" + s + ")"
}

// NewDefaultLogger builds the app's text logger on stderr.
func NewDefaultLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}
