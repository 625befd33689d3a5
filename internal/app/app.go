package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"powerchat/internal/audit"
	"powerchat/pkg/banner"
	"powerchat/pkg/blob"
	"powerchat/pkg/config"
	"powerchat/pkg/logger"
	"powerchat/pkg/rooms"
	"powerchat/pkg/state"
	"powerchat/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	cfg       *config.Config
	addr      string
	dataPath  string
	sources   string
	version   string
	commit    string
	buildDate string

	srv *http.Server
}

// New initializes everything that does not require a running context:
// state dirs, the tree store, the blob store and the room policy table.
// Call Run to start the HTTP server and block until shutdown.
func New(cfg *config.Config, addr, dataPath, sources, version, commit, buildDate string) (*App, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if err := state.EnsureStateDirs(dataPath); err != nil {
		return nil, fmt.Errorf("state layout: %w", err)
	}

	if err := store.Open(state.PathsVar.Store); err != nil {
		return nil, fmt.Errorf("failed to open tree store at %s: %w", state.PathsVar.Store, err)
	}

	base := cfg.Blob.PublicBase
	if base == "" {
		base = "http://" + addr
	}
	blob.Init(state.PathsVar.Images, base)
	rooms.SetPolicy(cfg.Rooms.PowerWindows)

	a := &App{
		cfg:       cfg,
		addr:      addr,
		dataPath:  dataPath,
		sources:   sources,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
	}
	return a, nil
}

// Run starts the audit scheduler and the HTTP server, and blocks until
// ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	auditCancel, err := audit.Start(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer auditCancel()

	a.printBanner()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		a.stop()
		return nil
	case err := <-errCh:
		a.stop()
		return err
	}
}

// stop shuts the HTTP server down gracefully and closes the store.
func (a *App) stop() {
	if a.srv != nil {
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shutCtx); err != nil {
			logger.Warn("http_shutdown_failed", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Warn("store_close_failed", "error", err)
	}
	logger.Info("server_stopped")
}

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	verStr := a.version
	if a.commit != "none" && a.commit != "" {
		verStr += " (" + a.commit + ")"
	}
	if a.buildDate != "unknown" && a.buildDate != "" {
		verStr += " @ " + a.buildDate
	}
	banner.Print(a.addr, a.dataPath, a.sources, verStr)
}
