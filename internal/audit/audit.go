// Package audit periodically reconciles the user directory: the `users`
// listing should hold one entry per stored user record. Because listing
// appends from other processes are uncoordinated, drift is possible; the
// audit observes and reports it rather than repairing it.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"powerchat/pkg/config"
	"powerchat/pkg/directory"
	"powerchat/pkg/logger"
)

// Start launches the audit scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg *config.Config) (context.CancelFunc, error) {
	if !cfg.Audit.Enabled {
		logger.Info("audit_disabled")
		return func() {}, nil
	}
	cronExpr := cfg.Audit.Cron
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("audit_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid audit cron expression: %s", cronExpr)
	}

	logger.Info("audit_enabled", "cron", cronExpr)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr)
	return cancel, nil
}

// runScheduler sleeps until the next cron tick and runs one audit pass.
func runScheduler(ctx context.Context, cronExpr string) {
	for {
		next, err := gronx.NextTick(cronExpr, false)
		if err != nil {
			logger.Error("audit_next_tick_failed", "cron", cronExpr, "error", err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}
		if err := RunOnce(); err != nil {
			logger.Error("audit_run_failed", "error", err)
		}
	}
}

// RunOnce performs a single reconciliation pass.
func RunOnce() error {
	listing, err := directory.ListAll()
	if err != nil {
		return fmt.Errorf("audit listing read: %w", err)
	}
	records, err := directory.CountRecords()
	if err != nil {
		return fmt.Errorf("audit record count: %w", err)
	}
	if len(listing) != records {
		logger.Warn("directory_drift_detected", "listing", len(listing), "records", records)
		return nil
	}
	logger.Info("directory_audit_ok", "records", records)
	return nil
}
