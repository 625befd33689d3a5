package app

import (
	"fmt"

	"github.com/adhocore/gronx"

	"powerchat/pkg/config"
)

// validateConfig checks the effective config early so startup fails fast
// with a clear message instead of misbehaving later.
func validateConfig(cfg *config.Config) error {
	if cfg.Security.RateLimit.RPS < 0 {
		return fmt.Errorf("security.rate_limit.rps must not be negative")
	}
	if cfg.Security.RateLimit.Burst < 0 {
		return fmt.Errorf("security.rate_limit.burst must not be negative")
	}
	tls := cfg.Server.TLS
	if (tls.CertFile == "") != (tls.KeyFile == "") {
		return fmt.Errorf("server.tls requires both cert_file and key_file")
	}
	for id, w := range cfg.Rooms.PowerWindows {
		if w.Min < 0 || w.Max > 1 || w.Min > w.Max {
			return fmt.Errorf("rooms.power_windows[%s]: window [%v, %v] out of range", id, w.Min, w.Max)
		}
	}
	if cfg.Audit.Enabled && cfg.Audit.Cron != "" && !gronx.IsValid(cfg.Audit.Cron) {
		return fmt.Errorf("audit.cron: invalid cron expression %q", cfg.Audit.Cron)
	}
	return nil
}
