package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"

	"powerchat/internal/app"
	"powerchat/pkg/config"
	"powerchat/pkg/logger"
	"powerchat/pkg/shutdown"
)

// build metadata, set via ldflags during release builds
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load(".env")
	addrVal, dataVal, cfgVal, setFlags := config.ParseCommandFlags()

	// Resolve config path (file flag wins over env)
	cfgPath := config.ResolveConfigPath(cfgVal, setFlags["config"])

	cfg, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.Logging.Level)

	// Flags explicitly set win over env/config.
	addr := cfg.Addr()
	if setFlags["addr"] {
		addr = addrVal
	}
	dataPath := dataVal
	if !setFlags["data"] && cfg.Storage.DataPath != "" {
		dataPath = cfg.Storage.DataPath
	}

	var srcs []string
	if setFlags["addr"] || setFlags["data"] {
		srcs = append(srcs, "flags")
	}
	if envUsed {
		srcs = append(srcs, "env")
	}
	srcs = append(srcs, "config")

	a, err := app.New(cfg, addr, dataPath, strings.Join(srcs, ","), version, commit, buildDate)
	if err != nil {
		shutdown.Abort("startup failed", err, dataPath)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		shutdown.Abort("server failed", err, dataPath)
	}
}
