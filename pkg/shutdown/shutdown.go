package shutdown

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"powerchat/pkg/logger"
)

type exitRequest struct {
	Time      string `json:"time"`
	Reason    string `json:"reason"`
	Cmd       string `json:"cmd"`
	CrashPath string `json:"crash_path,omitempty"`
}

// WithSignals returns a context canceled on SIGINT/SIGTERM.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Abort logs a fatal startup error, writes diagnostics under the data
// path and exits. A short delay gives log sinks time to flush.
func Abort(contextMsg string, err error, dataPath string) {
	logger.Error("startup_fatal", "msg", contextMsg, "error", err)
	dumpPath, derr := writeDiagnostics(dataPath, contextMsg, err)
	if derr != nil {
		logger.Error("write_crash_dump_failed", "error", derr)
		fmt.Fprintf(os.Stderr, "FAILED TO WRITE CRASH DUMP: %v\n", derr)
	} else {
		logger.Info("wrote_crash_dump", "path", dumpPath)
		fmt.Fprintf(os.Stderr, "CRASH DUMP WRITTEN: %s\n", dumpPath)
	}
	time.Sleep(2 * time.Second)
	os.Exit(2)
}

// writeDiagnostics writes a stack dump and a machine-readable exit request
// under <dataPath>/state/crash.
func writeDiagnostics(dataPath, reason string, cause error) (string, error) {
	crashDir := "./crash"
	if dataPath != "" {
		crashDir = filepath.Join(dataPath, "state", "crash")
	}
	if err := os.MkdirAll(crashDir, 0o700); err != nil {
		return "", err
	}
	stamp := time.Now().UTC().Format("20060102T150405Z")
	dumpPath := filepath.Join(crashDir, "crash-"+stamp+".txt")

	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	body := fmt.Sprintf("reason: %s\nerror: %v\n\n%s", reason, cause, buf[:n])
	if err := os.WriteFile(dumpPath, []byte(body), 0o600); err != nil {
		return "", err
	}

	req := exitRequest{
		Time:      stamp,
		Reason:    reason,
		Cmd:       filepath.Base(os.Args[0]),
		CrashPath: dumpPath,
	}
	b, _ := json.Marshal(req)
	reqPath := filepath.Join(crashDir, "exit-"+stamp+".json")
	if err := os.WriteFile(reqPath, b, 0o600); err != nil {
		return dumpPath, err
	}
	return dumpPath, nil
}
