package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/metcalfc/pacer/internal/config"
	"github.com/metcalfc/pacer/internal/library"
)

func getLogFilePath(env config.Env) string {
	if env.LogFile != "" {
		return env.LogFile
	}
	return filepath.Join(library.StateDir(), config.Name+".log")
}

// setupLog discards logs unless PACER_DEBUG or PACER_LOG_FILE is set, in
// which case they go to a file since the reader owns the terminal.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	env, err := config.ReadEnv()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	if !env.Debug && env.LogFile == "" {
		return func() error { return nil }, nil
	}

	logFile := getLogFilePath(env)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	if env.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return f.Close, nil
}
