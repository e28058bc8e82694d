package main

import "go.uber.org/zap"

// newLogger builds the SugaredLogger shared by the build and run commands.
// Debug-level output is only enabled with --verbose; the compiler core
// itself never logs, only this CLI layer and the watch-mode dev server.
func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Sugar()
}
