// Package logging builds the process logger.
//
// stdout carries the MCP stdio transport, so every log line goes to
// stderr.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/friendlens/friendlens/internal/config"
)

// New builds a JSON production logger at the level named in s.LogLevel.
// An empty level means info.
func New(s config.Settings) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if s.LogLevel != "" {
		l, err := zapcore.ParseLevel(s.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger.Named("friendlens"), nil
}
