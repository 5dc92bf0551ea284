package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"courier/config"
)

// New builds the process logger from config. Pretty switches to the
// human-readable console encoder for development.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	var zc zap.Config
	if cfg.Pretty {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
