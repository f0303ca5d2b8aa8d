package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger for the given environment. local enables debug
// output, development uses the development encoder and anything else gets the
// production JSON logger.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "local":
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return c.Build()
	case "development":
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		return c.Build()
	default:
		return zap.NewProduction()
	}
}
