package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger for the given environment. "production" gets the
// JSON encoder; anything else gets the coloured development console.
func New(environment string, verbose bool) (*zap.Logger, error) {
	var zapCfg zap.Config

	if environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if !verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
	}

	return zapCfg.Build()
}

// Sync flushes buffered entries, ignoring the harmless errors stderr
// returns on some terminals.
func Sync(l *zap.Logger) {
	_ = l.Sync()
}
