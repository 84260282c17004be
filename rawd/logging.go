package rawd

import (
	"github.com/advdv/rawhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding with an ISO8601 "timestamp" field.
// RAWHTTP_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.LogLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogReadError(err error) {
	l.Logger.Warn("error while reading request", zap.Error(err))
}

func (l zapLogger) LogWriteError(err error) {
	l.Logger.Warn("error while writing response", zap.Error(err))
}

func (l zapLogger) LogAcceptError(err error) {
	l.Logger.Error("error while accepting connection", zap.Error(err))
}

func (l zapLogger) LogRejected(code rawhttp.Code, err error) {
	l.Logger.Info("request rejected", zap.Int("status", int(code)), zap.Error(err))
}

func newZapRawLogger(l *zap.Logger) rawhttp.Logger {
	return zapLogger{l.Named("rawhttp").Named("rawd")}
}
