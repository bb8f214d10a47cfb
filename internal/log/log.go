package log

import (
	golog "github.com/ipfs/go-log/v2"
	"go.uber.org/zap"
)

// Logger is a logger interface.
// keysAndValues are treated as key-value pairs (e.g., "key1", value1, "key2", value2).
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	// With returns a new logger with the given key-value pair.
	With(key string, value interface{}) Logger
	// NewSystem returns a new logger with the given name.
	NewSystem(name string) Logger
}

func NewLoggerIPFS(name string) Logger {
	return &ipfsLogger{
		lg: golog.Logger(name).SugaredLogger.Desugar().WithOptions(zap.AddCallerSkip(1)).Sugar(),
	}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() Logger {
	return &ipfsLogger{lg: zap.NewNop().Sugar()}
}

// SetLevel applies level ("debug", "info", "warn", "error") to every named logger.
func SetLevel(level string) error {
	lvl, err := golog.LevelFromString(level)
	if err != nil {
		return err
	}
	golog.SetAllLoggers(lvl)
	return nil
}

type ipfsLogger struct {
	lg *zap.SugaredLogger
}

func (l *ipfsLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.lg.Debugw(msg, keysAndValues...)
}

func (l *ipfsLogger) Info(msg string, keysAndValues ...interface{}) {
	l.lg.Infow(msg, keysAndValues...)
}

func (l *ipfsLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.lg.Warnw(msg, keysAndValues...)
}

func (l *ipfsLogger) Error(msg string, keysAndValues ...interface{}) {
	l.lg.Errorw(msg, keysAndValues...)
}

func (l *ipfsLogger) With(key string, value interface{}) Logger {
	return &ipfsLogger{lg: l.lg.With(key, value)}
}

func (l *ipfsLogger) NewSystem(name string) Logger {
	return NewLoggerIPFS(name)
}
