package logging

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	levelMu      sync.RWMutex
	defaultLevel = logrus.InfoLevel
)

// SetLevel sets the verbosity for loggers created by the default factory.
// Unknown level names are ignored.
func SetLevel(name string) {
	parsed, err := logrus.ParseLevel(name)
	if err != nil {
		return
	}

	levelMu.Lock()
	defer levelMu.Unlock()
	defaultLevel = parsed
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Debug(args ...any) {
	l.entry.Debug(args...)
}

func (l *logrusLogger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Info(args ...any) {
	l.entry.Info(args...)
}

func (l *logrusLogger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Error(args ...any) {
	l.entry.Error(args...)
}

func (l *logrusLogger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) Warn(args ...any) {
	l.entry.Warn(args...)
}

func (l *logrusLogger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Fatal(args ...any) {
	l.entry.Fatal(args...)
}

func (l *logrusLogger) Fatalf(format string, args ...any) {
	l.entry.Fatalf(format, args...)
}

func NewLogger(ctx context.Context) Logger {
	factory := GetLoggerFactory()
	if factory != nil {
		return factory.CreateLogger(ctx)
	}

	return newLogrusLogger(ctx)
}

func newLogrusLogger(ctx context.Context) Logger {
	levelMu.RLock()
	level := defaultLevel
	levelMu.RUnlock()

	logger := logrus.New()
	logger.SetLevel(level)
	return &logrusLogger{entry: logger.WithContext(ctx)}
}
