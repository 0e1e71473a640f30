// Package logging adapts zap to the runtime.Logger interface so the same
// handler code logs identically inside Nakama and in the standalone host.
package logging

import (
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger implements runtime.Logger on top of a sugared zap logger.
type Logger struct {
	sugar  *zap.SugaredLogger
	fields map[string]interface{}
}

var _ runtime.Logger = (*Logger)(nil)

// New builds a JSON logger at the given level ("debug", "info", "warn", "error").
func New(level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return Wrap(base), nil
}

// Wrap adapts an existing zap logger.
func Wrap(base *zap.Logger) *Logger {
	return &Logger{sugar: base.Sugar(), fields: map[string]interface{}{}}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }

func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		merged[k] = v
		args = append(args, k, v)
	}
	return &Logger{sugar: l.sugar.With(args...), fields: merged}
}

func (l *Logger) Fields() map[string]interface{} {
	return l.fields
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
