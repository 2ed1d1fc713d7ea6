/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides a configurable package-level logger that can be
// silenced when the store is embedded in another host.
package logger

import (
	"io"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	current atomic.Pointer[zap.SugaredLogger]
)

func init() {
	SetOutput(os.Stderr)
}

func build(w io.Writer) *zap.SugaredLogger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		ConsoleSeparator: ": ",
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	current.Store(build(w))
}

// SetLevel sets the minimum level that is written.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// ParseLevel parses "debug", "info", "warn" or "error".
func ParseLevel(s string) (zapcore.Level, error) {
	return zapcore.ParseLevel(s)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	current.Load().Warnf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	current.Load().Infof(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	current.Load().Debugf(format, args...)
}

// Sync flushes buffered output.
func Sync() error {
	return current.Load().Sync()
}
