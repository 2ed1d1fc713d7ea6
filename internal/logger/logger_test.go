/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package logger_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"bennypowers.dev/tokenstore/internal/logger"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(zapcore.InfoLevel)
	})

	logger.SetLevel(zapcore.WarnLevel)
	logger.Info("hidden %d", 1)
	logger.Warn("unresolved %s", "color.base")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "warn: unresolved color.base") {
		t.Errorf("expected warning line, got %q", out)
	}

	buf.Reset()
	logger.SetLevel(zapcore.DebugLevel)
	logger.Debug("edge %s", "a->b")
	if !strings.Contains(buf.String(), "debug: edge a->b") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	l, err := logger.ParseLevel("debug")
	if err != nil || l != zapcore.DebugLevel {
		t.Errorf("ParseLevel(debug) = %v, %v", l, err)
	}
	if _, err := logger.ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
