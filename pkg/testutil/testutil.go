// Package testutil provides testing utilities for rxpool
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/rxpool/pkg/logger"
)

// UseTestLogger routes the global logger to the test output until the
// test completes. Loggers derived before the call keep their old core.
func UseTestLogger(t *testing.T) {
	t.Helper()
	replaceGlobal(t, zaptest.NewLogger(t))
}

// ObserveLogs captures global log entries at or above level until the
// test completes.
func ObserveLogs(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	replaceGlobal(t, zap.New(core))
	return logs
}

func replaceGlobal(t *testing.T, l *zap.Logger) {
	prev := logger.Get()
	logger.Set(l)
	t.Cleanup(func() { logger.Set(prev) })
}

// TestContext creates a test context with a 30-second timeout that is
// cancelled when the test completes.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// AssertEventually asserts that a condition becomes true within the specified timeout.
// It checks the condition every 10ms until it succeeds or the timeout expires.
func AssertEventually(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v: %s", timeout, msg)
}
