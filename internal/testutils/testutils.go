// Package testutils provides simplified testing utilities and helper functions
package testutils

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// NewTestLogger returns a debug-level logger that records entries instead of printing them
func NewTestLogger() (*logrus.Logger, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// Messages returns the message of every entry captured by hook
func Messages(hook *logtest.Hook) []string {
	entries := hook.AllEntries()
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// WaitClosed fails the test if ch is not closed within timeout
func WaitClosed(t testing.TB, ch <-chan struct{}, timeout time.Duration, msgAndArgs ...interface{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		if len(msgAndArgs) > 0 {
			if format, ok := msgAndArgs[0].(string); ok {
				t.Fatalf(format, msgAndArgs[1:]...)
			}
		}
		t.Fatalf("timed out after %v", timeout)
	}
}

// RunWithTimeout runs fn on its own goroutine and fails the test if it does not return within timeout
func RunWithTimeout(t testing.TB, timeout time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	WaitClosed(t, done, timeout, "function did not return within %v", timeout)
}
