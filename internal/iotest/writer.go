// Package iotest routes output produced during tests to the test log.
package iotest

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

var _newline = []byte("\n")

// Writer builds an io.Writer that writes to the given testing.TB.
func Writer(t testing.TB) io.Writer {
	return &writer{t}
}

type writer struct{ t testing.TB }

func (w *writer) Write(b []byte) (int, error) {
	w.t.Logf("%s", bytes.TrimSuffix(b, _newline))
	return len(b), nil
}

// Logger builds a logger that writes to the given testing.TB.
// All levels are logged.
func Logger(t testing.TB) *log.Logger {
	logger := log.NewWithOptions(Writer(t), log.Options{
		ReportTimestamp: false,
		Level:           log.DebugLevel,
	})
	return logger
}
