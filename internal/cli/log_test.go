package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("routed") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("candidate") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("candidate") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)

	if prog.elapsed() < 5*time.Millisecond {
		t.Errorf("elapsed() = %v, want at least 5ms", prog.elapsed())
	}
	prog.done("Search complete")
	if !strings.Contains(buf.String(), "Search complete (") {
		t.Errorf("done() output %q should contain message and duration", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the stored logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
	//nolint:staticcheck // withLogger accepts a nil parent.
	if got := loggerFromContext(withLogger(nil, custom)); got != custom {
		t.Error("withLogger(nil, l) should still carry l")
	}
}
