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
		emit    func(*log.Logger)
		wantOut bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("resolving", "package", "react") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("cache miss", "key", "npm:react") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("cache miss", "key", "npm:react") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("peer missing") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantOut {
				t.Errorf("wrote output = %v, want %v (%q)", got, tt.wantOut, buf.String())
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("fetched", "package", "left-pad", "registry", "npm")

	out := buf.String()
	for _, want := range []string{"fetched", "package=left-pad", "registry=npm"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Resolved 3 packages")

	if !strings.Contains(buf.String(), "Resolved 3 packages (") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestWarnFunc(t *testing.T) {
	var buf bytes.Buffer
	warn := warnFunc(newLogger(&buf, log.InfoLevel))
	warn("catalog %q has no entry for %s", "react18", "react")

	if !bytes.Contains(buf.Bytes(), []byte(`catalog "react18" has no entry for react`)) {
		t.Errorf("warning not logged: %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("WARN")) {
		t.Errorf("warning logged at the wrong level: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should fall back to log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Fatalf("loggerFromContext() = %p, want %p", got, l)
	}
}
