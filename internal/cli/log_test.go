package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", LogInfo, func(l *log.Logger) { l.Info("Saved run") }, true},
		{"debug at info level", LogInfo, func(l *log.Logger) { l.Debug("rejected random seed") }, false},
		{"debug at debug level", LogDebug, func(l *log.Logger) { l.Debug("rejected random seed") }, true},
		{"warn at info level", LogInfo, func(l *log.Logger) { l.Warn("cache disabled") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressDonef(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).donef("Generated %d circles", 29)

	// "15:04:05.00 INFO Generated 29 circles (0s)" or "(3ms)"
	re := regexp.MustCompile(`^\d\d:\d\d:\d\d\.\d\d INFO Generated 29 circles \((0s|\d+ms)\)\n$`)
	if !re.MatchString(buf.String()) {
		t.Errorf("progress line = %q", buf.String())
	}
}

// runLogged runs the root command with a logger writing to the returned
// buffer.
func runLogged(t *testing.T, args ...string) string {
	t.Helper()
	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return logs.String()
}

func TestGenerateLogs(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "g.json")

	logs := runLogged(t, "generate", "--seed", "4", "--depth", "2", "--no-cache", "-o", out)
	if !strings.Contains(logs, "Generated 29 circles") {
		t.Errorf("generate logs = %q, want the circle count", logs)
	}
	if strings.Contains(logs, "DEBU") {
		t.Errorf("debug lines without -v: %q", logs)
	}

	logs = runLogged(t, "-v", "generate", "--seed", "4", "--depth", "2", "--no-cache", "-o", out)
	if !strings.Contains(logs, "exported artifacts") {
		t.Errorf("verbose logs = %q, want the export debug line", logs)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, LogInfo)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	loggerFromContext(ctx).Info("Starting server", "addr", ":8080")
	if !strings.Contains(buf.String(), "addr=:8080") {
		t.Errorf("attached logger output = %q", buf.String())
	}
}
