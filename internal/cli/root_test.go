package cli

import (
	"bytes"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/matzehuels/gasket/pkg/buildinfo"
)

func TestSetVersion(t *testing.T) {
	v, c, d := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	defer SetVersion(v, c, d)

	SetVersion("1.0.0", "abc123", "2024-01-01")

	if buildinfo.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", buildinfo.Version, "1.0.0")
	}
	if buildinfo.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", buildinfo.Commit, "abc123")
	}
	if buildinfo.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", buildinfo.Date, "2024-01-01")
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	sort.Strings(names)

	want := "cache,completion,generate,inspect,runs,serve"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("subcommands = %s, want %s", got, want)
	}
}

func TestVersionFlag(t *testing.T) {
	v, c, d := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	defer SetVersion(v, c, d)
	SetVersion("v9.9.9", "deadbeef", "2025-01-01")

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out.String(), "gasket version v9.9.9") || !strings.Contains(out.String(), "deadbeef") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", t.TempDir() + "/missing.toml", "cache", "path"})
	if err := root.Execute(); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}
