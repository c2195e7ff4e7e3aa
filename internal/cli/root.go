package cli

import (
	"context"
	"os"

	"github.com/matzehuels/gasket/pkg/buildinfo"
)

// SetVersion sets the version information displayed by --version.
// It overrides the ldflags-injected values in buildinfo and must be called
// before RootCommand.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2025-12-20T14:32:01Z")
func SetVersion(v, c, d string) {
	buildinfo.Version = v
	buildinfo.Commit = c
	buildinfo.Date = d
}

// Execute runs the gasket CLI and returns an error if any command fails.
// Logging goes to stderr at info level, or debug level with --verbose.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
