// Package hints suggests fixes for common failures. Every hint renders as
// "\n  hint: <text>" so callers can append it straight to an error message.
package hints

import (
	"os"
	"strings"

	"github.com/jojo1992341/plume/internal/fileutil"
)

// ciVars are set by the CI systems we recognize.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

// IsInContainer reports whether the process runs inside Docker or similar.
// Docker creates /.dockerenv automatically. Var so tests can stub it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests the environment knobs for browser launch
// failures, tailored to CI and container environments.
func ForBrowserConnect() string {
	var suggestions []string

	if (inCI() || IsInContainer()) && os.Getenv("PLUME_NO_SANDBOX") != "1" {
		suggestions = append(suggestions, "set PLUME_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("PLUME_BROWSER_BIN") == "" {
		suggestions = append(suggestions, "set PLUME_BROWSER_BIN to use custom Chrome")
	}

	if len(suggestions) == 0 {
		return ""
	}
	return format(strings.Join(suggestions, "; "))
}

func inCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForTimeout suggests raising the render timeout.
func ForTimeout() string {
	return format("for large books, use --timeout flag")
}

// ForConfigNotFound suggests the --config flag, plus creating the user
// config file when one of the searched paths points there.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/plume.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/plume") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory covers output directory creation failures.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForLibraryBusy covers SQLite busy or locked errors on the library
// database.
func ForLibraryBusy() string {
	return format("another plume process may hold the library open; retry or pass --library")
}

// ForBookNotFound covers unknown library book references.
func ForBookNotFound() string {
	return format("list books with 'plume books' or import one with 'plume import'")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
