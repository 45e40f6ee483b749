package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/config"
	"github.com/jojo1992341/plume/internal/store"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo  `json:"chrome"`
	Config   configInfo  `json:"config"`
	Library  libraryInfo `json:"library"`
	Styles   []string    `json:"styles"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// configInfo holds config file detection results.
type configInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// libraryInfo holds library database detection results.
type libraryInfo struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Books  int    `json:"books"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"no_sandbox"`
	BrowserBin    string `json:"browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Styles: plume.StyleNames(),
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("PLUME_NO_SANDBOX"),
			BrowserBin: os.Getenv("PLUME_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkConfig(result)
	checkLibrary(result)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects the Chrome/Chromium installation used for PDF export.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		// Use rod's launcher to locate Chrome
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set PLUME_BROWSER_BIN")
			return
		}
	}

	// Verify it exists
	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	// Get version by running chrome --version
	cmd := exec.Command(chromePath, "--version")
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	// Sandbox status: disabled if PLUME_NO_SANDBOX=1
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkConfig looks for a config file in the standard search locations.
// Missing config is not a problem; defaults apply.
func checkConfig(result *doctorResult) {
	for _, p := range config.SearchPaths(config.DefaultConfigName) {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			result.Config.Found = true
			result.Config.Path = p
			break
		}
	}

	if result.Config.Found {
		if _, err := config.LoadDefault(); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Config file %s is invalid: %v", result.Config.Path, err))
		}
	}
}

// checkLibrary locates the library database and counts its books. The
// database is only opened when the file already exists, so doctor never
// creates one as a side effect.
func checkLibrary(result *doctorResult) {
	path := os.Getenv("PLUME_LIBRARY")
	if path == "" {
		if cfg, err := config.LoadDefault(); err == nil && cfg.Library.Path != "" {
			path = cfg.Library.Path
		}
	}
	if path == "" {
		var err error
		path, err = config.DefaultLibraryPath()
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not resolve library path: %v", err))
			return
		}
	}
	result.Library.Path = path

	if _, err := os.Stat(path); err != nil {
		// Not created yet; import will create it.
		return
	}
	result.Library.Exists = true

	st, err := store.Open(path)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Library %s cannot be opened: %v", path, err))
		return
	}
	defer st.Close()

	books, err := st.ListBooks(context.Background())
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Library %s cannot be read: %v", path, err))
		return
	}
	result.Library.Books = len(books)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	// Detect container (multi-signal approach)
	result.Env.Container, result.Env.ContainerHint = isContainer()

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	// Warn if container/CI without sandbox disabled
	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but PLUME_NO_SANDBOX not set. Set PLUME_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("PLUME_CONTAINER") == "1" {
		return true, "PLUME_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	// Check temp directory is writable
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "plume-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "plume doctor")
	fmt.Fprintln(w)

	// Chrome section
	fmt.Fprintln(w, "Chrome/Chromium (PDF export)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (PLUME_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Configuration")
	if r.Config.Found {
		fmt.Fprintf(w, "  [OK] Found %s\n", r.Config.Path)
	} else {
		fmt.Fprintln(w, "  [OK] No config file (defaults apply)")
	}
	fmt.Fprintln(w)

	// Library section
	fmt.Fprintln(w, "Library")
	if r.Library.Exists {
		fmt.Fprintf(w, "  [OK] %s (%d books)\n", r.Library.Path, r.Library.Books)
	} else if r.Library.Path != "" {
		fmt.Fprintf(w, "  [OK] Not created yet (%s)\n", r.Library.Path)
	}
	fmt.Fprintln(w)

	// Styles section
	fmt.Fprintln(w, "Stylesheets")
	fmt.Fprintf(w, "  [OK] Embedded: %s\n", strings.Join(r.Styles, ", "))
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to export")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
