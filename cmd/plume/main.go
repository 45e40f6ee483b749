package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// commands lists every plume subcommand.
var commands = []string{
	"fix", "split", "join", "import", "chapters", "books",
	"export", "doctor", "completion", "version", "help",
}

// dataCommands maps manuscript-touching commands to their runners.
// These all honor context cancellation so Ctrl-C stops batch work cleanly.
var dataCommands = map[string]func(context.Context, []string, *Environment) error{
	"fix":      runFix,
	"split":    runSplit,
	"join":     runJoin,
	"import":   runImport,
	"chapters": runChapters,
	"books":    runBooks,
	"export":   runExport,
}

// runMain dispatches the command line and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]

	if !isCommand(cmd) {
		if looksLikeManuscript(cmd) {
			fmt.Fprintf(env.Stderr, "unknown command: %s (did you mean 'plume export %s'?)\n", cmd, cmd)
			return ExitUsage
		}
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	configureMaxProcs(args, env)
	warnUnknownEnvVars(env.Stderr)

	switch cmd {
	case "version":
		fmt.Fprintf(env.Stdout, "plume %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	case "completion":
		return finish(runCompletion(rest, env), env)
	case "doctor":
		return runDoctorCmd(rest, env)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()
	return finish(dataCommands[cmd](ctx, rest, env), env)
}

// finish converts a command error into the process exit code.
// Help requests surface as flag.ErrHelp after pflag already printed usage.
func finish(err error, env *Environment) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	printError(env.Stderr, err)
	return exitCodeFor(err)
}

// printError writes err to w with an actionable hint when one applies.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%v%s\n", err, hintFor(err))
}

// hintFor returns a hint for errors whose fix is not obvious from the
// message alone. Site-specific hints are appended where the error is
// raised; this covers the cross-cutting ones.
func hintFor(err error) string {
	switch {
	case errors.Is(err, plume.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, plume.ErrStyleNotFound):
		return hints.ForStyleNotFound(plume.StyleNames())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY") {
		return hints.ForLibraryBusy()
	}
	return ""
}

// isCommand reports whether name is a known subcommand. Case-sensitive.
func isCommand(name string) bool {
	for _, c := range commands {
		if name == c {
			return true
		}
	}
	return false
}

// looksLikeManuscript reports whether arg carries a markdown extension,
// catching the common mistake of passing a file where a command belongs.
func looksLikeManuscript(arg string) bool {
	return strings.HasSuffix(arg, ".md") || strings.HasSuffix(arg, ".markdown")
}

// configureMaxProcs aligns GOMAXPROCS with the container CPU quota.
// Errors are ignored: maxprocs.Set only fails on an invalid GOMAXPROCS
// env var, in which case runtime defaults apply and the program
// continues safely.
func configureMaxProcs(args []string, env *Environment) {
	if hasVerboseFlag(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, fmtArgs ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", fmtArgs...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// hasVerboseFlag scans raw args for -v/--verbose before any FlagSet runs.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
