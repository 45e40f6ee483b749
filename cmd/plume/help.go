package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  fix         Normalize French typography in manuscripts")
	fmt.Fprintln(w, "  split       Split a manuscript into chapter files or library rows")
	fmt.Fprintln(w, "  join        Reassemble chapters into a single manuscript")
	fmt.Fprintln(w, "  import      Import a manuscript into the library")
	fmt.Fprintln(w, "  chapters    List the chapters of a manuscript or library book")
	fmt.Fprintln(w, "  books       List or delete library books")
	fmt.Fprintln(w, "  export      Export to EPUB, HTML, PDF, or markdown")
	fmt.Fprintln(w, "  doctor      Check system requirements for exporting")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'plume help <command>' for details on a specific command.")
}

// printFixUsage prints usage for the fix command.
func printFixUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume fix [files...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Normalize French typography: straight quotes become guillemets with")
	fmt.Fprintln(w, "dialogue state carried across lines, spacing inside emphasis markers")
	fmt.Fprintln(w, "is collapsed, and emphasis moves outside adjacent guillemets.")
	fmt.Fprintln(w, "Code blocks, inline code, and YAML front matter are left untouched.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without arguments, reads stdin and writes the fixed text to stdout.")
	fmt.Fprintln(w, "Directories are searched recursively for .md and .markdown files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -w, --write               Rewrite changed files in place")
	fmt.Fprintln(w, "      --check               List files needing fixes, exit 1 if any")
	fmt.Fprintln(w, "      --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printSplitUsage prints usage for the split command.
func printSplitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume split <manuscript.md> [output-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Split a manuscript into one file per chapter.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chapters start at '#### ' heading lines. Files are numbered and")
	fmt.Fprintln(w, "named after their chapter titles, next to a book.yaml metadata")
	fmt.Fprintln(w, "file. The output directory defaults to the manuscript name.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --db <book>           Replace the chapters of a library book")
	fmt.Fprintln(w, "                            instead of writing files")
	fmt.Fprintln(w, "      --library <path>      Library database path")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printJoinUsage prints usage for the join command.
func printJoinUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume join <dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reassemble chapter files into a single manuscript with YAML front")
	fmt.Fprintln(w, "matter. Chapter files are read in name order; book.yaml provides")
	fmt.Fprintln(w, "the metadata.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --db <book>           Read chapters from a library book")
	fmt.Fprintln(w, "                            instead of a directory")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --library <path>      Library database path")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printImportUsage prints usage for the import command.
func printImportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume import <manuscript.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Import a manuscript into the library as a new book. Metadata comes")
	fmt.Fprintln(w, "from the YAML front matter; the title falls back to the file name.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --library <path>      Library database path")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printChaptersUsage prints usage for the chapters command.
func printChaptersUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume chapters [manuscript.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the chapters of a manuscript file or a library book, with")
	fmt.Fprintln(w, "word counts and totals.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --book <ref>          Library book ID or title")
	fmt.Fprintln(w, "      --library <path>      Library database path")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printBooksUsage prints usage for the books command.
func printBooksUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume books [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the books in the library, most recently updated first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --delete <ref>        Delete the book with this ID or title")
	fmt.Fprintln(w, "      --library <path>      Library database path")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show book IDs and chapter counts")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume export [manuscript.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export a manuscript or library book to EPUB, HTML, PDF, or markdown.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -f, --format <s>          Format: epub, html, pdf, markdown (default: pdf)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "      --book <ref>          Export a library book by ID or title")
	fmt.Fprintln(w, "      --all                 Export every book in the library")
	fmt.Fprintln(w, "      --library <path>      Library database path")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata:")
	fmt.Fprintln(w, "      --title <s>           Book title")
	fmt.Fprintln(w, "      --author <s>          Author name")
	fmt.Fprintln(w, "      --language <s>        Book language (BCP 47 tag)")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Paris, le] D MMMM YYYY")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page (PDF only):")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Stylesheet name or CSS file path")
	fmt.Fprintln(w, "      --css <path>          Extra CSS appended after the stylesheet")
	fmt.Fprintln(w, "      --asset-dir <path>    Custom asset directory")
	fmt.Fprintln(w, "      --watermark <s>       Diagonal watermark text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Processing:")
	fmt.Fprintln(w, "      --base-dir <path>     Base directory for relative image paths")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel exports for --all (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-export timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w, "      --no-fix              Skip the typographic pipeline")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plume doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the system is ready to export: browser availability,")
	fmt.Fprintln(w, "configuration, library, stylesheets, and environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output diagnostics as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "fix":
		printFixUsage(env.Stdout)
	case "split":
		printSplitUsage(env.Stdout)
	case "join":
		printJoinUsage(env.Stdout)
	case "import":
		printImportUsage(env.Stdout)
	case "chapters":
		printChaptersUsage(env.Stdout)
	case "books":
		printBooksUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: plume version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: plume help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
