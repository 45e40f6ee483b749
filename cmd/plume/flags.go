package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"
)

// ErrFlagConflict is returned when mutually exclusive flags are combined.
var ErrFlagConflict = errors.New("conflicting flags")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// bookFlags holds book metadata overrides.
type bookFlags struct {
	title    string
	author   string
	language string
	date     string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// styleFlags holds styling flags.
type styleFlags struct {
	style     string
	css       string
	assetDir  string
	watermark string
}

// fixFlags holds all flags for the fix command.
type fixFlags struct {
	common  commonFlags
	write   bool
	check   bool
	workers int
}

// splitFlags holds all flags for the split command.
type splitFlags struct {
	common  commonFlags
	library string
	book    string
}

// joinFlags holds all flags for the join command.
type joinFlags struct {
	common  commonFlags
	library string
	book    string
	output  string
}

// importFlags holds all flags for the import command.
type importFlags struct {
	common  commonFlags
	library string
}

// chaptersFlags holds all flags for the chapters command.
type chaptersFlags struct {
	common  commonFlags
	library string
	book    string
}

// booksFlags holds all flags for the books command.
type booksFlags struct {
	common  commonFlags
	library string
	delete  string
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common  commonFlags
	book    bookFlags
	page    pageFlags
	style   styleFlags
	library string
	bookRef string
	all     bool
	format  string
	output  string
	baseDir string
	workers int
	timeout string
	noFix   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addBookFlags adds book metadata flags to a FlagSet.
func addBookFlags(fs *flag.FlagSet, f *bookFlags) {
	fs.StringVar(&f.title, "title", "", "book title")
	fs.StringVar(&f.author, "author", "", "author name")
	fs.StringVar(&f.language, "language", "", "book language (BCP 47 tag)")
	fs.StringVar(&f.date, "date", "", "date: \"auto\", \"auto:FORMAT\", or literal")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addStyleFlags adds styling flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet name or CSS file path")
	fs.StringVar(&f.css, "css", "", "extra CSS appended after the stylesheet")
	fs.StringVar(&f.assetDir, "asset-dir", "", "custom asset directory")
	fs.StringVar(&f.watermark, "watermark", "", "diagonal watermark text")
}

// addLibraryFlag adds the library path override to a FlagSet.
func addLibraryFlag(fs *flag.FlagSet, library *string) {
	fs.StringVar(library, "library", "", "library database path")
}

// newFixFlagSet registers the fix command flags into f.
func newFixFlagSet(f *fixFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("fix", flag.ContinueOnError)
	fs.BoolVarP(&f.write, "write", "w", false, "write result back to source files")
	fs.BoolVar(&f.check, "check", false, "list files that need fixing and exit non-zero")
	fs.IntVar(&f.workers, "workers", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	return fs
}

// newSplitFlagSet registers the split command flags into f.
func newSplitFlagSet(f *splitFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	fs.StringVar(&f.book, "db", "", "replace the chapters of a library book instead of writing files")
	addLibraryFlag(fs, &f.library)
	addCommonFlags(fs, &f.common)
	return fs
}

// newJoinFlagSet registers the join command flags into f.
func newJoinFlagSet(f *joinFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	fs.StringVar(&f.book, "db", "", "read chapters from a library book instead of a directory")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	addLibraryFlag(fs, &f.library)
	addCommonFlags(fs, &f.common)
	return fs
}

// newImportFlagSet registers the import command flags into f.
func newImportFlagSet(f *importFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	addLibraryFlag(fs, &f.library)
	addCommonFlags(fs, &f.common)
	return fs
}

// newChaptersFlagSet registers the chapters command flags into f.
func newChaptersFlagSet(f *chaptersFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("chapters", flag.ContinueOnError)
	fs.StringVar(&f.book, "book", "", "library book ID or title")
	addLibraryFlag(fs, &f.library)
	addCommonFlags(fs, &f.common)
	return fs
}

// newBooksFlagSet registers the books command flags into f.
func newBooksFlagSet(f *booksFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("books", flag.ContinueOnError)
	fs.StringVar(&f.delete, "delete", "", "delete the book with this ID or title")
	addLibraryFlag(fs, &f.library)
	addCommonFlags(fs, &f.common)
	return fs
}

// newExportFlagSet registers the export command flags into f.
func newExportFlagSet(f *exportFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringVarP(&f.format, "format", "f", "", "export format: epub, html, pdf, markdown (default: pdf)")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.bookRef, "book", "", "export a library book by ID or title")
	fs.BoolVar(&f.all, "all", false, "export every book in the library")
	fs.StringVar(&f.baseDir, "base-dir", "", "base directory for relative image paths")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel exports for --all (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-export timeout (e.g. 30s, 2m)")
	fs.BoolVar(&f.noFix, "no-fix", false, "skip the typographic pipeline")
	addBookFlags(fs, &f.book)
	addPageFlags(fs, &f.page)
	addStyleFlags(fs, &f.style)
	addLibraryFlag(fs, &f.library)
	addCommonFlags(fs, &f.common)
	return fs
}

// parseFixFlags parses fix command flags and returns positional args.
func parseFixFlags(args []string) (*fixFlags, []string, error) {
	f := &fixFlags{}
	fs := newFixFlagSet(f)
	fs.Usage = func() { printFixUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseSplitFlags parses split command flags and returns positional args.
func parseSplitFlags(args []string) (*splitFlags, []string, error) {
	f := &splitFlags{}
	fs := newSplitFlagSet(f)
	fs.Usage = func() { printSplitUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseJoinFlags parses join command flags and returns positional args.
func parseJoinFlags(args []string) (*joinFlags, []string, error) {
	f := &joinFlags{}
	fs := newJoinFlagSet(f)
	fs.Usage = func() { printJoinUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseImportFlags parses import command flags and returns positional args.
func parseImportFlags(args []string) (*importFlags, []string, error) {
	f := &importFlags{}
	fs := newImportFlagSet(f)
	fs.Usage = func() { printImportUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseChaptersFlags parses chapters command flags and returns positional args.
func parseChaptersFlags(args []string) (*chaptersFlags, []string, error) {
	f := &chaptersFlags{}
	fs := newChaptersFlagSet(f)
	fs.Usage = func() { printChaptersUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseBooksFlags parses books command flags and returns positional args.
func parseBooksFlags(args []string) (*booksFlags, []string, error) {
	f := &booksFlags{}
	fs := newBooksFlagSet(f)
	fs.Usage = func() { printBooksUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newExportFlagSet(f)
	fs.Usage = func() { printExportUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
