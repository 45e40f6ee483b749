package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/config"
	"github.com/jojo1992341/plume/internal/fileutil"
	"github.com/jojo1992341/plume/internal/hints"
	"github.com/jojo1992341/plume/internal/store"
)

// Export formats.
const (
	formatPDF      = "pdf"
	formatEPUB     = "epub"
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

// Export validation errors.
var (
	ErrUnknownFormat      = errors.New("unknown export format")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrOutputConflict     = errors.New("refusing to overwrite the input manuscript")
)

// runExport exports a manuscript file, a library book, or the whole
// library to the chosen format.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseExportFlags(args)
	if err != nil {
		return err
	}

	format, err := resolveFormat(flags.format)
	if err != nil {
		return err
	}
	if err := validateExportWorkers(flags.workers); err != nil {
		return err
	}

	switch {
	case flags.all && flags.bookRef != "":
		return fmt.Errorf("%w: --all and --book are mutually exclusive", ErrFlagConflict)
	case flags.all && flags.book.title != "":
		return fmt.Errorf("%w: --title cannot apply to every book of --all", ErrFlagConflict)
	case (flags.all || flags.bookRef != "") && len(paths) > 0:
		return fmt.Errorf("%w: pass a manuscript or a library flag, not both", ErrFlagConflict)
	case !flags.all && flags.bookRef == "" && len(paths) == 0:
		return fmt.Errorf("%w: pass a manuscript, --book, or --all", ErrNoInput)
	case len(paths) > 1:
		return errors.New("too many arguments: expected one manuscript")
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeExportFlags(flags, cfg)

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Export.TimeoutSeconds)
	if err != nil {
		return err
	}
	css, err := resolveCSS(cfg.Style.CSS)
	if err != nil {
		return err
	}

	outputSpec := flags.output
	if outputSpec == "" {
		outputSpec = cfg.Output.Dir
	}

	if flags.all {
		return exportAll(ctx, flags, cfg, css, format, outputSpec, timeout, env)
	}
	return exportOne(ctx, flags, cfg, css, format, outputSpec, timeout, paths, env)
}

// exportOne exports a single manuscript file or library book.
func exportOne(ctx context.Context, flags *exportFlags, cfg *config.Config,
	css, format, outputSpec string, timeout time.Duration, paths []string, env *Environment,
) error {
	var book plume.Book
	var inputPath string
	var err error

	if flags.bookRef != "" {
		book, err = exportBookFromLibrary(ctx, flags, cfg)
	} else {
		inputPath = paths[0]
		book, err = exportBookFromFile(inputPath, flags, env)
	}
	if err != nil {
		return err
	}

	sourceDate := book.Date
	book = fillBookFromConfig(book, cfg)
	if format == formatMarkdown {
		// A markdown export reproduces the manuscript's own metadata; the
		// config date stamps rendered formats only. Flags still win below.
		book.Date = sourceDate
	}
	book = applyBookFlagOverrides(book, flags)
	book, err = resolveBookDate(book, env.Now)
	if err != nil {
		return err
	}

	input := buildExportInput(book, cfg, css, resolveBaseDir(flags.baseDir, inputPath))
	outputPath := resolveExportOutputPath(inputPath, outputSpec, format, book)
	if err := checkOutputConflict(inputPath, outputPath); err != nil {
		return err
	}

	svc, err := plume.New(serviceOptions(cfg, timeout)...)
	if err != nil {
		return err
	}
	defer svc.Close()

	start := time.Now()
	data, err := exportData(ctx, svc, format, input)
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, data); err != nil {
		return err
	}

	switch {
	case flags.common.verbose:
		source := inputPath
		if source == "" {
			source = book.Title
		}
		fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n",
			source, outputPath, time.Since(start).Round(time.Millisecond))
	case !flags.common.quiet:
		fmt.Fprintf(env.Stdout, "Created %s\n", outputPath)
	}
	return nil
}

// exportBookFromFile reads and parses one manuscript file.
func exportBookFromFile(path string, flags *exportFlags, env *Environment) (plume.Book, error) {
	if err := validateMarkdownExtension(path); err != nil {
		return plume.Book{}, err
	}
	content, err := readManuscript(path)
	if err != nil {
		return plume.Book{}, err
	}

	book, err := plume.ParseManuscript(content)
	if err != nil && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Warning: %v\n", err)
	}
	return book, nil
}

// exportBookFromLibrary loads the --book reference with its chapters.
func exportBookFromLibrary(ctx context.Context, flags *exportFlags, cfg *config.Config) (plume.Book, error) {
	st, err := openLibrary(flags.library, cfg)
	if err != nil {
		return plume.Book{}, err
	}
	defer st.Close()

	book, err := loadLibraryBook(ctx, st, flags.bookRef)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return plume.Book{}, fmt.Errorf("%w: %q%s", err, flags.bookRef, hints.ForBookNotFound())
		}
		return plume.Book{}, err
	}
	return book, nil
}

// mergeExportFlags merges layout and processing flags into config. CLI
// values override config and environment values. Book metadata flags are
// applied later by applyBookFlagOverrides so they also win over front
// matter; output and library paths have dedicated resolvers.
func mergeExportFlags(flags *exportFlags, cfg *config.Config) {
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}

	if flags.style.style != "" {
		cfg.Style.Name = flags.style.style
	}
	if flags.style.css != "" {
		cfg.Style.CSS = flags.style.css
	}
	if flags.style.assetDir != "" {
		cfg.Assets.BasePath = flags.style.assetDir
	}
	if flags.style.watermark != "" {
		cfg.Watermark = flags.style.watermark
	}

	if flags.workers > 0 {
		cfg.Export.Workers = flags.workers
	}
	if flags.noFix {
		cfg.Typography.Fix = false
	}
}

// fillBookFromConfig fills empty book metadata from config.
func fillBookFromConfig(book plume.Book, cfg *config.Config) plume.Book {
	if book.Title == "" {
		book.Title = cfg.Book.Title
	}
	if book.Author == "" {
		book.Author = cfg.Book.Author
	}
	if book.Language == "" {
		book.Language = cfg.Book.Language
	}
	if book.Date == "" {
		book.Date = cfg.Book.Date
	}
	return book
}

// resolveBookDate resolves "auto" date forms against the injected clock.
// Literal and empty dates pass through unchanged.
func resolveBookDate(book plume.Book, now func() time.Time) (plume.Book, error) {
	date, err := plume.ResolveDate(book.Date, book.Language, now())
	if err != nil {
		return book, err
	}
	book.Date = date
	return book, nil
}

// applyBookFlagOverrides applies metadata flags on top of manuscript and
// config values.
func applyBookFlagOverrides(book plume.Book, flags *exportFlags) plume.Book {
	if flags.book.title != "" {
		book.Title = flags.book.title
	}
	if flags.book.author != "" {
		book.Author = flags.book.author
	}
	if flags.book.language != "" {
		book.Language = flags.book.language
	}
	if flags.book.date != "" {
		book.Date = flags.book.date
	}
	return book
}

// buildExportInput assembles the service input for a prepared book.
func buildExportInput(book plume.Book, cfg *config.Config, css, baseDir string) plume.ExportInput {
	return plume.ExportInput{
		Book:          book,
		Style:         cfg.Style.Name,
		CSS:           css,
		Watermark:     cfg.Watermark,
		BaseDir:       baseDir,
		FixTypography: cfg.Typography.Fix,
		Page: &plume.PageSettings{
			Size:        cfg.Page.Size,
			Orientation: cfg.Page.Orientation,
			Margin:      cfg.Page.Margin,
		},
	}
}

// exportData runs one export and returns the bytes to write.
func exportData(ctx context.Context, svc *plume.Service, format string, input plume.ExportInput) ([]byte, error) {
	switch format {
	case formatEPUB:
		return svc.ExportEPUB(ctx, input)
	case formatHTML:
		doc, err := svc.ExportHTML(ctx, input)
		return []byte(doc), err
	case formatMarkdown:
		text, err := svc.ExportMarkdown(ctx, input)
		return []byte(text), err
	default:
		return svc.ExportPDF(ctx, input)
	}
}

// serviceOptions builds the Service options shared by single and batch
// exports. Browser path and sandbox mode are read from the environment by
// the PDF converter itself.
func serviceOptions(cfg *config.Config, timeout time.Duration) []plume.Option {
	var opts []plume.Option
	if timeout > 0 {
		opts = append(opts, plume.WithTimeout(timeout))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, plume.WithAssetDir(cfg.Assets.BasePath))
	}
	return opts
}

// resolveFormat normalizes the --format value. "md" is accepted as an
// alias for markdown; the default is pdf.
func resolveFormat(value string) (string, error) {
	switch strings.ToLower(value) {
	case "":
		return formatPDF, nil
	case formatPDF, formatEPUB, formatHTML, formatMarkdown:
		return strings.ToLower(value), nil
	case "md":
		return formatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: epub, html, pdf, markdown)", ErrUnknownFormat, value)
	}
}

// extFor maps a format to its file extension.
func extFor(format string) string {
	if format == formatMarkdown {
		return ".md"
	}
	return "." + format
}

// validateExportWorkers checks the --all worker count. Each worker owns a
// browser instance, so the cap is the pool limit.
func validateExportWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > plume.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, plume.MaxPoolSize)
	}
	return nil
}

// resolveTimeoutWithEnv resolves the per-export timeout.
// Priority: --timeout flag > PLUME_TIMEOUT > config timeoutSeconds.
// Returns 0 when nothing is set, keeping the service default.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configSeconds int) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	if configSeconds > 0 {
		return time.Duration(configSeconds) * time.Second, nil
	}
	return 0, nil
}

// resolveCSS turns the style.css value into CSS text. A value with a path
// separator is read from disk; anything else is inline CSS.
func resolveCSS(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if fileutil.IsFilePath(value) {
		content, err := os.ReadFile(value) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		return string(content), nil
	}
	return value, nil
}

// resolveBaseDir picks the base directory for relative image paths: the
// flag, then the manuscript's own directory.
func resolveBaseDir(flagBaseDir, inputPath string) string {
	if flagBaseDir != "" {
		return flagBaseDir
	}
	if inputPath != "" {
		return filepath.Dir(inputPath)
	}
	return ""
}

// resolveExportOutputPath determines the output file for one export.
// An output spec ending in the format extension is the file itself;
// anything else is a directory receiving a file named after the input, or
// after the book title for library exports.
func resolveExportOutputPath(inputPath, outputSpec, format string, book plume.Book) string {
	ext := extFor(format)

	var base string
	if inputPath != "" {
		base = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	} else {
		base = fileutil.SafeFileName(book.Title, "livre")
	}

	if outputSpec == "" {
		if inputPath != "" {
			return filepath.Join(filepath.Dir(inputPath), base+ext)
		}
		return base + ext
	}
	if strings.HasSuffix(outputSpec, ext) {
		return outputSpec
	}
	return filepath.Join(outputSpec, base+ext)
}

// checkOutputConflict refuses to write an export over its own source.
// Only the markdown format can collide; 'plume fix -w' is the tool for
// rewriting a manuscript in place.
func checkOutputConflict(inputPath, outputPath string) error {
	if inputPath == "" {
		return nil
	}
	inAbs, errIn := filepath.Abs(inputPath)
	outAbs, errOut := filepath.Abs(outputPath)
	if errIn == nil && errOut == nil && inAbs == outAbs {
		return fmt.Errorf("%w: %s (use 'plume fix -w', or -o for a different path)",
			ErrOutputConflict, outputPath)
	}
	return nil
}
