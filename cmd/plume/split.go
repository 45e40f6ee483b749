package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/fileutil"
	"github.com/jojo1992341/plume/internal/hints"
	"github.com/jojo1992341/plume/internal/store"
	"github.com/jojo1992341/plume/internal/yamlutil"
)

// metadataFileName is the sidecar carrying book metadata in a chapter
// directory.
const metadataFileName = "book.yaml"

// bookMeta mirrors the manuscript front matter in the book.yaml sidecar.
type bookMeta struct {
	Title    string `yaml:"title,omitempty"`
	Author   string `yaml:"author,omitempty"`
	Language string `yaml:"language,omitempty"`
	Date     string `yaml:"date,omitempty"`
}

// runSplit cuts a manuscript into chapters: one file per chapter by
// default, or the chapter rows of a library book under --db.
func runSplit(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseSplitFlags(args)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return fmt.Errorf("%w: missing manuscript path", ErrNoInput)
	}
	if len(paths) > 2 {
		return fmt.Errorf("too many arguments: expected <manuscript.md> [output-dir]")
	}
	if flags.book != "" && len(paths) > 1 {
		return fmt.Errorf("%w: --db writes to the library, not a directory", ErrFlagConflict)
	}

	path := paths[0]
	if err := validateMarkdownExtension(path); err != nil {
		return err
	}
	content, err := readManuscript(path)
	if err != nil {
		return err
	}

	book, err := plume.ParseManuscript(content)
	if err != nil && !flags.common.quiet {
		// Metadata dropped, chapters intact.
		fmt.Fprintf(env.Stderr, "Warning: %v\n", err)
	}
	if len(book.Chapters) == 0 {
		return fmt.Errorf("%w: %s has no chapters", plume.ErrEmptyManuscript, path)
	}
	if len(book.Chapters) > plume.MaxChapters {
		return fmt.Errorf("%w: %d (max %d)",
			plume.ErrTooManyChapters, len(book.Chapters), plume.MaxChapters)
	}

	if flags.book != "" {
		return splitIntoLibrary(ctx, flags, book, env)
	}

	outDir := chapterDirFor(path)
	if len(paths) == 2 {
		outDir = paths[1]
	}
	return splitIntoFiles(book, outDir, flags, env)
}

// chapterDirFor derives the default output directory from the manuscript
// path: same parent, name without extension.
func chapterDirFor(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(filepath.Dir(path), base)
}

// chapterFileName builds a sortable file name for chapter n. Three digits
// keep name order equal to chapter order up to MaxChapters.
func chapterFileName(n int, title string) string {
	safe := fileutil.SafeFileName(title, fmt.Sprintf("chapitre-%d", n))
	return fmt.Sprintf("%03d-%s.md", n, safe)
}

// splitIntoFiles writes one numbered markdown file per chapter plus a
// book.yaml metadata sidecar when the manuscript carried front matter.
func splitIntoFiles(book plume.Book, dir string, flags *splitFlags, env *Environment) error {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	for i, ch := range book.Chapters {
		name := chapterFileName(i+1, ch.Title)
		data := []byte(plume.JoinChapters([]plume.Chapter{ch}) + "\n")
		if err := writeOutput(filepath.Join(dir, name), data); err != nil {
			return err
		}
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "  %s\n", filepath.Join(dir, name))
		}
	}

	meta := bookMeta{
		Title:    book.Title,
		Author:   book.Author,
		Language: book.Language,
		Date:     book.Date,
	}
	if meta != (bookMeta{}) {
		encoded, err := yamlutil.Marshal(meta)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if err := writeOutput(filepath.Join(dir, metadataFileName), encoded); err != nil {
			return err
		}
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Split %d chapter(s) into %s\n", len(book.Chapters), dir)
	}
	return nil
}

// splitIntoLibrary replaces the chapters of an existing library book.
// Non-empty front matter fields update the book record too.
func splitIntoLibrary(ctx context.Context, flags *splitFlags, book plume.Book, env *Environment) error {
	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}

	st, err := openLibrary(flags.library, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	stored, err := st.ResolveBook(ctx, flags.book)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return fmt.Errorf("%w: %q%s", err, flags.book, hints.ForBookNotFound())
		}
		return err
	}

	if updated := overlayMetadata(stored, book); updated != stored {
		if err := st.UpdateBook(ctx, updated); err != nil {
			return err
		}
	}
	if err := st.ReplaceChapters(ctx, stored.ID, toStoreChapters(book.Chapters)); err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Replaced %d chapter(s) of %q\n", len(book.Chapters), stored.Title)
	}
	return nil
}

// overlayMetadata applies non-empty manuscript metadata onto the stored
// record, keeping stored values where the front matter is silent.
func overlayMetadata(stored store.Book, parsed plume.Book) store.Book {
	if parsed.Title != "" {
		stored.Title = parsed.Title
	}
	if parsed.Author != "" {
		stored.Author = parsed.Author
	}
	if parsed.Language != "" {
		stored.Language = parsed.Language
	}
	if parsed.Date != "" {
		stored.Date = parsed.Date
	}
	return stored
}
