package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/hints"
	"github.com/jojo1992341/plume/internal/store"
	"github.com/jojo1992341/plume/internal/yamlutil"
)

// runJoin reassembles chapters into a single manuscript, from a chapter
// directory or from a library book under --db.
func runJoin(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseJoinFlags(args)
	if err != nil {
		return err
	}

	var book plume.Book
	switch {
	case flags.book != "":
		if len(paths) > 0 {
			return fmt.Errorf("%w: --db reads from the library, not a directory", ErrFlagConflict)
		}
		book, err = joinFromLibrary(ctx, flags)
	case len(paths) == 0:
		return fmt.Errorf("%w: missing chapter directory", ErrNoInput)
	case len(paths) > 1:
		return errors.New("too many arguments: expected one chapter directory")
	default:
		book, err = readChapterDir(paths[0])
	}
	if err != nil {
		return err
	}

	text, err := plume.ComposeManuscript(book)
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := writeOutput(flags.output, []byte(text)); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Joined %d chapter(s) into %s\n", len(book.Chapters), flags.output)
		}
		return nil
	}

	fmt.Fprint(env.Stdout, text)
	return nil
}

// joinFromLibrary loads a library book with its chapters.
func joinFromLibrary(ctx context.Context, flags *joinFlags) (plume.Book, error) {
	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return plume.Book{}, err
	}

	st, err := openLibrary(flags.library, cfg)
	if err != nil {
		return plume.Book{}, err
	}
	defer st.Close()

	book, err := loadLibraryBook(ctx, st, flags.book)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return plume.Book{}, fmt.Errorf("%w: %q%s", err, flags.book, hints.ForBookNotFound())
		}
		return plume.Book{}, err
	}
	return book, nil
}

// readChapterDir reads a chapter directory produced by split: book.yaml
// for the metadata, every markdown file in name order for the chapters.
// Heading lines inside the files are authoritative, so chapters renamed or
// merged on disk come back exactly as their headings say.
func readChapterDir(dir string) (plume.Book, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return plume.Book{}, fmt.Errorf("%w: %v", ErrReadManuscript, err)
	}

	var book plume.Book
	var parts []string
	total := 0

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case name == metadataFileName || name == "book.yml":
			meta, err := readBookMeta(filepath.Join(dir, name))
			if err != nil {
				return plume.Book{}, err
			}
			book.Title = meta.Title
			book.Author = meta.Author
			book.Language = meta.Language
			book.Date = meta.Date
		case isMarkdownFile(name):
			content, err := readManuscript(filepath.Join(dir, name))
			if err != nil {
				return plume.Book{}, err
			}
			total += len(content)
			if total > plume.MaxManuscriptSize {
				return plume.Book{}, fmt.Errorf("%w: %s exceeds %d bytes combined",
					plume.ErrManuscriptTooLarge, dir, plume.MaxManuscriptSize)
			}
			parts = append(parts, strings.TrimSpace(content))
		}
	}

	if len(parts) == 0 {
		return plume.Book{}, fmt.Errorf("%w: no markdown files in %s", ErrNoInput, dir)
	}

	book.Chapters = plume.SplitChapters(strings.Join(parts, "\n\n"))
	return book, nil
}

// readBookMeta loads a metadata sidecar file.
func readBookMeta(path string) (bookMeta, error) {
	// #nosec G304 -- path comes from a directory listing
	data, err := os.ReadFile(path)
	if err != nil {
		return bookMeta{}, fmt.Errorf("%w: %v", ErrReadManuscript, err)
	}

	var m bookMeta
	if err := yamlutil.Unmarshal(data, &m); err != nil {
		return bookMeta{}, fmt.Errorf("%w: %s: %v", plume.ErrFrontMatter, path, err)
	}
	return m, nil
}
