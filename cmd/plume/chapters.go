package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/hints"
	"github.com/jojo1992341/plume/internal/store"
)

// runChapters lists the chapters of a manuscript file or a library book,
// with word counts.
func runChapters(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseChaptersFlags(args)
	if err != nil {
		return err
	}

	var book plume.Book
	switch {
	case flags.book != "" && len(paths) > 0:
		return fmt.Errorf("%w: pass a file or --book, not both", ErrFlagConflict)
	case flags.book != "":
		book, err = chaptersFromLibrary(ctx, flags)
	case len(paths) == 0:
		return fmt.Errorf("%w: missing manuscript path (or use --book)", ErrNoInput)
	case len(paths) > 1:
		return errors.New("too many arguments: expected one manuscript")
	default:
		book, err = chaptersFromFile(paths[0], flags, env)
	}
	if err != nil {
		return err
	}

	printChapterList(book, env)
	return nil
}

// chaptersFromFile parses a manuscript file.
func chaptersFromFile(path string, flags *chaptersFlags, env *Environment) (plume.Book, error) {
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

// chaptersFromLibrary loads a library book with its chapters.
func chaptersFromLibrary(ctx context.Context, flags *chaptersFlags) (plume.Book, error) {
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

// printChapterList prints one line per chapter plus totals.
func printChapterList(book plume.Book, env *Environment) {
	totalWords := 0
	for i, ch := range book.Chapters {
		words := countWords(ch.Content)
		totalWords += words
		fmt.Fprintf(env.Stdout, "%3d. %s (%d words)\n", i+1, ch.Title, words)
	}
	fmt.Fprintf(env.Stdout, "\nTotal: %d chapters, %d words\n", len(book.Chapters), totalWords)
}

// countWords counts whitespace-separated tokens.
func countWords(text string) int {
	return len(strings.Fields(text))
}
