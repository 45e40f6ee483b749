package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/store"
)

// runImport creates a new library book from a manuscript file.
func runImport(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseImportFlags(args)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return fmt.Errorf("%w: missing manuscript path", ErrNoInput)
	}
	if len(paths) > 1 {
		return errors.New("too many arguments: expected one manuscript")
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
		fmt.Fprintf(env.Stderr, "Warning: %v\n", err)
	}
	if len(book.Chapters) == 0 {
		return fmt.Errorf("%w: %s has no chapters", plume.ErrEmptyManuscript, path)
	}
	if len(book.Chapters) > plume.MaxChapters {
		return fmt.Errorf("%w: %d (max %d)",
			plume.ErrTooManyChapters, len(book.Chapters), plume.MaxChapters)
	}
	if book.Title == "" {
		book.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	st, err := openLibrary(flags.library, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if existing, err := st.FindBookByTitle(ctx, book.Title); err == nil && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Warning: a book titled %q already exists (id %s)\n",
			book.Title, existing.ID)
	}

	created, err := st.CreateBook(ctx, store.Book{
		Title:    book.Title,
		Author:   book.Author,
		Language: book.Language,
		Date:     book.Date,
	})
	if err != nil {
		return err
	}
	if err := st.ReplaceChapters(ctx, created.ID, toStoreChapters(book.Chapters)); err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Imported %q (%d chapters)\n", created.Title, len(book.Chapters))
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stdout, "  id: %s\n", created.ID)
	}
	return nil
}
