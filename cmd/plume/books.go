package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jojo1992341/plume/internal/hints"
	"github.com/jojo1992341/plume/internal/store"
)

// runBooks lists the library, or deletes one book under --delete.
func runBooks(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseBooksFlags(args)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		return errors.New("too many arguments: books takes only flags")
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

	if flags.delete != "" {
		return deleteBook(ctx, st, flags, env)
	}
	return listBooks(ctx, st, flags, env)
}

// deleteBook removes one book and its chapters.
func deleteBook(ctx context.Context, st *store.Store, flags *booksFlags, env *Environment) error {
	b, err := st.ResolveBook(ctx, flags.delete)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return fmt.Errorf("%w: %q%s", err, flags.delete, hints.ForBookNotFound())
		}
		return err
	}

	if err := st.DeleteBook(ctx, b.ID); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Deleted %q\n", b.Title)
	}
	return nil
}

// listBooks prints the library, most recently updated first.
func listBooks(ctx context.Context, st *store.Store, flags *booksFlags, env *Environment) error {
	books, err := st.ListBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Fprintln(env.Stdout, "No books in the library")
		return nil
	}

	for _, b := range books {
		line := b.Title
		if b.Author != "" {
			line += " - " + b.Author
		}
		fmt.Fprintf(env.Stdout, "%s (updated %s)\n", line, b.UpdatedAt.Format("2006-01-02"))

		if flags.common.verbose {
			chapters, err := st.Chapters(ctx, b.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.Stdout, "    id: %s, %d chapters\n", b.ID, len(chapters))
		}
	}
	return nil
}
