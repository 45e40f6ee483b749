package main

import (
	"context"
	"fmt"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/config"
	"github.com/jojo1992341/plume/internal/store"
)

// openLibrary opens the book library, resolving the path from the --library
// flag, the config file (PLUME_LIBRARY already merged in), or the per-user
// default location.
func openLibrary(flagPath string, cfg *config.Config) (*store.Store, error) {
	path := flagPath
	if path == "" {
		path = cfg.Library.Path
	}
	if path == "" {
		var err error
		path, err = config.DefaultLibraryPath()
		if err != nil {
			return nil, fmt.Errorf("resolving library path: %w", err)
		}
	}
	return store.Open(path)
}

// loadLibraryBook resolves ref (ID or title) and loads the book with its
// chapters into the transient form the library package works on.
func loadLibraryBook(ctx context.Context, st *store.Store, ref string) (plume.Book, error) {
	b, err := st.ResolveBook(ctx, ref)
	if err != nil {
		return plume.Book{}, err
	}

	chapters, err := st.Chapters(ctx, b.ID)
	if err != nil {
		return plume.Book{}, err
	}

	return plume.Book{
		Title:    b.Title,
		Author:   b.Author,
		Language: b.Language,
		Date:     b.Date,
		Chapters: fromStoreChapters(chapters),
	}, nil
}

// toStoreChapters converts transient chapters to their persisted form.
// Positions are assigned by the store.
func toStoreChapters(chapters []plume.Chapter) []store.Chapter {
	out := make([]store.Chapter, len(chapters))
	for i, ch := range chapters {
		out[i] = store.Chapter{Title: ch.Title, Content: ch.Content}
	}
	return out
}

// fromStoreChapters converts persisted chapters back to the transient form.
func fromStoreChapters(chapters []store.Chapter) []plume.Chapter {
	out := make([]plume.Chapter, len(chapters))
	for i, ch := range chapters {
		out[i] = plume.Chapter{Title: ch.Title, Content: ch.Content}
	}
	return out
}
