package main

// Notes:
// - File mode is tested end to end with temp directories; the library mode
//   with a real SQLite store under t.TempDir.
// - Library subtests pin HOME so no user config leaks in, which rules out
//   t.Parallel there (t.Setenv forbids it).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/store"
)

// ---------------------------------------------------------------------------
// TestChapterDirFor - Default output directory
// ---------------------------------------------------------------------------

func TestChapterDirFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"roman.md", "roman"},
		{filepath.Join("manuscrits", "roman.md"), filepath.Join("manuscrits", "roman")},
		{"essai.markdown", "essai"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := chapterDirFor(tt.path); got != tt.want {
				t.Errorf("chapterDirFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestChapterFileName - Numbered, sortable chapter names
// ---------------------------------------------------------------------------

func TestChapterFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n     int
		title string
		want  string
	}{
		{1, "Premier", "001-premier.md"},
		{12, "La Fuite", "012-la-fuite.md"},
		{3, "", "003-chapitre-3.md"},
		{7, "  Espaces  partout  ", "007-espaces-partout.md"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := chapterFileName(tt.n, tt.title); got != tt.want {
				t.Errorf("chapterFileName(%d, %q) = %q, want %q", tt.n, tt.title, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunSplit_Files - Chapter files and the book.yaml sidecar
// ---------------------------------------------------------------------------

const splitManuscript = `---
title: Les Essais
author: Jeanne Dupont
---

#### Premier

Elle part.

#### La Fuite

Il pleut.
`

func TestRunSplit_Files(t *testing.T) {
	t.Parallel()

	t.Run("writes numbered chapter files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTestFile(t, dir, "roman.md", splitManuscript)
		outDir := filepath.Join(dir, "chapitres")
		env, stdout, _ := testEnv("")

		err := runSplit(context.Background(), []string{path, outDir}, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		first, err := os.ReadFile(filepath.Join(outDir, "001-premier.md"))
		if err != nil {
			t.Fatalf("reading first chapter: %v", err)
		}
		if string(first) != "#### Premier\n\nElle part.\n" {
			t.Errorf("first chapter = %q", first)
		}

		second, err := os.ReadFile(filepath.Join(outDir, "002-la-fuite.md"))
		if err != nil {
			t.Fatalf("reading second chapter: %v", err)
		}
		if string(second) != "#### La Fuite\n\nIl pleut.\n" {
			t.Errorf("second chapter = %q", second)
		}

		if !strings.Contains(stdout.String(), "Split 2 chapter(s) into "+outDir) {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("writes metadata sidecar from front matter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTestFile(t, dir, "roman.md", splitManuscript)
		outDir := filepath.Join(dir, "chapitres")
		env, _, _ := testEnv("")

		if err := runSplit(context.Background(), []string{path, outDir}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		meta, err := os.ReadFile(filepath.Join(outDir, metadataFileName))
		if err != nil {
			t.Fatalf("reading sidecar: %v", err)
		}
		if !strings.Contains(string(meta), "title: Les Essais") {
			t.Errorf("sidecar missing title: %q", meta)
		}
		if !strings.Contains(string(meta), "author: Jeanne Dupont") {
			t.Errorf("sidecar missing author: %q", meta)
		}
	})

	t.Run("no sidecar without front matter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTestFile(t, dir, "roman.md", "#### Premier\n\nElle part.\n")
		outDir := filepath.Join(dir, "chapitres")
		env, _, _ := testEnv("")

		if err := runSplit(context.Background(), []string{path, outDir}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filepath.Join(outDir, metadataFileName)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("sidecar should not exist, stat err = %v", err)
		}
	})

	t.Run("default directory next to manuscript", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTestFile(t, dir, "roman.md", splitManuscript)
		env, _, _ := testEnv("")

		if err := runSplit(context.Background(), []string{path}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "roman", "001-premier.md")); err != nil {
			t.Errorf("chapter missing from default directory: %v", err)
		}
	})

	t.Run("text before first heading becomes introduction", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTestFile(t, dir, "roman.md", "Avant-propos.\n\n#### Premier\n\nTexte.\n")
		outDir := filepath.Join(dir, "chapitres")
		env, _, _ := testEnv("")

		if err := runSplit(context.Background(), []string{path, outDir}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		intro, err := os.ReadFile(filepath.Join(outDir, "001-introduction.md"))
		if err != nil {
			t.Fatalf("reading introduction: %v", err)
		}
		if string(intro) != "#### Introduction\n\nAvant-propos.\n" {
			t.Errorf("introduction = %q", intro)
		}
	})

	t.Run("verbose lists each file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTestFile(t, dir, "roman.md", splitManuscript)
		outDir := filepath.Join(dir, "chapitres")
		env, stdout, _ := testEnv("")

		if err := runSplit(context.Background(), []string{"-v", path, outDir}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), filepath.Join(outDir, "001-premier.md")) {
			t.Errorf("verbose output missing file path: %q", stdout.String())
		}
	})

	t.Run("quiet suppresses the summary", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTestFile(t, dir, "roman.md", splitManuscript)
		env, stdout, _ := testEnv("")

		if err := runSplit(context.Background(), []string{"-q", path, filepath.Join(dir, "out")}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout.String() != "" {
			t.Errorf("quiet mode should print nothing, got %q", stdout.String())
		}
	})

	t.Run("blank manuscript has no chapters", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTestFile(t, dir, "vide.md", "\n\n  \n")
		env, _, _ := testEnv("")

		err := runSplit(context.Background(), []string{path}, env)
		if !errors.Is(err, plume.ErrEmptyManuscript) {
			t.Errorf("expected ErrEmptyManuscript, got %v", err)
		}
	})

	t.Run("missing manuscript path", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")

		err := runSplit(context.Background(), []string{}, env)
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")

		err := runSplit(context.Background(), []string{"a.md", "out", "extra"}, env)
		if err == nil || !strings.Contains(err.Error(), "too many arguments") {
			t.Errorf("expected too-many-arguments error, got %v", err)
		}
	})

	t.Run("db flag conflicts with output directory", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")

		err := runSplit(context.Background(), []string{"--db", "Essais", "a.md", "out"}, env)
		if !errors.Is(err, ErrFlagConflict) {
			t.Errorf("expected ErrFlagConflict, got %v", err)
		}
	})

	t.Run("wrong extension rejected", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")

		err := runSplit(context.Background(), []string{"roman.txt"}, env)
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("expected ErrInvalidExtension, got %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunSplit_Library - Replacing chapters of a stored book
// ---------------------------------------------------------------------------

func TestRunSplit_Library(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")

	ctx := context.Background()

	t.Run("replaces chapters and updates metadata", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "library.db")
		path := writeTestFile(t, dir, "roman.md", splitManuscript)

		st, err := store.Open(dbPath)
		if err != nil {
			t.Fatalf("opening store: %v", err)
		}
		created, err := st.CreateBook(ctx, store.Book{Title: "Brouillon"})
		if err != nil {
			t.Fatalf("creating book: %v", err)
		}
		if err := st.Close(); err != nil {
			t.Fatalf("closing store: %v", err)
		}

		env, stdout, _ := testEnv("")
		args := []string{"--db", "Brouillon", "--library", dbPath, path}
		if err := runSplit(ctx, args, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "Replaced 2 chapter(s)") {
			t.Errorf("stdout = %q", stdout.String())
		}

		st, err = store.Open(dbPath)
		if err != nil {
			t.Fatalf("reopening store: %v", err)
		}
		defer st.Close()

		book, err := st.GetBook(ctx, created.ID)
		if err != nil {
			t.Fatalf("loading book: %v", err)
		}
		if book.Title != "Les Essais" || book.Author != "Jeanne Dupont" {
			t.Errorf("metadata not updated: %+v", book)
		}

		chapters, err := st.Chapters(ctx, created.ID)
		if err != nil {
			t.Fatalf("loading chapters: %v", err)
		}
		if len(chapters) != 2 {
			t.Fatalf("got %d chapters, want 2", len(chapters))
		}
		if chapters[0].Title != "Premier" || chapters[1].Title != "La Fuite" {
			t.Errorf("chapter titles = %q, %q", chapters[0].Title, chapters[1].Title)
		}
		if chapters[0].Position != 1 || chapters[1].Position != 2 {
			t.Errorf("positions = %d, %d", chapters[0].Position, chapters[1].Position)
		}
	})

	t.Run("keeps stored metadata without front matter", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "library.db")
		path := writeTestFile(t, dir, "roman.md", "#### Seul\n\nTexte.\n")

		st, err := store.Open(dbPath)
		if err != nil {
			t.Fatalf("opening store: %v", err)
		}
		created, err := st.CreateBook(ctx, store.Book{Title: "Gardé", Author: "Anon"})
		if err != nil {
			t.Fatalf("creating book: %v", err)
		}
		st.Close()

		env, _, _ := testEnv("")
		args := []string{"--db", created.ID, "--library", dbPath, path}
		if err := runSplit(ctx, args, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		st, err = store.Open(dbPath)
		if err != nil {
			t.Fatalf("reopening store: %v", err)
		}
		defer st.Close()

		book, err := st.GetBook(ctx, created.ID)
		if err != nil {
			t.Fatalf("loading book: %v", err)
		}
		if book.Title != "Gardé" || book.Author != "Anon" {
			t.Errorf("metadata should be untouched: %+v", book)
		}
	})

	t.Run("unknown book reference", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "library.db")
		path := writeTestFile(t, dir, "roman.md", splitManuscript)

		env, _, _ := testEnv("")
		args := []string{"--db", "Inconnu", "--library", dbPath, path}
		err := runSplit(ctx, args, env)
		if !errors.Is(err, store.ErrBookNotFound) {
			t.Fatalf("expected ErrBookNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "plume books") {
			t.Errorf("error should hint at 'plume books': %v", err)
		}
	})
}
