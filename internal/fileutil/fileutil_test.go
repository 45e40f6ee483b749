package fileutil_test

// Notes:
// - TestWriteTempFile_CreateTempError overrides TMPDIR and must not run in
//   parallel with the other tests.
// - The WriteString and Close error branches of WriteTempFile stay
//   untested: forcing a disk write failure is platform-specific. We test
//   observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jojo1992341/plume/internal/fileutil"
)

// ---------------------------------------------------------------------------
// Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"markdown", "md", nil},
		{"html", "html", nil},
		{"empty", "", fileutil.ErrExtensionEmpty},
		{"forward slash traversal", "../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{"backslash traversal", `..\windows\system32`, fileutil.ErrExtensionPathTraversal},
		{"null byte", "html\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := fileutil.ValidateExtension(tt.extension); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Temp file round trip
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		extension string
	}{
		{"markdown", "# Premier chapitre", "md"},
		{"html", "<html><body>La Traversée</body></html>", "html"},
		{"empty content", "", "md"},
		{"accented content", "Le départ eut lieu à l'aube, côté jardin.", "md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, cleanup, err := fileutil.WriteTempFile(tt.content, tt.extension)
			if err != nil {
				t.Fatalf("WriteTempFile() error = %v", err)
			}
			defer cleanup()

			base := filepath.Base(path)
			if !strings.HasPrefix(base, "plume-") {
				t.Errorf("temp file %q should carry the plume- prefix", base)
			}
			if !strings.HasSuffix(path, "."+tt.extension) {
				t.Errorf("temp file %q should end in .%s", path, tt.extension)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading temp file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("content = %q, want %q", data, tt.content)
			}
		})
	}
}

func TestWriteTempFile_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("brouillon", "md")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if !fileutil.FileExists(path) {
		t.Fatalf("temp file missing before cleanup: %s", path)
	}

	cleanup()

	if fileutil.FileExists(path) {
		t.Errorf("temp file still present after cleanup: %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		extension string
		wantErr   error
	}{
		{"", fileutil.ErrExtensionEmpty},
		{"../foo", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		_, cleanup, err := fileutil.WriteTempFile("content", tt.extension)
		if cleanup != nil {
			defer cleanup()
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("WriteTempFile(_, %q) error = %v, want %v", tt.extension, err, tt.wantErr)
		}
	}
}

// NOTE: modifies TMPDIR, cannot run in parallel.
func TestWriteTempFile_CreateTempError(t *testing.T) {
	t.Setenv("TMPDIR", "/nonexistent/path/that/does/not/exist")

	_, cleanup, err := fileutil.WriteTempFile("content", "md")
	if cleanup != nil {
		defer cleanup()
	}

	if err == nil {
		t.Fatal("WriteTempFile() should fail when TMPDIR is invalid")
	}
	if !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("error = %q, want mention of temp file creation", err)
	}
}

func TestWriteTempFile_LargeContent(t *testing.T) {
	t.Parallel()

	large := strings.Repeat("x", 1<<20)

	path, cleanup, err := fileutil.WriteTempFile(large, "txt")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	defer cleanup()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat error = %v", err)
	}
	if info.Size() != int64(len(large)) {
		t.Errorf("file size = %d, want %d", info.Size(), len(large))
	}
}

// ---------------------------------------------------------------------------
// Path predicates
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "manuscrit.md")
	if err := os.WriteFile(file, []byte("# Un"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"regular file", file, true},
		{"directory", dir, false},
		{"missing path", filepath.Join(dir, "pas-la"), false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		if got := fileutil.FileExists(tt.path); got != tt.want {
			t.Errorf("FileExists(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"manuscript", false},
		{"my-style", false},
		{"my_style", false},
		{"name.with.dots", false},
		{"", false},
		{"./custom.css", true},
		{"../shared/style.css", true},
		{"/absolute/path.css", true},
		{`C:\styles\roman.css`, true},
		{"D:/Documents/style.css", true},
		{"sub/dir", true},
		{"/", true},
		{`\`, true},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"manuscript", false},
		{"./custom.css", false},
		{"my-style", false},
		{"", false},
		{"body { color: red; }", true},
		{"h1 { font-size: 2em } p { margin: 1em }", true},
		{"body {", true},
	}

	for _, tt := range tests {
		if got := fileutil.IsCSS(tt.input); got != tt.want {
			t.Errorf("IsCSS(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Title to file name
// ---------------------------------------------------------------------------

func TestSafeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		fallback string
		want     string
	}{
		{"simple title", "Chapitre 1", "chapitre", "chapitre-1"},
		{"accents preserved", "Le Départ à l'aube", "chapitre", "le-départ-à-l-aube"},
		{"reserved characters replaced", `Avant/Après: une "question"?`, "chapitre", "avant-après-une-question"},
		{"typographic apostrophe replaced", "L’hiver", "chapitre", "l-hiver"},
		{"hyphen runs collapse", "Un  --  titre", "chapitre", "un-titre"},
		{"uppercase lowered", "INTRODUCTION", "chapitre", "introduction"},
		{"empty title uses fallback", "", "chapitre", "chapitre"},
		{"whitespace only uses fallback", "   ", "chapitre", "chapitre"},
		{"reserved only uses fallback", `\/:*`, "chapitre", "chapitre"},
		{"double dot uses fallback", "..", "chapitre", "chapitre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.SafeFileName(tt.title, tt.fallback)
			if got != tt.want {
				t.Errorf("SafeFileName(%q, %q) = %q, want %q", tt.title, tt.fallback, got, tt.want)
			}
		})
	}
}
