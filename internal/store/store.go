// Package store persists the book library in a SQLite database.
// Books hold metadata; chapters hold ordered text content. The database is a
// single file, created on first open.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver, registered as "sqlite"
)

// Sentinel errors for library operations.
var (
	ErrEmptyPath    = errors.New("store: database path cannot be empty")
	ErrEmptyTitle   = errors.New("store: book title cannot be empty")
	ErrBookNotFound = errors.New("store: book not found")
)

// timeLayout is RFC 3339 with a fixed-width fractional second, so stored
// timestamps sort lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// schema is applied on every Open. Statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT 'fr',
	date TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chapters (
	id TEXT PRIMARY KEY,
	book_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_chapters_book_position ON chapters(book_id, position);
`

// Book is a stored book with its metadata.
type Book struct {
	ID        string
	Title     string
	Author    string
	Language  string
	Date      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chapter is a stored chapter. Position is 1-based and dense within a book.
type Chapter struct {
	ID       string
	BookID   string
	Position int
	Title    string
	Content  string
}

// Store wraps the SQLite connection to the library database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the library database at path.
// The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("store: creating library directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: opening library: %w", err)
	}

	// Single connection keeps writes serialized and avoids SQLITE_BUSY
	// between this process's own statements.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CreateBook stores a new book and returns it with ID and timestamps set.
// The ID field of the argument is ignored.
func (s *Store) CreateBook(ctx context.Context, b Book) (Book, error) {
	if b.Title == "" {
		return Book{}, ErrEmptyTitle
	}

	now := time.Now().UTC()
	b.ID = uuid.New().String()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (id, title, author, language, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Language, b.Date,
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return Book{}, fmt.Errorf("store: inserting book: %w", err)
	}

	return b, nil
}

// GetBook returns the book with the given ID.
func (s *Store) GetBook(ctx context.Context, id string) (Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, author, language, date, created_at, updated_at
		 FROM books WHERE id = ?`, id)
	return scanBook(row)
}

// FindBookByTitle returns the most recently updated book with an exact
// title match.
func (s *Store) FindBookByTitle(ctx context.Context, title string) (Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, author, language, date, created_at, updated_at
		 FROM books WHERE title = ? ORDER BY updated_at DESC LIMIT 1`, title)
	return scanBook(row)
}

// ResolveBook finds a book by ID first, then by exact title.
// Lets CLI users refer to books either way.
func (s *Store) ResolveBook(ctx context.Context, ref string) (Book, error) {
	b, err := s.GetBook(ctx, ref)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrBookNotFound) {
		return Book{}, err
	}
	return s.FindBookByTitle(ctx, ref)
}

// ListBooks returns all books, most recently updated first.
func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, language, date, created_at, updated_at
		 FROM books ORDER BY updated_at DESC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: listing books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing books: %w", err)
	}
	return books, nil
}

// UpdateBook rewrites the metadata of an existing book.
func (s *Store) UpdateBook(ctx context.Context, b Book) error {
	if b.Title == "" {
		return ErrEmptyTitle
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, language = ?, date = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title, b.Author, b.Language, b.Date,
		time.Now().UTC().Format(timeLayout), b.ID)
	if err != nil {
		return fmt.Errorf("store: updating book: %w", err)
	}
	return requireAffected(res)
}

// DeleteBook removes a book and all its chapters.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: deleting book: %w", err)
	}
	return requireAffected(res)
}

// ReplaceChapters atomically replaces the whole chapter sequence of a book.
// Positions are assigned from slice order, starting at 1. The ID, BookID,
// and Position fields of the arguments are ignored.
func (s *Store) ReplaceChapters(ctx context.Context, bookID string, chapters []Chapter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Touch the book first; this also verifies it exists.
	res, err := tx.ExecContext(ctx,
		`UPDATE books SET updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), bookID)
	if err != nil {
		return fmt.Errorf("store: touching book: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("store: clearing chapters: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chapters (id, book_id, position, title, content) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: preparing chapter insert: %w", err)
	}
	defer stmt.Close()

	for i, ch := range chapters {
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), bookID, i+1, ch.Title, ch.Content); err != nil {
			return fmt.Errorf("store: inserting chapter %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing chapters: %w", err)
	}
	return nil
}

// Chapters returns the chapters of a book in position order.
func (s *Store) Chapters(ctx context.Context, bookID string) ([]Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, book_id, position, title, content
		 FROM chapters WHERE book_id = ? ORDER BY position ASC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("store: reading chapters: %w", err)
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var ch Chapter
		if err := rows.Scan(&ch.ID, &ch.BookID, &ch.Position, &ch.Title, &ch.Content); err != nil {
			return nil, fmt.Errorf("store: scanning chapter: %w", err)
		}
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: reading chapters: %w", err)
	}
	return chapters, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (Book, error) {
	var b Book
	var createdStr, updatedStr string

	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Language, &b.Date, &createdStr, &updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("store: scanning book: %w", err)
	}

	if b.CreatedAt, err = time.Parse(timeLayout, createdStr); err != nil {
		return Book{}, fmt.Errorf("store: parsing created_at: %w", err)
	}
	if b.UpdatedAt, err = time.Parse(timeLayout, updatedStr); err != nil {
		return Book{}, fmt.Errorf("store: parsing updated_at: %w", err)
	}
	return b, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrBookNotFound
	}
	return nil
}
