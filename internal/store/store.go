// Package store keeps fetched library snapshots in a local SQLite
// database so shelves can be re-rendered without hitting Goodreads.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goreads/goreads/internal/book"
)

const (
	dirName = "goreads"
	dbFile  = "library.db"
)

// ErrNoSnapshot is returned when no snapshot exists for a user.
var ErrNoSnapshot = errors.New("no cached snapshot for user")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     INTEGER NOT NULL,
	fetched_at  TEXT    NOT NULL,
	book_count  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS books (
	snapshot_id     INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	title           TEXT    NOT NULL,
	author_name     TEXT    NOT NULL,
	number_of_pages INTEGER NOT NULL DEFAULT 0,
	date_read       TEXT,
	user_rating     INTEGER NOT NULL DEFAULT 0,
	user_review     TEXT    NOT NULL DEFAULT '',
	series_name     TEXT    NOT NULL DEFAULT '',
	series_entry    REAL    NOT NULL DEFAULT 0,
	PRIMARY KEY (snapshot_id, position)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_user
	ON snapshots(user_id, fetched_at);
`

// Snapshot describes one cached fetch of a user's shelf.
type Snapshot struct {
	ID        int64
	UserID    int
	FetchedAt time.Time
	BookCount int
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and migrates) the snapshot database at path. An empty
// path means the default under the user config directory.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{db: db, path: resolved}, nil
}

// Path returns the resolved database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return filepath.Clean(path), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(configDir, dirName, dbFile), nil
}

// SaveSnapshot stores a fetched library as a new snapshot and returns
// the snapshot ID.
func (s *Store) SaveSnapshot(ctx context.Context, lib *book.Library, fetchedAt time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, fetched_at, book_count)
		VALUES (?, ?, ?)
	`, lib.UserID, fetchedAt.UTC().Format(time.RFC3339), len(lib.Books))
	if err != nil {
		return 0, err
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, b := range lib.Books {
		var dateRead any
		if b.DateRead != nil {
			dateRead = b.DateRead.UTC().Format(time.RFC3339)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO books (
				snapshot_id, position, title, author_name, number_of_pages,
				date_read, user_rating, user_review, series_name, series_entry
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, snapshotID, i, b.Title, b.AuthorName, b.NumberOfPages,
			dateRead, int(b.UserRating), b.UserReview, b.SeriesName, b.SeriesEntry)
		if err != nil {
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return snapshotID, nil
}

// LatestSnapshot loads the most recent snapshot for a user.
// Returns ErrNoSnapshot when the user has never been fetched.
func (s *Store) LatestSnapshot(ctx context.Context, userID int) (*book.Library, Snapshot, error) {
	var (
		snap      Snapshot
		fetchedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, fetched_at, book_count
		FROM snapshots
		WHERE user_id = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, userID).Scan(&snap.ID, &snap.UserID, &fetchedAt, &snap.BookCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, Snapshot{}, err
	}
	snap.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("parsing fetched_at: %w", err)
	}

	lib, err := s.loadBooks(ctx, snap)
	if err != nil {
		return nil, Snapshot{}, err
	}
	return lib, snap, nil
}

func (s *Store) loadBooks(ctx context.Context, snap Snapshot) (*book.Library, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, author_name, number_of_pages, date_read,
		       user_rating, user_review, series_name, series_entry
		FROM books
		WHERE snapshot_id = ?
		ORDER BY position
	`, snap.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lib := &book.Library{UserID: snap.UserID}
	for rows.Next() {
		var (
			b        book.Book
			rating   int
			dateRead sql.NullString
		)
		if err := rows.Scan(&b.Title, &b.AuthorName, &b.NumberOfPages, &dateRead,
			&rating, &b.UserReview, &b.SeriesName, &b.SeriesEntry); err != nil {
			return nil, err
		}
		b.UserRating = book.Rating(rating)
		if dateRead.Valid {
			d, err := time.Parse(time.RFC3339, dateRead.String)
			if err != nil {
				return nil, fmt.Errorf("parsing date_read: %w", err)
			}
			b.DateRead = &d
		}
		lib.Books = append(lib.Books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lib, nil
}

// ListSnapshots returns all snapshots for a user, newest first.
func (s *Store) ListSnapshots(ctx context.Context, userID int) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, fetched_at, book_count
		FROM snapshots
		WHERE user_id = ?
		ORDER BY fetched_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var (
			snap      Snapshot
			fetchedAt string
		)
		if err := rows.Scan(&snap.ID, &snap.UserID, &fetchedAt, &snap.BookCount); err != nil {
			return nil, err
		}
		snap.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing fetched_at: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snaps, nil
}
