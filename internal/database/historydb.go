package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/rfctools/wikihist/internal/model"
)

// ErrHistoryNotFound is returned when no archived history exists for a slug.
var ErrHistoryNotFound = errors.New("no archived history for page")

// HistoryDB provides SQLite-based storage for crawled revision histories.
// Each crawl of a page is archived as a run; the revisions of the latest
// run are what History returns.
//
// Design decision: We keep every run rather than overwriting, so the
// archive doubles as a record of how a page's history grew over time.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Run describes one archived crawl.
type Run struct {
	// ID is the run's UUID.
	ID string

	// Slug is the wiki page slug that was crawled.
	Slug string

	// WikiURL is the revision-log root the crawl used.
	WikiURL string

	// FetchedAt is when the crawl started.
	FetchedAt time.Time

	// RevisionCount is the number of records the crawl produced.
	RevisionCount int
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "wikihist.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to refuse creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs archive one crawl of one page each
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL,
		wiki_url TEXT NOT NULL,
		fetched_at DATETIME NOT NULL,
		revision_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_slug ON runs(slug);
	CREATE INDEX IF NOT EXISTS idx_runs_fetched_at ON runs(fetched_at);

	-- Revisions belong to a run; position preserves crawl order
	CREATE TABLE IF NOT EXISTS revisions (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		rev INTEGER NOT NULL,
		date TEXT NOT NULL,
		author TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveHistory archives a crawled history as a new run and returns the run
// ID. Revisions are stored in crawl order.
func (hdb *HistoryDB) SaveHistory(ctx context.Context, h *model.History) (string, error) {
	runID := uuid.NewString()

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, slug, wiki_url, fetched_at, revision_count) VALUES (?, ?, ?, ?, ?)`,
		runID, h.Slug, h.WikiURL, h.FetchedAt.UTC(), len(h.Revisions),
	); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for i, rev := range h.Revisions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO revisions (run_id, position, rev, date, author, email, message) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, rev.Rev, rev.Date, rev.Author, rev.Email, rev.Message,
		); err != nil {
			return "", fmt.Errorf("failed to insert revision %d: %w", rev.Rev, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	return runID, nil
}

// History returns the most recently archived history for a slug.
// It returns ErrHistoryNotFound when the page was never archived.
func (hdb *HistoryDB) History(ctx context.Context, slug string) (*model.History, error) {
	var (
		runID     string
		wikiURL   string
		fetchedAt time.Time
	)
	err := hdb.db.QueryRowContext(ctx,
		`SELECT id, wiki_url, fetched_at FROM runs WHERE slug = ? ORDER BY fetched_at DESC, id LIMIT 1`,
		slug,
	).Scan(&runID, &wikiURL, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrHistoryNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := hdb.db.QueryContext(ctx,
		`SELECT rev, date, author, email, message FROM revisions WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	h := &model.History{
		Slug:      slug,
		WikiURL:   wikiURL,
		FetchedAt: fetchedAt,
		Revisions: make([]model.Revision, 0),
	}
	for rows.Next() {
		var rev model.Revision
		if err := rows.Scan(&rev.Rev, &rev.Date, &rev.Author, &rev.Email, &rev.Message); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		h.Revisions = append(h.Revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revisions: %w", err)
	}

	return h, nil
}

// Runs lists all archived runs, newest first.
func (hdb *HistoryDB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := hdb.db.QueryContext(ctx,
		`SELECT id, slug, wiki_url, fetched_at, revision_count FROM runs ORDER BY fetched_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Slug, &r.WikiURL, &r.FetchedAt, &r.RevisionCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}
