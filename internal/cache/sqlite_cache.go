package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/forumsite/internal/forum"
)

// SQLiteFile is the database file name inside the cache directory.
const SQLiteFile = "cache.db"

// SQLiteCache stores all entity kinds in one SQLite database.
type SQLiteCache struct {
	dir string
}

// NewSQLiteCache creates a SQLite cache in dir.
func NewSQLiteCache(dir string) *SQLiteCache { return &SQLiteCache{dir: dir} }

func (c *SQLiteCache) Backend() string  { return BackendSQLite }
func (c *SQLiteCache) Location() string { return filepath.Join(c.dir, SQLiteFile) }

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	kind TEXT NOT NULL,
	position INTEGER NOT NULL,
	key INTEGER NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (kind, position)
);
CREATE INDEX IF NOT EXISTS idx_entries_kind_key ON entries(kind, key);
`

func (c *SQLiteCache) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", c.Location())
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return db, nil
}

// Save replaces the cache contents in one transaction.
func (c *SQLiteCache) Save(ctx context.Context, store *forum.Store) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return cacheFailure(err, "create cache directory", c.dir)
	}
	db, err := c.open(ctx)
	if err != nil {
		return cacheFailure(err, "open cache", c.Location())
	}
	defer db.Close()

	if err := c.save(ctx, db, snapshotOf(store)); err != nil {
		return cacheFailure(err, "write cache", c.Location())
	}
	return nil
}

func (c *SQLiteCache) save(ctx context.Context, db *sql.DB, s snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO entries (kind, position, key, payload) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	insert := func(kind string, pos int, k string, v any) error {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", kind, k, err)
		}
		if _, err := stmt.ExecContext(ctx, kind, pos, k, string(payload)); err != nil {
			return fmt.Errorf("insert %s %s: %w", kind, k, err)
		}
		return nil
	}
	for i, e := range s.Discussions {
		if err := insert(KindDiscussions, i, e.Key, e.Value); err != nil {
			return err
		}
	}
	for i, e := range s.Comments {
		if err := insert(KindComments, i, e.Key, e.Value); err != nil {
			return err
		}
	}
	for i, e := range s.Members {
		if err := insert(KindMembers, i, e.Key, e.Value); err != nil {
			return err
		}
	}
	for i, e := range s.Categories {
		if err := insert(KindCategories, i, e.Key, e.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load reads the database. A missing database fails the load.
func (c *SQLiteCache) Load(ctx context.Context) (*forum.Store, error) {
	if _, err := os.Stat(c.Location()); err != nil {
		return nil, cacheFailure(err, "read cache", c.Location())
	}
	db, err := c.open(ctx)
	if err != nil {
		return nil, cacheFailure(err, "open cache", c.Location())
	}
	defer db.Close()

	var s snapshot
	if s.Discussions, err = queryEntries[forum.Discussion](ctx, db, KindDiscussions); err != nil {
		return nil, cacheFailure(err, "read cache", c.Location())
	}
	if s.Comments, err = queryEntries[[]forum.Comment](ctx, db, KindComments); err != nil {
		return nil, cacheFailure(err, "read cache", c.Location())
	}
	if s.Members, err = queryEntries[forum.Member](ctx, db, KindMembers); err != nil {
		return nil, cacheFailure(err, "read cache", c.Location())
	}
	if s.Categories, err = queryEntries[forum.Category](ctx, db, KindCategories); err != nil {
		return nil, cacheFailure(err, "read cache", c.Location())
	}
	store, err := s.restore()
	if err != nil {
		return nil, cacheFailure(err, "invalid cache contents", c.Location())
	}
	return store, nil
}

func queryEntries[T any](ctx context.Context, db *sql.DB, kind string) ([]entry[T], error) {
	rows, err := db.QueryContext(ctx,
		"SELECT CAST(key AS TEXT), payload FROM entries WHERE kind = ? ORDER BY position", kind)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	var out []entry[T]
	for rows.Next() {
		var k, payload string
		if err := rows.Scan(&k, &payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		var v T
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", kind, k, err)
		}
		out = append(out, entry[T]{Key: k, Value: v})
	}
	return out, rows.Err()
}
