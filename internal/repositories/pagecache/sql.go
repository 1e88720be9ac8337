package pagecache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/lenna/internal/errors"
)

const defaultTable = "page_cache"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type sqlRepository struct {
	db        *sql.DB
	getQuery  string
	putQuery  string
	tableName string
}

// SQLConfig contains configuration for the SQL page cache.
type SQLConfig struct {
	DB *sql.DB
	// Table name (optional, defaults to "page_cache")
	Table string
	// SkipMigrate leaves schema creation to the caller
	SkipMigrate bool
}

// Validate validates the SQLConfig and sets defaults if not provided.
func (cfg *SQLConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.DB == nil {
		return errors.InvalidArgument("db cannot be nil")
	}
	if cfg.Table == "" {
		cfg.Table = defaultTable
	}
	if !tableNamePattern.MatchString(cfg.Table) {
		return errors.InvalidArgumentf("invalid table name %q", cfg.Table)
	}
	return nil
}

// NewSQL creates a SQL-backed page cache. Writes are single-statement
// upserts, so an entry is either fully replaced or untouched.
func NewSQL(ctx context.Context, cfg *SQLConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &sqlRepository{
		db:        cfg.DB,
		tableName: cfg.Table,
		getQuery:  fmt.Sprintf(`SELECT payload, fetched_at, updateable FROM %s WHERE page_id = ?`, cfg.Table),
		putQuery: fmt.Sprintf(`INSERT INTO %s (page_id, payload, fetched_at, updateable) VALUES (?, ?, ?, ?)
ON CONFLICT(page_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at, updateable = excluded.updateable`, cfg.Table),
	}

	if !cfg.SkipMigrate {
		if err := r.migrate(ctx); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *sqlRepository) migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	page_id    TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	fetched_at TEXT NOT NULL,
	updateable INTEGER NOT NULL
)`, r.tableName)
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrapf(err, "failed to create table %s", r.tableName)
	}
	return nil
}

func (r *sqlRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	id, err := validateGet(input)
	if err != nil {
		return nil, err
	}

	var (
		payload    []byte
		fetchedAt  string
		updateable bool
	)
	err = r.db.QueryRowContext(ctx, r.getQuery, id).Scan(&payload, &fetchedAt, &updateable)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("page %s not cached", id)
		}
		return nil, errors.Wrapf(err, "failed to get page %s", id)
	}

	fetched, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid fetched_at for page %s", id)
	}

	return &GetOutput{Entry: &Entry{
		PageID:     id,
		Payload:    payload,
		FetchedAt:  fetched.UTC(),
		Updateable: updateable,
	}}, nil
}

func (r *sqlRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	entry, err := validatePut(input)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, r.putQuery,
		entry.PageID, entry.Payload, entry.FetchedAt.Format(time.RFC3339Nano), entry.Updateable)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store page %s", entry.PageID)
	}

	slog.DebugContext(ctx, "stored page in sql", "page_id", entry.PageID, "updateable", entry.Updateable)
	return &PutOutput{Entry: entry}, nil
}

// OpenSQLite opens a SQLite database with WAL journaling and a busy timeout
// so concurrent lookups do not fail on lock contention.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create database dir %s", dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "failed to apply %q", pragma)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping %s", path)
	}
	return db, nil
}
