package sqlite

import (
	"context"
	"database/sql"

	"github.com/juju/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/quarrydata/taskpipe/store"
)

var (
	_ store.Store = &sqliteStore{}
)

// sqliteStore keeps run records in a single local file, for CLI use where a
// postgres server is not worth the ceremony.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file and prepares the
// backing table.
func NewSQLiteStore(path string) (store.Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Annotatef(err, "failed to open sqlite database %s", path)
	}

	// sqlite works best with a single connection for writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &sqliteStore{db: db}
	if err := s.initTable(context.Background()); err != nil {
		db.Close()
		return nil, errors.Annotatef(err, "failed to initialize table")
	}
	return s, nil
}

func (s *sqliteStore) initTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS taskpipe_store (
			prefix TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (prefix, key)
		);
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return errors.Annotatef(err, "failed to create table")
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, prefix, key string) ([]byte, error) {
	query := `SELECT value FROM taskpipe_store WHERE prefix = ? AND key = ?`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, prefix, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Annotatef(err, "failed to get value for prefix=%s, key=%s", prefix, key)
	}
	return value, nil
}

func (s *sqliteStore) Set(ctx context.Context, prefix, key string, value []byte) error {
	query := `
		INSERT INTO taskpipe_store (prefix, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (prefix, key)
		DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, prefix, key, value); err != nil {
		return errors.Annotatef(err, "failed to set value for prefix=%s, key=%s", prefix, key)
	}
	return nil
}

func (s *sqliteStore) Remove(ctx context.Context, prefix, key string) error {
	query := `DELETE FROM taskpipe_store WHERE prefix = ? AND key = ?`

	if _, err := s.db.ExecContext(ctx, query, prefix, key); err != nil {
		return errors.Annotatef(err, "failed to remove value for prefix=%s, key=%s", prefix, key)
	}
	return nil
}

func (s *sqliteStore) List(ctx context.Context, prefix string, iterator func(key string) bool) error {
	query := `SELECT key FROM taskpipe_store WHERE prefix = ? ORDER BY key`

	rows, err := s.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return errors.Annotatef(err, "failed to list keys for prefix=%s", prefix)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return errors.Annotatef(err, "failed to scan key")
		}
		if !iterator(key) {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return errors.Annotatef(err, "error iterating rows")
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
