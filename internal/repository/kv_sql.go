package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const kvTable = "kv_store"

// SQLKV keeps values in a two-column table, one row per key.  It speaks
// both the MySQL and the Postgres dialect; the driver name decides which
// upsert and placeholder form is used.
type SQLKV struct {
	db     *sqlx.DB
	sb     sq.StatementBuilderType
	driver string
}

type kvRow struct {
	K string `db:"k"`
	V string `db:"v"`
}

// NewSQLKV wraps db.  EnsureSchema should be called once before use.
func NewSQLKV(db *sqlx.DB) *SQLKV {
	s := &SQLKV{db: db, driver: db.DriverName(), sb: sq.StatementBuilder}
	if s.postgres() {
		s.sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return s
}

func (s *SQLKV) postgres() bool {
	return s.driver == "postgres" || s.driver == "pgx"
}

// EnsureSchema creates the backing table if it does not exist.
func (s *SQLKV) EnsureSchema(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS ` + kvTable + ` (
  k VARCHAR(191) NOT NULL PRIMARY KEY,
  v LONGTEXT NOT NULL
)`
	if s.postgres() {
		ddl = `CREATE TABLE IF NOT EXISTS ` + kvTable + ` (
  k VARCHAR(191) PRIMARY KEY,
  v TEXT NOT NULL
)`
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", kvTable, err)
	}
	return nil
}

func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.sb.Select("k", "v").From(kvTable).Where(sq.Eq{"k": key}).ToSql()
	if err != nil {
		return nil, err
	}
	var row kvRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(row.V), nil
}

// Put upserts all entries inside one transaction.
func (s *SQLKV) Put(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		query, args, err := s.upsert(e).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

func (s *SQLKV) upsert(e Entry) sq.InsertBuilder {
	b := s.sb.Insert(kvTable).Columns("k", "v").Values(e.Key, string(e.Value))
	if s.postgres() {
		return b.Suffix("ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v")
	}
	return b.Suffix("ON DUPLICATE KEY UPDATE v = VALUES(v)")
}

func (s *SQLKV) Close() error {
	return s.db.Close()
}
