// Package store persists the platform entities through sqlx. Column lists are
// taken from the schema registry so queries and DDL cannot drift apart.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"genetrack-backend-go/internal/schema"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Store struct {
	db     *sqlx.DB
	ext    sqlx.ExtContext
	logger *slog.Logger
	now    func() time.Time
}

func New(db *sqlx.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		ext:    db,
		logger: logger.With("component", "store"),
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

// WithClock returns a copy of s that stamps rows using now.
func (s *Store) WithClock(now func() time.Time) *Store {
	cp := *s
	cp.now = now
	return &cp
}

// Now is the store's clock, shared with callers that stamp related values.
func (s *Store) Now() time.Time { return s.now() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InTx runs fn against a Store bound to a single transaction. Nested calls
// reuse the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if _, ok := s.ext.(*sqlx.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	txStore := *s
	txStore.ext = tx
	if err := fn(&txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type tableQueries struct {
	selectAll string
	insert    string
	update    string
}

var queries = buildQueries(schema.Tables())

func buildQueries(tables []schema.Table) map[string]tableQueries {
	out := make(map[string]tableQueries, len(tables))
	for _, t := range tables {
		names := make([]string, 0, len(t.Columns))
		params := make([]string, 0, len(t.Columns))
		sets := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			names = append(names, col.Name)
			params = append(params, ":"+col.Name)
			if col.Name != "id" && col.Name != "created_at" {
				sets = append(sets, col.Name+" = :"+col.Name)
			}
		}
		out[t.Name] = tableQueries{
			selectAll: fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), t.Name),
			insert:    fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(names, ", "), strings.Join(params, ", ")),
			update:    fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", t.Name, strings.Join(sets, ", ")),
		}
	}
	return out
}

func selectFrom(table string) string {
	return queries[table].selectAll
}

// stamp assigns an id to new rows and sets both timestamps.
func (s *Store) stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := s.now()
	*created = now
	*updated = now
}

func (s *Store) insert(ctx context.Context, entity, table string, arg interface{}) error {
	start := time.Now()
	_, err := sqlx.NamedExecContext(ctx, s.ext, queries[table].insert, arg)
	return s.finish(entity, "create", start, err)
}

func (s *Store) update(ctx context.Context, entity, table string, arg interface{}) error {
	start := time.Now()
	res, err := sqlx.NamedExecContext(ctx, s.ext, queries[table].update, arg)
	if err == nil {
		err = expectRows(res)
	}
	return s.finish(entity, "update", start, err)
}

func (s *Store) exec(ctx context.Context, entity, op, query string, args ...interface{}) (int64, error) {
	start := time.Now()
	res, err := s.ext.ExecContext(ctx, s.ext.Rebind(query), args...)
	if err != nil {
		return 0, s.finish(entity, op, start, err)
	}
	n, err := res.RowsAffected()
	return n, s.finish(entity, op, start, err)
}

// execOne runs a statement that must touch at least one row.
func (s *Store) execOne(ctx context.Context, entity, op, query string, args ...interface{}) error {
	start := time.Now()
	res, err := s.ext.ExecContext(ctx, s.ext.Rebind(query), args...)
	if err == nil {
		err = expectRows(res)
	}
	return s.finish(entity, op, start, err)
}

func (s *Store) deleteByID(ctx context.Context, entity, table, id string) error {
	start := time.Now()
	res, err := s.ext.ExecContext(ctx, s.ext.Rebind("DELETE FROM "+table+" WHERE id = ?"), id)
	if err == nil {
		err = expectRows(res)
	}
	return s.finish(entity, "delete", start, err)
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func get[T any](ctx context.Context, s *Store, entity, query string, args ...interface{}) (*T, error) {
	start := time.Now()
	var out T
	if err := sqlx.GetContext(ctx, s.ext, &out, s.ext.Rebind(query), args...); err != nil {
		return nil, s.finish(entity, "get", start, err)
	}
	_ = s.finish(entity, "get", start, nil)
	return &out, nil
}

func list[T any](ctx context.Context, s *Store, entity, query string, args ...interface{}) ([]T, error) {
	start := time.Now()
	out := []T{}
	if err := sqlx.SelectContext(ctx, s.ext, &out, s.ext.Rebind(query), args...); err != nil {
		return nil, s.finish(entity, "list", start, err)
	}
	_ = s.finish(entity, "list", start, nil)
	return out, nil
}

// reject fails an operation before it reaches the database.
func (s *Store) reject(entity, op string, err error) error {
	return s.finish(entity, op, time.Now(), err)
}

// finish records metrics for an operation and converts driver errors into
// the package's sentinel errors.
func (s *Store) finish(entity, op string, start time.Time, err error) error {
	classified := classify(op, err)
	observe(entity, op, start, classified)
	if classified == nil {
		return nil
	}
	level := slog.LevelWarn
	if resultLabel(classified) != "error" {
		level = slog.LevelDebug
	}
	s.logger.Log(context.Background(), level, "store operation failed",
		"entity", entity, "op", op, "error", classified)
	return fmt.Errorf("%s %s: %w", op, entity, classified)
}
