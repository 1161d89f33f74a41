package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"genetrack-backend-go/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("unique constraint violated")
	ErrRestricted       = errors.New("still referenced by other rows")
	ErrMissingReference = errors.New("referenced row does not exist")
	ErrInvalid          = errors.New("invalid value")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidText         = "22P02"
	pgNumericOutOfRange   = "22003"
)

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrNotFound, ErrConflict, ErrRestricted, ErrMissingReference, ErrInvalid} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var enumErr *models.EnumError
	if errors.As(err, &enumErr) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return wrapKind(classifyPostgres(op, pgErr.Code), err)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return wrapKind(classifySQLite(op, liteErr.Code(), liteErr.Error()), err)
	}
	return err
}

func wrapKind(kind, err error) error {
	if kind == nil {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func classifyPostgres(op, code string) error {
	switch code {
	case pgUniqueViolation:
		return ErrConflict
	case pgForeignKeyViolation:
		return foreignKeyKind(op)
	case pgCheckViolation, pgNotNullViolation, pgInvalidText, pgNumericOutOfRange:
		return ErrInvalid
	}
	return nil
}

func classifySQLite(op string, code int, msg string) error {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ErrConflict
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return foreignKeyKind(op)
	case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return ErrInvalid
	}
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return nil
	}
	// Connections without extended result codes only report the primary code.
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrConflict
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return foreignKeyKind(op)
	case strings.Contains(msg, "CHECK constraint failed"), strings.Contains(msg, "NOT NULL constraint failed"):
		return ErrInvalid
	}
	return nil
}

func foreignKeyKind(op string) error {
	if op == "delete" {
		return ErrRestricted
	}
	return ErrMissingReference
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrRestricted):
		return "restricted"
	case errors.Is(err, ErrMissingReference):
		return "missing_reference"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	}
	return "error"
}
