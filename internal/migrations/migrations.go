package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"genetrack-backend-go/internal/schema"

	"github.com/jmoiron/sqlx"
)

type Migration struct {
	Name    string
	Version string
}

// Apply runs every migration in fsys that is not yet recorded in
// schema_migrations. Each file runs in its own transaction.
func Apply(ctx context.Context, db *sqlx.DB, fsys fs.FS, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ensureTable(ctx, db); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	migs, err := ListMigrations(fsys)
	if err != nil {
		return err
	}
	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}
	for _, mig := range migs {
		if applied.names[mig.Name] || (mig.Version != "" && applied.versions[mig.Version]) {
			continue
		}
		if err := applyMigration(ctx, db, fsys, mig); err != nil {
			return err
		}
		logger.Info("migration applied", "name", mig.Name, "version", mig.Version)
	}
	return nil
}

func ensureTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name TEXT NOT NULL UNIQUE,
  version TEXT NULL UNIQUE,
  applied_at TIMESTAMP NOT NULL
)`)
	return err
}

// ListMigrations returns the .sql files at the root of fsys ordered by their
// V<n>__ prefix. Files without a numeric version sort last by name.
func ListMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	migs := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		migs = append(migs, Migration{Name: name, Version: parseVersion(name)})
	}
	sort.Slice(migs, func(i, j int) bool {
		iVersion, iOk := parseVersionNumber(migs[i].Name)
		jVersion, jOk := parseVersionNumber(migs[j].Name)
		switch {
		case iOk && jOk && iVersion != jVersion:
			return iVersion < jVersion
		case iOk != jOk:
			return iOk
		default:
			return migs[i].Name < migs[j].Name
		}
	})
	return migs, nil
}

type appliedSet struct {
	names    map[string]bool
	versions map[string]bool
}

func appliedMigrations(ctx context.Context, db *sqlx.DB) (appliedSet, error) {
	rows := []struct {
		Name    string  `db:"name"`
		Version *string `db:"version"`
	}{}
	if err := db.SelectContext(ctx, &rows, `SELECT name, version FROM schema_migrations`); err != nil {
		return appliedSet{}, err
	}
	set := appliedSet{names: map[string]bool{}, versions: map[string]bool{}}
	for _, row := range rows {
		set.names[row.Name] = true
		if row.Version != nil {
			set.versions[*row.Version] = true
		}
	}
	return set, nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, fsys fs.FS, mig Migration) error {
	content, err := fs.ReadFile(fsys, path.Clean(mig.Name))
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, stmt := range schema.SplitStatements(string(content)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply %s: %w", mig.Name, err)
		}
	}
	_, err = tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO schema_migrations (name, version, applied_at) VALUES (?, ?, ?)`),
		mig.Name, nullIfEmpty(mig.Version), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", mig.Name, err)
	}
	return tx.Commit()
}

func parseVersion(name string) string {
	if !strings.HasPrefix(name, "V") {
		return ""
	}
	parts := strings.SplitN(name[1:], "__", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

func parseVersionNumber(name string) (int, bool) {
	raw := parseVersion(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func nullIfEmpty(value string) interface{} {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
