package migrations

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"genetrack-backend-go/internal/db"
	"genetrack-backend-go/internal/schema"
)

func TestListMigrationsOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql":     {Data: []byte("SELECT 1;")},
		"V2__second.sql":     {Data: []byte("SELECT 1;")},
		"V1__first.sql":      {Data: []byte("SELECT 1;")},
		"seed_dev_data.sql":  {Data: []byte("SELECT 1;")},
		"README.md":          {Data: []byte("docs")},
		"nested/V3__sub.sql": {Data: []byte("SELECT 1;")},
	}
	migs, err := ListMigrations(fsys)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"V1__first.sql", "V2__second.sql", "V10__later.sql", "seed_dev_data.sql"}
	if len(migs) != len(want) {
		t.Fatalf("got %d migrations, want %d", len(migs), len(want))
	}
	for i, name := range want {
		if migs[i].Name != name {
			t.Fatalf("position %d: got %s want %s", i, migs[i].Name, name)
		}
	}
	if migs[0].Version != "1" || migs[3].Version != "" {
		t.Fatalf("unexpected versions %q %q", migs[0].Version, migs[3].Version)
	}
}

func TestParseVersion(t *testing.T) {
	cases := map[string]string{
		"V1__clinical_schema.sql": "1",
		"V12__add_index.sql":      "12",
		"V1.sql":                  "",
		"clinical.sql":            "",
	}
	for name, want := range cases {
		if got := parseVersion(name); got != want {
			t.Errorf("parseVersion(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestApplyCreatesSchemaOnce(t *testing.T) {
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	fsys := os.DirFS(filepath.Join("..", "..", "migrations", "sqlite"))
	for i := 0; i < 2; i++ {
		if err := Apply(ctx, database, fsys, nil); err != nil {
			t.Fatalf("apply run %d: %v", i+1, err)
		}
	}

	var recorded int
	if err := database.GetContext(ctx, &recorded, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if recorded != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", recorded)
	}

	for _, table := range schema.Tables() {
		var name string
		err := database.GetContext(ctx, &name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table.Name)
		if err != nil {
			t.Errorf("table %s not created: %v", table.Name, err)
		}
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "broken.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	fsys := fstest.MapFS{
		"V1__broken.sql": {Data: []byte("CREATE TABLE good (id TEXT);\nCREATE TABLE;\n")},
	}
	if err := Apply(ctx, database, fsys, nil); err == nil {
		t.Fatal("expected broken migration to fail")
	}
	var count int
	if err := database.GetContext(ctx, &count, `SELECT COUNT(*) FROM sqlite_master WHERE name = 'good'`); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if count != 0 {
		t.Fatal("partial migration was not rolled back")
	}
}
