package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genetrack-backend-go/internal/models"
)

func TestRegistryIsConsistent(t *testing.T) {
	if err := Validate(Tables()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsForwardReference(t *testing.T) {
	tables := []Table{
		{Name: "orders", Columns: []Column{id(), uuidRef("product_id")}, ForeignKeys: []ForeignKey{{Column: "product_id", RefTable: "products", OnDelete: Restrict}}},
		{Name: "products", Columns: []Column{id()}},
	}
	if err := Validate(tables); err == nil {
		t.Fatal("expected forward reference to be rejected")
	}
}

func TestValidateRejectsSetNullOnRequiredColumn(t *testing.T) {
	tables := []Table{
		{Name: "users", Columns: []Column{id()}},
		{Name: "sessions", Columns: []Column{id(), uuidRef("user_id")}, ForeignKeys: []ForeignKey{{Column: "user_id", RefTable: "users", OnDelete: SetNull}}},
	}
	if err := Validate(tables); err == nil {
		t.Fatal("expected SET NULL on NOT NULL column to be rejected")
	}
}

func TestDeletePolicies(t *testing.T) {
	cases := []struct {
		table  string
		column string
		ref    string
		policy OnDelete
	}{
		{"sessions", "user_id", "users", SetNull},
		{"tokens", "user_id", "users", Cascade},
		{"api_access_logs", "token_id", "tokens", Restrict},
		{"events", "user_id", "users", SetNull},
		{"organisation_users", "organisation_id", "organisations", Cascade},
		{"organisation_users", "user_id", "users", Cascade},
		{"office_units", "organisation_id", "organisations", Cascade},
		{"notification_preferences", "user_id", "users", Cascade},
		{"subjects", "user_id", "users", Cascade},
		{"subjects", "office_unit_id", "office_units", SetNull},
		{"subject_files", "subject_id", "subjects", Cascade},
		{"orders", "subject_id", "subjects", Cascade},
		{"orders", "product_id", "products", Restrict},
		{"samples", "subject_id", "subjects", SetNull},
		{"products", "user_id", "users", Cascade},
		{"reports", "subject_id", "subjects", Cascade},
		{"reports", "uploader_id", "users", SetNull},
		{"reports", "order_id", "orders", Restrict},
		{"subject_shares", "subject_id", "subjects", Cascade},
		{"subject_shares", "user_id", "users", Cascade},
		{"payments", "subject_id", "subjects", SetNull},
		{"finance_settings", "user_id", "users", Cascade},
		{"finance_settings", "creator_id", "users", SetNull},
		{"finance_setting_samples", "finance_setting_id", "finance_settings", Cascade},
		{"finance_setting_samples", "sample_id", "samples", Cascade},
	}
	for _, tc := range cases {
		t.Run(tc.table+"."+tc.column, func(t *testing.T) {
			table, ok := Lookup(tc.table)
			if !ok {
				t.Fatalf("table %s missing", tc.table)
			}
			var found *ForeignKey
			for i := range table.ForeignKeys {
				if table.ForeignKeys[i].Column == tc.column {
					found = &table.ForeignKeys[i]
				}
			}
			if found == nil {
				t.Fatalf("no foreign key on %s.%s", tc.table, tc.column)
			}
			if found.RefTable != tc.ref || found.OnDelete != tc.policy {
				t.Fatalf("got %s %s, want %s %s", found.RefTable, found.OnDelete, tc.ref, tc.policy)
			}
		})
	}
}

func TestEventSubjectIsNotAForeignKey(t *testing.T) {
	events, _ := Lookup("events")
	for _, fk := range events.ForeignKeys {
		if fk.Column == "subject_id" {
			t.Fatal("events.subject_id must stay a plain column")
		}
	}
	if _, ok := events.Column("subject_id"); !ok {
		t.Fatal("events.subject_id missing")
	}
}

func TestUniqueColumns(t *testing.T) {
	for _, ref := range []string{"users.email", "sessions.handle", "subjects.internal_id", "orders.arcensus_order_id", "samples.device_id", "users.internal_id", "notification_preferences.user_id"} {
		parts := strings.SplitN(ref, ".", 2)
		table, _ := Lookup(parts[0])
		col, ok := table.Column(parts[1])
		if !ok || !col.Unique {
			t.Errorf("%s should be unique", ref)
		}
	}
}

func TestEnumColumnsMatchModels(t *testing.T) {
	for ref, values := range models.EnumValues() {
		parts := strings.SplitN(ref, ".", 2)
		table, ok := Lookup(parts[0])
		if !ok {
			t.Fatalf("enum %s on unknown table", ref)
		}
		col, ok := table.Column(parts[1])
		if !ok {
			t.Fatalf("enum %s on unknown column", ref)
		}
		if strings.Join(col.Enum, ",") != strings.Join(values, ",") {
			t.Errorf("%s: got %v want %v", ref, col.Enum, values)
		}
		want := 50
		if ref == "events.type" {
			want = 255
		}
		if col.Size != want {
			t.Errorf("%s: size %d want %d", ref, col.Size, want)
		}
	}
}

func TestReferencesListsInboundKeys(t *testing.T) {
	refs := References("subjects")
	got := map[string]OnDelete{}
	for _, ref := range refs {
		got[ref.Table+"."+ref.Column] = ref.OnDelete
	}
	want := map[string]OnDelete{
		"orders.subject_id":         Cascade,
		"payments.subject_id":       SetNull,
		"reports.subject_id":        Cascade,
		"samples.subject_id":        SetNull,
		"subject_files.subject_id":  Cascade,
		"subject_shares.subject_id": Cascade,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for key, policy := range want {
		if got[key] != policy {
			t.Errorf("%s: got %q want %q", key, got[key], policy)
		}
	}
}

func TestDDLRendersConstraints(t *testing.T) {
	for _, d := range []Dialect{Postgres, SQLite} {
		ddl := DDL(d)
		for _, fragment := range []string{
			"CONSTRAINT fk_orders_product_id FOREIGN KEY (product_id) REFERENCES products (id) ON DELETE NO ACTION",
			"CONSTRAINT fk_samples_subject_id FOREIGN KEY (subject_id) REFERENCES subjects (id) ON DELETE SET NULL",
			"CONSTRAINT fk_subjects_user_id FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE",
			"CONSTRAINT ck_payments_status CHECK (status IN ('Initiated', 'Failed', 'OK'))",
			"PRIMARY KEY (organisation_id, user_id)",
		} {
			if !strings.Contains(ddl, fragment) {
				t.Errorf("%s ddl missing %q", d, fragment)
			}
		}
	}
	if !strings.Contains(DDL(Postgres), "email VARCHAR(254) NOT NULL UNIQUE") {
		t.Error("postgres users.email not rendered as unique varchar")
	}
	if !strings.Contains(DDL(SQLite), "created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP") {
		t.Error("sqlite timestamps should default to CURRENT_TIMESTAMP")
	}
}

func TestCommittedMigrationsMatchRegistry(t *testing.T) {
	for _, d := range []Dialect{Postgres, SQLite} {
		path := filepath.Join("..", "..", "migrations", string(d), "V1__clinical_schema.sql")
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(content) != DDL(d) {
			t.Errorf("%s is stale; run go run ./cmd/schemagen", path)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	script := "-- header\nCREATE TABLE a (x TEXT DEFAULT 'a;b');\n\nCREATE INDEX i ON a (x);\nSELECT 1"
	stmts := SplitStatements(script)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (x TEXT DEFAULT 'a;b')" {
		t.Fatalf("unexpected first statement %q", stmts[0])
	}
}

func TestDialectForDriver(t *testing.T) {
	if d, err := DialectForDriver("pgx"); err != nil || d != Postgres {
		t.Fatalf("pgx: %v %v", d, err)
	}
	if d, err := DialectForDriver("sqlite"); err != nil || d != SQLite {
		t.Fatalf("sqlite: %v %v", d, err)
	}
	if _, err := DialectForDriver("mysql"); err == nil {
		t.Fatal("expected mysql to be unsupported")
	}
}
