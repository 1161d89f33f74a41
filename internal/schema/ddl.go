package schema

import (
	"fmt"
	"strings"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DialectForDriver maps a database/sql driver name to its dialect.
func DialectForDriver(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported driver %q", driver)
}

// DDL renders CREATE statements for every table plus an index on each
// foreign key column.
func DDL(d Dialect) string {
	var b strings.Builder
	b.WriteString("-- Code generated by cmd/schemagen. DO NOT EDIT.\n")
	for _, t := range Tables() {
		b.WriteString("\n")
		b.WriteString(createTable(d, t))
		for _, fk := range t.ForeignKeys {
			if col, _ := t.Column(fk.Column); col.Unique {
				continue
			}
			if len(t.PrimaryKey) > 0 && t.PrimaryKey[0] == fk.Column {
				continue
			}
			fmt.Fprintf(&b, "CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s);\n", t.Name, fk.Column, t.Name, fk.Column)
		}
	}
	return b.String()
}

func createTable(d Dialect, t Table) string {
	lines := make([]string, 0, len(t.Columns)+len(t.ForeignKeys)+1)
	for _, col := range t.Columns {
		lines = append(lines, columnDef(d, col))
	}
	if len(t.PrimaryKey) > 0 {
		lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", ")))
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, fmt.Sprintf(
			"CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (id) ON DELETE %s",
			t.Name, fk.Column, fk.Column, fk.RefTable, deleteAction(fk.OnDelete),
		))
	}
	for _, col := range t.Columns {
		if len(col.Enum) == 0 {
			continue
		}
		values := make([]string, len(col.Enum))
		for i, v := range col.Enum {
			values[i] = quoted(v)
		}
		lines = append(lines, fmt.Sprintf(
			"CONSTRAINT ck_%s_%s CHECK (%s IN (%s))",
			t.Name, col.Name, col.Name, strings.Join(values, ", "),
		))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);\n", t.Name, strings.Join(lines, ",\n  "))
}

// deleteAction renders Restrict as NO ACTION: the check runs at the end of the
// statement, so rows removed by the same cascade do not block the delete.
func deleteAction(policy OnDelete) string {
	if policy == Restrict {
		return "NO ACTION"
	}
	return string(policy)
}

func columnDef(d Dialect, col Column) string {
	parts := []string{col.Name, columnType(d, col)}
	switch {
	case col.PrimaryKey:
		parts = append(parts, "PRIMARY KEY")
	case col.Nullable:
		parts = append(parts, "NULL")
	default:
		parts = append(parts, "NOT NULL")
	}
	if col.Unique {
		parts = append(parts, "UNIQUE")
	}
	if col.Default != "" {
		parts = append(parts, "DEFAULT "+defaultExpr(d, col.Default))
	}
	return strings.Join(parts, " ")
}

func columnType(d Dialect, col Column) string {
	if d == SQLite {
		switch col.Type {
		case TypeInteger, TypeBigInt:
			return "INTEGER"
		case TypeBoolean:
			return "BOOLEAN"
		case TypeTimestamp:
			return "TIMESTAMP"
		default:
			return "TEXT"
		}
	}
	switch col.Type {
	case TypeUUID:
		return "UUID"
	case TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", col.Size)
	case TypeInteger:
		return "INTEGER"
	case TypeBigInt:
		return "BIGINT"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMPTZ"
	case TypeJSON:
		return "JSONB"
	default:
		return "TEXT"
	}
}

func defaultExpr(d Dialect, value string) string {
	if value == DefaultNow && d == SQLite {
		return "CURRENT_TIMESTAMP"
	}
	return value
}

// SplitStatements breaks a SQL script into statements, dropping comment lines
// and ignoring semicolons inside quoted literals.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
		inQuote bool
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inQuote && (trimmed == "" || strings.HasPrefix(trimmed, "--")) {
			continue
		}
		for _, r := range line {
			if r == '\'' {
				inQuote = !inQuote
			}
			if r == ';' && !inQuote {
				if stmt := strings.TrimSpace(current.String()); stmt != "" {
					stmts = append(stmts, stmt)
				}
				current.Reset()
				continue
			}
			current.WriteRune(r)
		}
		current.WriteRune('\n')
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts
}
