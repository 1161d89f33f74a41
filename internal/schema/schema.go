// Package schema declares the relational layout of the platform: every table,
// column, uniqueness rule, enumeration and foreign key with its delete policy.
// The DDL shipped in migrations/ is rendered from these declarations.
package schema

import (
	"fmt"
	"sort"
)

type ColumnType int

const (
	TypeUUID ColumnType = iota
	TypeVarchar
	TypeText
	TypeInteger
	TypeBigInt
	TypeBoolean
	TypeTimestamp
	TypeJSON
)

var columnTypeNames = map[ColumnType]string{
	TypeUUID:      "uuid",
	TypeVarchar:   "varchar",
	TypeText:      "text",
	TypeInteger:   "integer",
	TypeBigInt:    "bigint",
	TypeBoolean:   "boolean",
	TypeTimestamp: "timestamp",
	TypeJSON:      "json",
}

func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// OnDelete is the action taken on referencing rows when the referenced row is deleted.
type OnDelete string

const (
	Cascade  OnDelete = "CASCADE"
	SetNull  OnDelete = "SET NULL"
	Restrict OnDelete = "RESTRICT"
)

// DefaultNow marks a timestamp column filled with the current time.
const DefaultNow = "now()"

type Column struct {
	Name       string
	Type       ColumnType
	Size       int
	Nullable   bool
	Unique     bool
	PrimaryKey bool
	Default    string
	Enum       []string
}

func (c Column) Null() Column {
	c.Nullable = true
	return c
}

func (c Column) Uniq() Column {
	c.Unique = true
	return c
}

func (c Column) Def(sqlLiteral string) Column {
	c.Default = sqlLiteral
	return c
}

func (c Column) Width(size int) Column {
	c.Size = size
	return c
}

func (c Column) OneOf(values []string) Column {
	c.Enum = append([]string(nil), values...)
	return c
}

type ForeignKey struct {
	Column   string
	RefTable string
	OnDelete OnDelete
}

type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
	// PrimaryKey is set for join tables keyed by their two references.
	PrimaryKey []string
}

func (t Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Inbound is a foreign key seen from the referenced table.
type Inbound struct {
	Table string
	ForeignKey
}

// References lists the foreign keys pointing at table, sorted by referencing table.
func References(table string) []Inbound {
	var refs []Inbound
	for _, t := range Tables() {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable == table {
				refs = append(refs, Inbound{Table: t.Name, ForeignKey: fk})
			}
		}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Table < refs[j].Table })
	return refs
}

// Lookup returns the declaration of a table by name.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Validate checks that the registry is internally consistent.
func Validate(tables []Table) error {
	seen := map[string]bool{}
	for _, t := range tables {
		if seen[t.Name] {
			return fmt.Errorf("table %q declared twice", t.Name)
		}
		for _, fk := range t.ForeignKeys {
			if !seen[fk.RefTable] {
				return fmt.Errorf("%s.%s references %q before it is declared", t.Name, fk.Column, fk.RefTable)
			}
			col, ok := t.Column(fk.Column)
			if !ok {
				return fmt.Errorf("%s: foreign key on unknown column %q", t.Name, fk.Column)
			}
			if fk.OnDelete == SetNull && !col.Nullable {
				return fmt.Errorf("%s.%s is SET NULL but not nullable", t.Name, fk.Column)
			}
		}
		for _, key := range t.PrimaryKey {
			if _, ok := t.Column(key); !ok {
				return fmt.Errorf("%s: primary key on unknown column %q", t.Name, key)
			}
		}
		seen[t.Name] = true
	}
	return nil
}
