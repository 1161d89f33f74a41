package httpapi

import (
	"net/http"

	"genetrack-backend-go/internal/schema"

	"github.com/go-chi/chi/v5"
)

type ColumnDTO struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Size       int      `json:"size,omitempty"`
	Nullable   bool     `json:"nullable"`
	Unique     bool     `json:"unique"`
	PrimaryKey bool     `json:"primaryKey"`
	Default    string   `json:"default,omitempty"`
	Enum       []string `json:"enum,omitempty"`
}

type ForeignKeyDTO struct {
	Column     string `json:"column"`
	References string `json:"references"`
	OnDelete   string `json:"onDelete"`
}

type TableDTO struct {
	Name        string          `json:"name"`
	Columns     []ColumnDTO     `json:"columns"`
	ForeignKeys []ForeignKeyDTO `json:"foreignKeys"`
	PrimaryKey  []string        `json:"primaryKey,omitempty"`
}

type SchemaResponse struct {
	Tables []TableDTO `json:"tables"`
}

func mapTable(t schema.Table) TableDTO {
	out := TableDTO{
		Name:        t.Name,
		Columns:     make([]ColumnDTO, 0, len(t.Columns)),
		ForeignKeys: make([]ForeignKeyDTO, 0, len(t.ForeignKeys)),
		PrimaryKey:  t.PrimaryKey,
	}
	for _, col := range t.Columns {
		out.Columns = append(out.Columns, ColumnDTO{
			Name:       col.Name,
			Type:       col.Type.String(),
			Size:       col.Size,
			Nullable:   col.Nullable,
			Unique:     col.Unique,
			PrimaryKey: col.PrimaryKey,
			Default:    col.Default,
			Enum:       col.Enum,
		})
	}
	for _, fk := range t.ForeignKeys {
		out.ForeignKeys = append(out.ForeignKeys, ForeignKeyDTO{
			Column:     fk.Column,
			References: fk.RefTable,
			OnDelete:   string(fk.OnDelete),
		})
	}
	return out
}

func (s *Server) Schema(w http.ResponseWriter, r *http.Request) {
	tables := schema.Tables()
	resp := SchemaResponse{Tables: make([]TableDTO, 0, len(tables))}
	for _, t := range tables {
		resp.Tables = append(resp.Tables, mapTable(t))
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) SchemaTable(w http.ResponseWriter, r *http.Request) {
	t, ok := schema.Lookup(chi.URLParam(r, "table"))
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown table")
		return
	}
	WriteJSON(w, http.StatusOK, mapTable(t))
}
