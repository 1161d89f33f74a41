// Command schemagen renders the table registry into the per-dialect
// migration files under migrations/.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"genetrack-backend-go/internal/schema"
)

const migrationName = "V1__clinical_schema.sql"

func main() {
	out := flag.String("out", "migrations", "directory holding one sub-directory per dialect")
	flag.Parse()

	if err := schema.Validate(schema.Tables()); err != nil {
		log.Fatalf("schema: %v", err)
	}
	for _, dialect := range []schema.Dialect{schema.Postgres, schema.SQLite} {
		dir := filepath.Join(*out, string(dialect))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("mkdir %s: %v", dir, err)
		}
		path := filepath.Join(dir, migrationName)
		if err := os.WriteFile(path, []byte(schema.DDL(dialect)), 0o644); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		log.Printf("wrote %s", path)
	}
}
