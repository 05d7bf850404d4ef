package catalog

import (
	"fmt"
	"strings"
)

// schemaSQL defines the catalog table. It is written in the subset of SQL
// both SQLite and Dolt accept, one statement per entry.
var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS cards (
    id VARCHAR(191) PRIMARY KEY,      -- session_id, or a uuid of the source path
    name TEXT NOT NULL,
    model_type TEXT NOT NULL,         -- display name, e.g. Classifier
    status TEXT NOT NULL,             -- raw model_identification.status
    status_tier VARCHAR(16) NOT NULL, -- positive, info, caution, negative, unknown
    assessment TEXT,
    accuracy DOUBLE,
    auc DOUBLE,
    warnings INTEGER NOT NULL DEFAULT 0,
    source TEXT NOT NULL,
    indexed_at VARCHAR(32) NOT NULL
)`,
}

// sqliteIndexes are only created on SQLite, where IF NOT EXISTS is
// supported for indexes.
var sqliteIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_cards_tier ON cards(status_tier)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_indexed ON cards(indexed_at DESC)`,
}

// initSchema creates the catalog table if it doesn't exist.
func (c *Catalog) initSchema() error {
	stmts := schemaSQL
	if c.backend == BackendSQLite {
		stmts = append(append([]string{}, schemaSQL...), sqliteIndexes...)
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
