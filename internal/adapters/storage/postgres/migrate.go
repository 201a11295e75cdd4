package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// seq conserva el orden de registro (Replace puede traer IDs desordenados).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id            INTEGER PRIMARY KEY,
		seq           BIGSERIAL NOT NULL,
		name          TEXT NOT NULL,
		birthday      TEXT NOT NULL DEFAULT 'N/A',
		lmp           TEXT NOT NULL DEFAULT 'N/A',
		sitio         TEXT NOT NULL DEFAULT 'N/A',
		health_status TEXT NOT NULL DEFAULT 'N/A',
		pwd_type      TEXT NOT NULL DEFAULT 'NOT PWD',
		records       JSONB NOT NULL DEFAULT '[]'::jsonb
	)`,
	`CREATE INDEX IF NOT EXISTS patients_seq_idx ON patients (seq)`,
	`CREATE INDEX IF NOT EXISTS patients_upper_name_idx ON patients (upper(name) text_pattern_ops)`,
}

// Migrate crea el esquema si no existe. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
