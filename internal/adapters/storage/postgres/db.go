package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bhw-patient-registry/internal/domain/patients"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = fmt.Errorf("postgres: %w", patients.ErrNotFound)
)

// Open abre el pool (pgx vía database/sql) y verifica la conexión.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// un registro de barangay es chico; pocos conns alcanzan
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
