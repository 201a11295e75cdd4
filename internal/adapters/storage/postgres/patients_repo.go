package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bhw-patient-registry/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

var (
	_ patients.Repository = (*PatientsRepo)(nil)
	_ patients.Durable    = (*PatientsRepo)(nil)
)

// Durable: cada cambio ya queda en la base, un import fallido no vacía la tabla.
func (r *PatientsRepo) Durable() bool { return true }

const selectPatients = `
		SELECT
			id, name, birthday, lmp,
			sitio, health_status, pwd_type,
			records
		FROM patients`

// Create toma el lock de la tabla para que MAX(id)+1 no choque entre altas concurrentes.
func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) (patients.Patient, error) {
	records, err := encodeRecords(p.Records)
	if err != nil {
		return patients.Patient{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return patients.Patient{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE patients IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return patients.Patient{}, err
	}

	var id int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO patients (
			id, name, birthday, lmp,
			sitio, health_status, pwd_type,
			records
		)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, $4, $5, $6, $7
		FROM patients
		RETURNING id
	`,
		p.Name,
		p.Birthday,
		p.LMP,
		p.Sitio,
		p.HealthStatus,
		p.PWDType,
		records,
	).Scan(&id)
	if err != nil {
		return patients.Patient{}, err
	}

	if err := tx.Commit(); err != nil {
		return patients.Patient{}, err
	}

	p.ID = id
	return p, nil
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	records, err := encodeRecords(p.Records)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET
			name = $2,
			birthday = $3,
			lmp = $4,
			sitio = $5,
			health_status = $6,
			pwd_type = $7,
			records = $8
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Birthday,
		p.LMP,
		p.Sitio,
		p.HealthStatus,
		p.PWDType,
		records,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id int) (patients.Patient, error) {
	if id <= 0 {
		return patients.Patient{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, selectPatients+`
		WHERE id = $1
	`, id)

	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return patients.Patient{}, ErrNotFound
		}
		return patients.Patient{}, err
	}
	return p, nil
}

func (r *PatientsRepo) List(ctx context.Context) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, selectPatients+`
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// Replace vacía la tabla y reinserta en una sola transacción; el orden de list
// pasa a ser el orden de registro.
func (r *PatientsRepo) Replace(ctx context.Context, list []patients.Patient) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patients`); err != nil {
		return err
	}

	for _, p := range list {
		records, err := encodeRecords(p.Records)
		if err != nil {
			return err
		}
		// ON CONFLICT: el codec CSV ya rechaza IDs repetidos; con otra fuente gana la última fila
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO patients (
				id, name, birthday, lmp,
				sitio, health_status, pwd_type,
				records
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				birthday = EXCLUDED.birthday,
				lmp = EXCLUDED.lmp,
				sitio = EXCLUDED.sitio,
				health_status = EXCLUDED.health_status,
				pwd_type = EXCLUDED.pwd_type,
				records = EXCLUDED.records
		`,
			p.ID,
			p.Name,
			p.Birthday,
			p.LMP,
			p.Sitio,
			p.HealthStatus,
			p.PWDType,
			records,
		); err != nil {
			return fmt.Errorf("insert patient %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (r *PatientsRepo) NextID(ctx context.Context) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM patients`).Scan(&next)
	return next, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(s rowScanner) (patients.Patient, error) {
	var p patients.Patient
	var records []byte
	if err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Birthday,
		&p.LMP,
		&p.Sitio,
		&p.HealthStatus,
		&p.PWDType,
		&records,
	); err != nil {
		return patients.Patient{}, err
	}

	if len(records) > 0 {
		if err := json.Unmarshal(records, &p.Records); err != nil {
			return patients.Patient{}, fmt.Errorf("patient %d records: %w", p.ID, err)
		}
	}
	if len(p.Records) == 0 {
		p.Records = nil
	}
	return p, nil
}

// records es JSONB; lo pasamos como texto JSON
func encodeRecords(records []string) (string, error) {
	if records == nil {
		records = []string{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
