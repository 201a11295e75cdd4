package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"bhw-patient-registry/internal/adapters/storage/csvfile"
	"bhw-patient-registry/internal/domain/patients"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var patientColumns = []string{"id", "name", "birthday", "lmp", "sitio", "health_status", "pwd_type", "records"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PatientsRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, NewPatientsRepo(db)
}

func TestCreate_AssignsNextID(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	p := patients.Patient{
		Name:         "MARIA",
		Birthday:     "1960-03-15",
		LMP:          "N/A",
		Sitio:        "IBABA",
		HealthStatus: "Diabetes",
		PWDType:      "NOT PWD",
		Records:      []string{"REGISTRATION: 2024-06-01 - Initial Record Created."},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE patients`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO patients`).
		WithArgs("MARIA", "1960-03-15", "N/A", "IBABA", "Diabetes", "NOT PWD",
			`["REGISTRATION: 2024-06-01 - Initial Record Created."]`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	saved, err := repo.Create(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, 7, saved.ID)
	assert.Equal(t, "MARIA", saved.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RollsBackOnInsertError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE patients`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO patients`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), patients.Patient{Name: "X"})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(patientColumns).
		AddRow(3, "ANA", "N/A", "2024-03-01", "CENTRO", "N/A", "NOT PWD", `["b","a"]`)

	mock.ExpectQuery(`SELECT`).
		WithArgs(3).
		WillReturnRows(rows)

	p, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, "2024-03-01", p.LMP)
	assert.Equal(t, []string{"b", "a"}, p.Records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(patientColumns))

	_, err := repo.GetByID(context.Background(), 9)

	assert.ErrorIs(t, err, patients.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OrderedBySeq(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(patientColumns).
		AddRow(5, "EVA", "N/A", "N/A", "IBABA", "N/A", "NOT PWD", `[]`).
		AddRow(2, "BEN", "N/A", "N/A", "CENTRO", "Asthma", "Visual Impairment", `["x"]`)

	mock.ExpectQuery(`ORDER BY seq ASC`).WillReturnRows(rows)

	list, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 5, list[0].ID)
	assert.Nil(t, list[0].Records)
	assert.Equal(t, "Visual Impairment", list[1].PWDType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFoundWhenNoRows(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE patients`).
		WithArgs(4, "ANA", "N/A", "N/A", "N/A", "N/A", "NOT PWD", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), patients.Patient{
		ID: 4, Name: "ANA", Birthday: "N/A", LMP: "N/A", Sitio: "N/A", HealthStatus: "N/A", PWDType: "NOT PWD",
	})

	assert.ErrorIs(t, err, patients.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplace_DeletesAndInsertsInOneTx(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM patients`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO patients`).
		WithArgs(5, "EVA", "N/A", "N/A", "IBABA", "N/A", "NOT PWD", `["r1","r2"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO patients`).
		WithArgs(2, "BEN", "N/A", "N/A", "CENTRO", "N/A", "NOT PWD", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), []patients.Patient{
		{ID: 5, Name: "EVA", Birthday: "N/A", LMP: "N/A", Sitio: "IBABA", HealthStatus: "N/A", PWDType: "NOT PWD", Records: []string{"r1", "r2"}},
		{ID: 2, Name: "BEN", Birthday: "N/A", LMP: "N/A", Sitio: "CENTRO", HealthStatus: "N/A", PWDType: "NOT PWD"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplace_RollsBackOnFailure(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM patients`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO patients`).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), []patients.Patient{{ID: 1, Name: "A"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert patient 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextID(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(id\), 0\) \+ 1 FROM patients`).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(11))

	next, err := repo.NextID(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 11, next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_RunsEveryStatement(t *testing.T) {
	db, mock, _ := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS patients`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS patients_seq_idx`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS patients_upper_name_idx`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImport_DecodeFailureKeepsTable(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	svc := patients.NewService(repo, patients.Options{Codec: csvfile.New()})

	// ningún DELETE/INSERT esperado: la tabla no se toca
	err := svc.Load(context.Background(), strings.NewReader("ID,Name\n1,ANA\nx3,BEN\n"))

	require.Error(t, err)
	assert.ErrorIs(t, err, csvfile.ErrInvalidID)
	assert.False(t, svc.LoadFailed())
	assert.NoError(t, mock.ExpectationsWereMet())
}
