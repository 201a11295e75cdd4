package csvfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bhw-patient-registry/internal/domain/dates"
	"bhw-patient-registry/internal/domain/patients"
)

// Header es el orden fijo de columnas; los archivos existentes dependen de él.
var Header = []string{"ID", "Name", "Birthday", "LMP", "Sitio", "Health_Status", "Records", "PWD_Type"}

const (
	colID = iota
	colName
	colBirthday
	colLMP
	colSitio
	colHealthStatus
	colRecords
	colPWDType
	numCols
)

// RecordSep une el historial en una sola celda. No se escapa ';' dentro de una entrada.
const RecordSep = ";"

var (
	ErrInvalidID   = errors.New("invalid patient ID")
	ErrDuplicateID = errors.New("duplicate patient ID")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Codec lee y escribe el registro en CSV (compatible con Excel).
type Codec struct{}

func New() Codec { return Codec{} }

var _ patients.Codec = Codec{}

// Decode ignora la primera fila (encabezado) sin validarla. Filas más cortas
// (archivos viejos sin LMP/PWD_Type) se completan con los valores por defecto.
// Un ID no positivo o repetido hace fallar todo el archivo.
func (Codec) Decode(r io.Reader) ([]patients.Patient, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	out := make([]patients.Patient, 0)
	seen := make(map[int]int) // id -> línea
	header := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if header {
			header = false
			continue
		}

		line, _ := cr.FieldPos(0)
		p, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if first, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("line %d: %w %d (first seen on line %d)", line, ErrDuplicateID, p.ID, first)
		}
		seen[p.ID] = line
		out = append(out, p)
	}
	return out, nil
}

func decodeRow(row []string) (patients.Patient, error) {
	for len(row) < numCols {
		row = append(row, "")
	}

	id, err := strconv.Atoi(strings.TrimSpace(row[colID]))
	if err != nil || id <= 0 {
		return patients.Patient{}, fmt.Errorf("%w %q", ErrInvalidID, row[colID])
	}

	p := patients.Patient{
		ID:           id,
		Name:         row[colName],
		Birthday:     row[colBirthday],
		LMP:          row[colLMP],
		Sitio:        row[colSitio],
		HealthStatus: row[colHealthStatus],
		PWDType:      row[colPWDType],
	}

	// migración de datos viejos
	if strings.TrimSpace(p.PWDType) == "" {
		p.PWDType = patients.NotPWD
	}
	if strings.TrimSpace(p.LMP) == "" {
		p.LMP = dates.Unknown
	}
	if row[colRecords] != "" {
		p.Records = strings.Split(row[colRecords], RecordSep)
	}
	return p, nil
}

// Encode siempre escribe el encabezado, aun con el registro vacío.
func (Codec) Encode(w io.Writer, list []patients.Patient) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range list {
		pwd := p.PWDType
		if pwd == "" {
			pwd = patients.NotPWD
		}
		row := []string{
			strconv.Itoa(p.ID),
			p.Name,
			p.Birthday,
			p.LMP,
			p.Sitio,
			p.HealthStatus,
			strings.Join(p.Records, RecordSep),
			pwd,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write patient %d: %w", p.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
