package patients

import (
	"time"

	"bhw-patient-registry/internal/domain/dates"
)

const (
	// NotPWD es el valor por defecto de PWDType.
	NotPWD = "NOT PWD"

	// ConditionNormal se excluye del desglose de enfermedades.
	ConditionNormal = "NORMAL"

	// NoCondition se persiste cuando no se marcó ninguna condición.
	NoCondition = dates.Unknown

	// conditionSep une las condiciones en HealthStatus.
	conditionSep = ", "
)

// Patient representa a un residente registrado por el BHW.
type Patient struct {
	ID int

	Name     string // siempre en mayúsculas
	Birthday string // YYYY-MM-DD o N/A
	LMP      string // YYYY-MM-DD o N/A

	Sitio        string
	HealthStatus string // condiciones separadas por coma, o N/A
	PWDType      string // NOT PWD por defecto

	// Records: historial, el más reciente primero.
	Records []string
}

// CreateInput son los datos crudos del formulario de alta.
type CreateInput struct {
	Name       string
	Birthday   string
	LMP        string
	Sitio      string
	Conditions []string
	PWDType    string
}

// UpdateInput son los datos del formulario de actualización.
type UpdateInput struct {
	RecordText   string
	HealthStatus string
	PWDType      string
	LMP          string
}

// Profile agrega los datos derivados a mostrar de un paciente.
type Profile struct {
	Patient Patient
	Age     int // dates.UnknownAge si no se conoce
}

func registrationRecord(now time.Time) string {
	return "REGISTRATION: " + now.Format(dates.Layout) + " - Initial Record Created."
}

func historyRecord(now time.Time, text string) string {
	return now.Format("2006-01-02 15:04") + ": " + text
}

// clone evita compartir el slice Records entre repo y llamador.
func (p Patient) clone() Patient {
	p.Records = append([]string(nil), p.Records...)
	return p
}

// Clone devuelve una copia profunda del paciente.
func (p Patient) Clone() Patient { return p.clone() }
