package validation

import (
	"errors"
	"fmt"
	"time"

	"bhw-patient-registry/internal/domain/dates"
)

var (
	ErrRequired             = errors.New("field is required")
	ErrInvalidDate          = errors.New("invalid date format, use YYYY-MM-DD")
	ErrFutureDate           = errors.New("date cannot be in the future")
	ErrConfirmationRequired = errors.New("LMP is less than 4 weeks ago, confirmation required")
	ErrConfirmationDeclined = errors.New("recent LMP override declined")
)

// FieldError envuelve el error de validación de un campo concreto.
type FieldError struct {
	Field string
	Value string
	Err   error

	// Candidate es la fecha LMP que requiere confirmación (solo ErrConfirmationRequired).
	Candidate time.Time
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// IsValidation agrupa todos los errores que abortan la operación sin mutar nada.
// La confirmación rechazada se trata igual que un error de validación.
func IsValidation(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

// NeedsConfirmation devuelve la fecha candidata si err pide confirmar una LMP reciente.
func NeedsConfirmation(err error) (time.Time, bool) {
	var fe *FieldError
	if errors.As(err, &fe) && errors.Is(fe.Err, ErrConfirmationRequired) {
		return fe.Candidate, true
	}
	return time.Time{}, false
}

func fieldErr(field, value string, err error) error {
	return &FieldError{Field: field, Value: value, Err: err}
}

func confirmErr(value string, candidate time.Time) error {
	return &FieldError{
		Field:     "lmp",
		Value:     value,
		Err:       ErrConfirmationRequired,
		Candidate: dates.Day(candidate),
	}
}
