package validation

import (
	"strings"
	"time"

	"bhw-patient-registry/internal/domain/dates"
	"bhw-patient-registry/internal/domain/pregnancy"
)

// Decision es la respuesta, resuelta de antemano, a "¿guardar sin la LMP reciente?".
type Decision int

const (
	// Undecided: si la LMP es reciente se devuelve ErrConfirmationRequired.
	Undecided Decision = iota
	// ClearRecentLMP: guardar con LMP = N/A.
	ClearRecentLMP
	// AbortRecentLMP: cancelar toda la operación.
	AbortRecentLMP
)

// ParseDecision acepta "clear" / "abort" (cualquier otro valor = Undecided).
func ParseDecision(s string) Decision {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clear", "yes", "y":
		return ClearRecentLMP
	case "abort", "no", "n":
		return AbortRecentLMP
	default:
		return Undecided
	}
}

func (d Decision) String() string {
	switch d {
	case ClearRecentLMP:
		return "clear"
	case AbortRecentLMP:
		return "abort"
	default:
		return "undecided"
	}
}

// ConfirmFunc pregunta al usuario si guarda sin la LMP candidata (true = guardar como N/A).
type ConfirmFunc func(candidate time.Time) bool

// Resolve traduce la respuesta de un ConfirmFunc a Decision.
func Resolve(confirm ConfirmFunc, candidate time.Time) Decision {
	if confirm != nil && confirm(candidate) {
		return ClearRecentLMP
	}
	return AbortRecentLMP
}

// placeholders que los formularios dejan cuando el campo no se tocó
var placeholders = map[string]struct{}{
	"YYYY-MM-DD":        {},
	"YYYY-MM-DD OR N/A": {},
}

func normalizeDateInput(input string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(input))
	if _, ok := placeholders[v]; ok {
		return dates.Unknown, true
	}
	if dates.IsUnknown(v) {
		return dates.Unknown, true
	}
	return v, false
}

// Name normaliza el nombre (mayúsculas) y exige que no esté vacío.
func Name(input string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(input))
	if v == "" || v == dates.Unknown {
		return "", fieldErr("name", "", ErrRequired)
	}
	return v, nil
}

// Birthday valida el cumpleaños: N/A o una fecha YYYY-MM-DD que no sea futura.
func Birthday(input string, today time.Time) (string, error) {
	v, unknown := normalizeDateInput(input)
	if unknown {
		return dates.Unknown, nil
	}
	d, err := dates.Parse(v)
	if err != nil {
		return "", fieldErr("birthday", v, ErrInvalidDate)
	}
	if d.After(dates.Day(today)) {
		return "", fieldErr("birthday", v, ErrFutureDate)
	}
	return dates.Format(d), nil
}

// LMP valida la última menstruación y aplica la política de LMP reciente.
func LMP(input string, today time.Time, decision Decision) (string, error) {
	v, unknown := normalizeDateInput(input)
	if unknown {
		return dates.Unknown, nil
	}
	d, err := dates.Parse(v)
	if err != nil {
		return "", fieldErr("lmp", v, ErrInvalidDate)
	}

	today = dates.Day(today)
	if d.After(today) {
		return "", fieldErr("lmp", v, ErrFutureDate)
	}

	if dates.DaysBetween(d, today) < pregnancy.ConfirmationDays {
		switch decision {
		case ClearRecentLMP:
			return dates.Unknown, nil
		case AbortRecentLMP:
			return "", fieldErr("lmp", v, ErrConfirmationDeclined)
		default:
			return "", confirmErr(v, d)
		}
	}
	return dates.Format(d), nil
}

// Text normaliza texto libre; vacío => def.
func Text(input, def string) string {
	v := strings.TrimSpace(input)
	if v == "" {
		return def
	}
	return v
}
