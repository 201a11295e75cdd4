package pregnancy

import (
	"fmt"
	"time"

	"bhw-patient-registry/internal/domain/dates"
)

const (
	// GestationDays: EDD = LMP + 280 días (regla de Naegele).
	GestationDays = 280

	// ConfirmationDays: con menos de 4 semanas la LMP no confirma embarazo.
	ConfirmationDays = 28

	// FirstVisitWeek: el primer control se agenda al cerrar el primer trimestre.
	FirstVisitWeek = 12

	biweeklyFromWeek = 28
	weeklyFromWeek   = 36
)

// Calculate clasifica la LMP y genera el calendario de controles prenatales.
// El orden de las reglas importa: desconocida, inválida, muy reciente, parto, activo.
func Calculate(lmp string, today time.Time) Estimate {
	if dates.IsUnknown(lmp) {
		return Estimate{Kind: KindNotApplicable}
	}
	start, err := dates.Parse(lmp)
	if err != nil {
		return Estimate{Kind: KindInvalidDate}
	}

	today = dates.Day(today)
	if dates.DaysBetween(start, today) < ConfirmationDays {
		return Estimate{Kind: KindTooRecent, LMP: start}
	}

	due := DueDate(start)
	if due.Before(today) {
		return Estimate{
			Kind:    KindDelivered,
			LMP:     start,
			DueDate: due,
			Schedule: []Visit{{
				Kind: VisitPostpartum,
				Week: GestationalWeek(start, due),
				Date: due,
			}},
		}
	}

	return Estimate{
		Kind:     KindActive,
		LMP:      start,
		DueDate:  due,
		Schedule: schedule(start, due, today),
	}
}

// DueDate devuelve la fecha probable de parto para una LMP.
func DueDate(lmp time.Time) time.Time {
	return dates.Day(lmp).AddDate(0, 0, GestationDays)
}

// GestationalWeek devuelve las semanas completas transcurridas desde la LMP.
func GestationalWeek(lmp, on time.Time) int {
	return dates.DaysBetween(lmp, on) / 7
}

func schedule(lmp, due, today time.Time) []Visit {
	out := make([]Visit, 0, 16)

	current := lmp.AddDate(0, 0, FirstVisitWeek*7)
	for !current.After(due) {
		week := GestationalWeek(lmp, current)
		out = append(out, Visit{
			Kind:     VisitPrenatal,
			Week:     week,
			Date:     current,
			Upcoming: !current.Before(today),
		})
		current = current.AddDate(0, 0, 7*stepWeeks(week))
	}
	return out
}

// stepWeeks: cadencia mensual, quincenal desde la semana 28 y semanal desde la 36.
func stepWeeks(week int) int {
	switch {
	case week >= weeklyFromWeek:
		return 1
	case week >= biweeklyFromWeek:
		return 2
	default:
		return 4
	}
}

// IsActive reporta un embarazo en curso (no aplica, inválido, muy reciente y parto quedan fuera).
func (e Estimate) IsActive() bool {
	return e.Kind == KindActive
}

// Upcoming devuelve los controles pendientes en orden cronológico.
// Para un parto ya ocurrido devuelve el marcador post-parto.
func (e Estimate) Upcoming() []Visit {
	switch e.Kind {
	case KindDelivered:
		return append([]Visit(nil), e.Schedule...)
	case KindActive:
		out := make([]Visit, 0, len(e.Schedule))
		for _, v := range e.Schedule {
			if v.Upcoming {
				out = append(out, v)
			}
		}
		return out
	default:
		return nil
	}
}

// NextCheckup devuelve el próximo control pendiente, si existe.
func (e Estimate) NextCheckup() (Visit, bool) {
	up := e.Upcoming()
	if len(up) == 0 {
		return Visit{}, false
	}
	return up[0], true
}

// Label devuelve el valor "EDD" a mostrar: la fecha o el estado.
func (e Estimate) Label() string {
	switch e.Kind {
	case KindNotApplicable:
		return labelNotApplicable
	case KindInvalidDate:
		return labelInvalidDate
	case KindTooRecent:
		return labelTooRecent
	default:
		return dates.Format(e.DueDate)
	}
}

func (v Visit) String() string {
	if v.Kind == VisitPostpartum {
		return labelPostpartum
	}
	mark := "done"
	if v.Upcoming {
		mark = "upcoming"
	}
	return fmt.Sprintf("%s %s (Week %d)", mark, dates.Format(v.Date), v.Week)
}
