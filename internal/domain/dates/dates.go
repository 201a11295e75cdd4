package dates

import (
	"strings"
	"time"
)

const (
	// Layout es el formato de fecha aceptado en toda la app (YYYY-MM-DD).
	Layout = "2006-01-02"

	// Unknown es el centinela persistido para fechas desconocidas.
	Unknown = "N/A"

	// UnknownAge se devuelve cuando no hay cumpleaños válido.
	UnknownAge = -1
)

// IsUnknown reporta si s representa una fecha desconocida (vacío o N/A).
func IsUnknown(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, Unknown)
}

// Parse interpreta s como fecha calendario YYYY-MM-DD (medianoche UTC).
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, strings.TrimSpace(s))
}

// Day trunca un instante a su fecha calendario, en UTC.
// Se respetan año/mes/día locales del instante recibido.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween devuelve los días calendario entre from y to (to - from).
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// Format devuelve la fecha en Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Age devuelve los años cumplidos a la fecha today.
// Si birthday es desconocido o inválido devuelve UnknownAge.
func Age(birthday string, today time.Time) int {
	if IsUnknown(birthday) {
		return UnknownAge
	}
	b, err := Parse(birthday)
	if err != nil {
		return UnknownAge
	}

	today = Day(today)
	years := today.Year() - b.Year()
	if today.Month() < b.Month() ||
		(today.Month() == b.Month() && today.Day() < b.Day()) {
		years--
	}
	return years
}
