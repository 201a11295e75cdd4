package reports

import "time"

// Snapshot es el resumen del tablero y del reporte de salud.
type Snapshot struct {
	GeneratedAt time.Time

	Total             int
	Seniors           int
	ActivePregnancies int
	PWD               int

	// BySitio sigue el orden de la taxonomía; Undefined junta el resto.
	// La suma de BySitio + Undefined es siempre Total.
	BySitio   []SitioCount
	Undefined int

	// Illnesses excluye NORMAL. Ordenado por Count desc, luego Name.
	Illnesses []Share

	// PWDCategories incluye NOT PWD, igual que el reporte de salud.
	PWDCategories []Share
}

type SitioCount struct {
	Sitio string
	Count int
}

// Share es un conteo con su porcentaje sobre Total (0 si el registro está vacío).
type Share struct {
	Name    string
	Count   int
	Percent float64
}

// Resident es una fila de las listas (maestra, seniors, PWD).
type Resident struct {
	ID           int
	Name         string
	Age          int // dates.UnknownAge si no se conoce
	Sitio        string
	HealthStatus string
	LMP          string
	DueDate      string // fecha o estado del embarazo
	PWDType      string
}

// PregnantResident es una fila del calendario de embarazadas.
type PregnantResident struct {
	ID          int
	Name        string
	LMP         string
	DueDate     time.Time
	Sitio       string
	NextCheckup string // "" si no quedan controles
}
