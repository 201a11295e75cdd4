package pregnancy

import "time"

// Kind clasifica el estado obstétrico derivado de la LMP.
type Kind string

const (
	KindNotApplicable Kind = "not_applicable"
	KindInvalidDate   Kind = "invalid_date"
	KindTooRecent     Kind = "too_recent"
	KindDelivered     Kind = "delivered"
	KindActive        Kind = "active"
)

// VisitKind distingue controles prenatales del marcador post-parto.
type VisitKind string

const (
	VisitPrenatal   VisitKind = "prenatal"
	VisitPostpartum VisitKind = "postpartum"
)

// Visit es una entrada del calendario de controles.
type Visit struct {
	Kind     VisitKind
	Week     int // semana gestacional
	Date     time.Time
	Upcoming bool // Date >= today
}

// Estimate es el resultado de Calculate.
type Estimate struct {
	Kind    Kind
	LMP     time.Time // cero si Kind es not_applicable / invalid_date
	DueDate time.Time // cero salvo delivered / active

	// Schedule es el calendario completo generado (pasados y futuros).
	// Para delivered contiene solo el marcador post-parto.
	Schedule []Visit
}

const (
	labelNotApplicable = "N/A"
	labelInvalidDate   = "Invalid LMP Date"
	labelTooRecent     = "LMP too recent (Not Pregnant)"
	labelPostpartum    = "Delivered (Post-Partum)"
)
