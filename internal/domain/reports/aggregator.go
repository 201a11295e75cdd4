package reports

import (
	"sort"
	"strings"
	"time"

	"bhw-patient-registry/internal/domain/dates"
	"bhw-patient-registry/internal/domain/patients"
	"bhw-patient-registry/internal/domain/pregnancy"
)

// SeniorAge es la edad mínima de un senior citizen.
const SeniorAge = 60

// Aggregate recorre el registro una vez y arma todos los conteos.
func Aggregate(list []patients.Patient, tax patients.Taxonomy, today time.Time) Snapshot {
	snap := Snapshot{
		GeneratedAt: today,
		Total:       len(list),
		BySitio:     make([]SitioCount, 0, len(tax.Sitios)),
	}

	sitioIdx := make(map[string]int, len(tax.Sitios))
	for _, s := range tax.Sitios {
		key := strings.ToUpper(strings.TrimSpace(s))
		if _, dup := sitioIdx[key]; dup {
			continue
		}
		sitioIdx[key] = len(snap.BySitio)
		snap.BySitio = append(snap.BySitio, SitioCount{Sitio: key})
	}

	illnesses := map[string]int{}
	pwd := map[string]int{}

	for _, p := range list {
		if IsSenior(p, today) {
			snap.Seniors++
		}
		if p.Pregnancy(today).IsActive() {
			snap.ActivePregnancies++
		}
		if IsPWD(p) {
			snap.PWD++
		}

		if i, ok := sitioIdx[strings.ToUpper(strings.TrimSpace(p.Sitio))]; ok {
			snap.BySitio[i].Count++
		} else {
			snap.Undefined++
		}

		for _, c := range patients.SplitConditions(p.HealthStatus) {
			if strings.EqualFold(c, patients.ConditionNormal) {
				continue
			}
			illnesses[c]++
		}

		pwd[pwdType(p)]++
	}

	snap.Illnesses = shares(illnesses, snap.Total)
	snap.PWDCategories = shares(pwd, snap.Total)
	return snap
}

// IsSenior: un cumpleaños desconocido nunca cuenta.
func IsSenior(p patients.Patient, today time.Time) bool {
	age := p.Age(today)
	return age != dates.UnknownAge && age >= SeniorAge
}

func IsPWD(p patients.Patient) bool {
	return !strings.EqualFold(pwdType(p), patients.NotPWD)
}

func pwdType(p patients.Patient) string {
	t := strings.TrimSpace(p.PWDType)
	if t == "" {
		return patients.NotPWD
	}
	return t
}

// Percent evita la división por cero: registro vacío => 0.
func Percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func shares(counts map[string]int, total int) []Share {
	out := make([]Share, 0, len(counts))
	for name, n := range counts {
		out = append(out, Share{Name: name, Count: n, Percent: Percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Seniors filtra residentes de 60 años o más, en orden de registro.
func Seniors(list []patients.Patient, today time.Time) []Resident {
	out := make([]Resident, 0)
	for _, p := range list {
		if IsSenior(p, today) {
			out = append(out, ToResident(p, today))
		}
	}
	return out
}

// PWDs filtra residentes con alguna discapacidad registrada.
func PWDs(list []patients.Patient, today time.Time) []Resident {
	out := make([]Resident, 0)
	for _, p := range list {
		if IsPWD(p) {
			out = append(out, ToResident(p, today))
		}
	}
	return out
}

// Pregnant lista los embarazos activos con su FPP y próximo control.
func Pregnant(list []patients.Patient, today time.Time) []PregnantResident {
	out := make([]PregnantResident, 0)
	for _, p := range list {
		est := p.Pregnancy(today)
		if !est.IsActive() {
			continue
		}
		row := PregnantResident{
			ID:      p.ID,
			Name:    p.Name,
			LMP:     p.LMP,
			DueDate: est.DueDate,
			Sitio:   p.Sitio,
		}
		if v, ok := est.NextCheckup(); ok {
			row.NextCheckup = v.String()
		}
		out = append(out, row)
	}
	return out
}

func ToResident(p patients.Patient, today time.Time) Resident {
	return Resident{
		ID:           p.ID,
		Name:         p.Name,
		Age:          p.Age(today),
		Sitio:        p.Sitio,
		HealthStatus: p.HealthStatus,
		LMP:          p.LMP,
		DueDate:      dueLabel(p.Pregnancy(today)),
		PWDType:      pwdType(p),
	}
}

// En las tablas "muy reciente" se muestra como N/A.
func dueLabel(est pregnancy.Estimate) string {
	if est.Kind == pregnancy.KindTooRecent {
		return dates.Unknown + " (LMP too recent)"
	}
	return est.Label()
}
