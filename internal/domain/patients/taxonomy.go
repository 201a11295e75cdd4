package patients

import "strings"

// Taxonomy agrupa las listas cerradas que ofrece la capa de presentación.
// Se inyecta en el Service para no atar el core a una sola localidad.
type Taxonomy struct {
	Sitios        []string
	Conditions    []string
	PWDCategories []string
}

// DefaultTaxonomy devuelve las listas de la comunidad original.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Sitios: []string{"IBABA", "CENTRO", "SILANGAN", "KANLURAN"},
		Conditions: []string{
			ConditionNormal,
			"Diabetes",
			"Hypertension",
			"COPD",
			"Pneumonia",
			"TB (Tuberculosis)",
			"Asthma",
			"Other",
		},
		PWDCategories: []string{
			NotPWD,
			"Physical Disability",
			"Intellectual Disability",
			"Mental Disability",
			"Visual Impairment",
			"Hearing Impairment",
			"Speech Impairment",
			"Multiple Disabilities",
		},
	}
}

// HasSitio compara sin distinguir mayúsculas.
func (t Taxonomy) HasSitio(s string) bool {
	return containsFold(t.Sitios, s)
}

func (t Taxonomy) HasCondition(s string) bool {
	return containsFold(t.Conditions, s)
}

func (t Taxonomy) HasPWDCategory(s string) bool {
	return containsFold(t.PWDCategories, s)
}

// withDefaults completa listas vacías con la taxonomía por defecto.
func (t Taxonomy) withDefaults() Taxonomy {
	def := DefaultTaxonomy()
	if len(t.Sitios) == 0 {
		t.Sitios = def.Sitios
	}
	if len(t.Conditions) == 0 {
		t.Conditions = def.Conditions
	}
	if len(t.PWDCategories) == 0 {
		t.PWDCategories = def.PWDCategories
	}
	return t
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// SplitConditions separa HealthStatus en sus condiciones (sin vacíos ni N/A).
func SplitConditions(healthStatus string) []string {
	out := make([]string, 0, 2)
	for _, part := range strings.Split(healthStatus, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, NoCondition) {
			continue
		}
		out = append(out, part)
	}
	return out
}

// JoinConditions es la inversa de SplitConditions; sin condiciones => N/A.
func JoinConditions(conditions []string) string {
	clean := make([]string, 0, len(conditions))
	for _, c := range conditions {
		if c = strings.TrimSpace(c); c != "" {
			clean = append(clean, c)
		}
	}
	if len(clean) == 0 {
		return NoCondition
	}
	return strings.Join(clean, conditionSep)
}
