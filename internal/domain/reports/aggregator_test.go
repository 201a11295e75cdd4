package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"bhw-patient-registry/internal/domain/dates"
	"bhw-patient-registry/internal/domain/patients"
	"bhw-patient-registry/internal/domain/pregnancy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func lmpDaysAgo(n int) string {
	return dates.Format(today.AddDate(0, 0, -n))
}

func registry() []patients.Patient {
	return []patients.Patient{
		{ID: 1, Name: "LOLA", Birthday: "1950-01-01", LMP: "N/A", Sitio: "IBABA", HealthStatus: "Diabetes, Hypertension", PWDType: "NOT PWD"},
		{ID: 2, Name: "ANA", Birthday: "1995-02-02", LMP: lmpDaysAgo(100), Sitio: "centro", HealthStatus: "NORMAL", PWDType: "NOT PWD"},
		{ID: 3, Name: "BEA", Birthday: "1990-03-03", LMP: lmpDaysAgo(300), Sitio: "CENTRO", HealthStatus: "N/A", PWDType: "Visual Impairment"},
		{ID: 4, Name: "CORA", Birthday: "N/A", LMP: lmpDaysAgo(10), Sitio: "N/A", HealthStatus: "Asthma", PWDType: ""},
		{ID: 5, Name: "DINO", Birthday: "1964-06-01", LMP: "not a date", Sitio: "PUROK 9", HealthStatus: "Hypertension,  ,Asthma", PWDType: "Physical Disability"},
		{ID: 6, Name: "EDU", Birthday: "1964-06-02", LMP: "N/A", Sitio: "KANLURAN", HealthStatus: "NORMAL, Hypertension", PWDType: "NOT PWD"},
	}
}

func TestAggregate_Counts(t *testing.T) {
	snap := Aggregate(registry(), patients.DefaultTaxonomy(), today)

	assert.Equal(t, 6, snap.Total)
	// LOLA (74) y DINO (cumple 60 hoy); EDU cumple 60 mañana; CORA desconocido
	assert.Equal(t, 2, snap.Seniors)
	// solo ANA: BEA ya dio a luz, CORA es muy reciente, DINO inválida
	assert.Equal(t, 1, snap.ActivePregnancies)
	assert.Equal(t, 2, snap.PWD)
	assert.Equal(t, today, snap.GeneratedAt)
}

func TestAggregate_SitioBucketsSumToTotal(t *testing.T) {
	snap := Aggregate(registry(), patients.DefaultTaxonomy(), today)

	assert.Equal(t, []SitioCount{
		{Sitio: "IBABA", Count: 1},
		{Sitio: "CENTRO", Count: 2},
		{Sitio: "SILANGAN", Count: 0},
		{Sitio: "KANLURAN", Count: 1},
	}, snap.BySitio)
	assert.Equal(t, 2, snap.Undefined)

	sum := snap.Undefined
	for _, s := range snap.BySitio {
		sum += s.Count
	}
	assert.Equal(t, snap.Total, sum)
}

func TestAggregate_IllnessesExcludeNormalAndSortByCount(t *testing.T) {
	snap := Aggregate(registry(), patients.DefaultTaxonomy(), today)

	require.Len(t, snap.Illnesses, 3)
	assert.Equal(t, "Hypertension", snap.Illnesses[0].Name)
	assert.Equal(t, 3, snap.Illnesses[0].Count)
	assert.InDelta(t, 50.0, snap.Illnesses[0].Percent, 1e-9)

	assert.Equal(t, "Asthma", snap.Illnesses[1].Name)
	assert.Equal(t, 2, snap.Illnesses[1].Count)
	assert.Equal(t, "Diabetes", snap.Illnesses[2].Name)

	for _, s := range snap.Illnesses {
		assert.NotEqual(t, patients.ConditionNormal, s.Name)
		assert.NotEqual(t, dates.Unknown, s.Name)
	}
}

func TestAggregate_PWDCategoriesIncludeNotPWD(t *testing.T) {
	snap := Aggregate(registry(), patients.DefaultTaxonomy(), today)

	require.Len(t, snap.PWDCategories, 3)
	assert.Equal(t, Share{Name: "NOT PWD", Count: 4, Percent: Percent(4, 6)}, snap.PWDCategories[0])
	// empates se ordenan por nombre
	assert.Equal(t, "Physical Disability", snap.PWDCategories[1].Name)
	assert.Equal(t, "Visual Impairment", snap.PWDCategories[2].Name)
}

func TestAggregate_EmptyRegistry(t *testing.T) {
	snap := Aggregate(nil, patients.DefaultTaxonomy(), today)

	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.Undefined)
	assert.Len(t, snap.BySitio, 4)
	assert.Empty(t, snap.Illnesses)
	assert.Empty(t, snap.PWDCategories)
	assert.Equal(t, 0.0, Percent(3, 0))
}

func TestAggregate_CustomTaxonomy(t *testing.T) {
	tax := patients.Taxonomy{Sitios: []string{"Purok 9", "centro", "CENTRO"}}
	snap := Aggregate(registry(), tax, today)

	assert.Equal(t, []SitioCount{{Sitio: "PUROK 9", Count: 1}, {Sitio: "CENTRO", Count: 2}}, snap.BySitio)
	assert.Equal(t, 3, snap.Undefined)
}

func TestRosters(t *testing.T) {
	list := registry()

	seniors := Seniors(list, today)
	require.Len(t, seniors, 2)
	assert.Equal(t, []int{1, 5}, []int{seniors[0].ID, seniors[1].ID})
	assert.Equal(t, 74, seniors[0].Age)

	pwds := PWDs(list, today)
	require.Len(t, pwds, 2)
	assert.Equal(t, 3, pwds[0].ID)
	assert.Equal(t, "Physical Disability", pwds[1].PWDType)

	preg := Pregnant(list, today)
	require.Len(t, preg, 1)
	assert.Equal(t, 2, preg[0].ID)
	assert.Equal(t, pregnancy.DueDate(today.AddDate(0, 0, -100)), preg[0].DueDate)
	assert.Contains(t, preg[0].NextCheckup, "(Week 16)")
}

func TestToResident_DueLabel(t *testing.T) {
	list := registry()

	assert.Equal(t, "N/A (LMP too recent)", ToResident(list[3], today).DueDate)
	assert.Equal(t, "Invalid LMP Date", ToResident(list[4], today).DueDate)
	assert.Equal(t, "N/A", ToResident(list[0], today).DueDate)
	assert.Equal(t, dates.UnknownAge, ToResident(list[3], today).Age)
	assert.Equal(t, patients.NotPWD, ToResident(list[3], today).PWDType)
}

// -------------------------
// Service
// -------------------------

type fakeSource struct {
	list []patients.Patient
	err  error
}

func (f fakeSource) List(ctx context.Context) ([]patients.Patient, error) { return f.list, f.err }
func (f fakeSource) Taxonomy() patients.Taxonomy                          { return patients.DefaultTaxonomy() }
func (f fakeSource) Now() time.Time                                       { return today }

func TestService(t *testing.T) {
	svc := NewService(fakeSource{list: registry()})
	ctx := context.Background()

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, snap.Total)

	wb, err := svc.Workbook(ctx)
	require.NoError(t, err)
	assert.Len(t, wb.Residents, 6)
	assert.Len(t, wb.Pregnant, 1)
	assert.Equal(t, snap, wb.Snapshot)

	failing := NewService(fakeSource{err: errors.New("db down")})
	_, err = failing.Snapshot(ctx)
	assert.Error(t, err)
	_, err = failing.Pregnant(ctx)
	assert.Error(t, err)
}
