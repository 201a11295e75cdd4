package pregnancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhw-patient-registry/internal/domain/dates"
)

var today = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func lmpDaysAgo(days int) string {
	return dates.Format(dates.Day(today).AddDate(0, 0, -days))
}

func TestCalculate_Classification(t *testing.T) {
	cases := []struct {
		name string
		lmp  string
		want Kind
	}{
		{"unknown sentinel", "N/A", KindNotApplicable},
		{"blank", "", KindNotApplicable},
		{"unparsable", "2025/01/01", KindInvalidDate},
		{"lmp today", lmpDaysAgo(0), KindTooRecent},
		{"27 days", lmpDaysAgo(27), KindTooRecent},
		{"28 days", lmpDaysAgo(28), KindActive},
		{"due today", lmpDaysAgo(GestationDays), KindActive},
		{"due yesterday", lmpDaysAgo(GestationDays + 1), KindDelivered},
		{"300 days", lmpDaysAgo(300), KindDelivered},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Calculate(tc.lmp, today).Kind)
		})
	}
}

func TestCalculate_NonActiveHaveNoVisits(t *testing.T) {
	for _, lmp := range []string{"N/A", "bad", lmpDaysAgo(3)} {
		e := Calculate(lmp, today)
		assert.Empty(t, e.Schedule, lmp)
		assert.Empty(t, e.Upcoming(), lmp)
		assert.False(t, e.IsActive(), lmp)
	}
}

func TestCalculate_Delivered_SinglePostpartumMarker(t *testing.T) {
	e := Calculate(lmpDaysAgo(300), today)

	require.Equal(t, KindDelivered, e.Kind)
	require.Len(t, e.Schedule, 1)
	assert.Equal(t, VisitPostpartum, e.Schedule[0].Kind)
	assert.Equal(t, e.Schedule, e.Upcoming())
	assert.Equal(t, "Delivered (Post-Partum)", e.Schedule[0].String())

	// el estado es la fecha de parto
	assert.Equal(t, dates.Format(dates.Day(today).AddDate(0, 0, -20)), e.Label())
}

func TestCalculate_Active_ScheduleIsChronological(t *testing.T) {
	e := Calculate(lmpDaysAgo(100), today)
	require.True(t, e.IsActive())
	require.NotEmpty(t, e.Schedule)

	for i := 1; i < len(e.Schedule); i++ {
		prev, cur := e.Schedule[i-1], e.Schedule[i]
		assert.True(t, cur.Date.After(prev.Date), "visit %d not after %d", i, i-1)
		assert.GreaterOrEqual(t, cur.Week, prev.Week)
	}

	first := e.Schedule[0]
	assert.Equal(t, FirstVisitWeek, first.Week)
	assert.Equal(t, e.LMP.AddDate(0, 0, 84), first.Date)

	last := e.Schedule[len(e.Schedule)-1]
	assert.False(t, last.Date.After(e.DueDate))
	assert.Equal(t, 40, last.Week)
}

func TestCalculate_VisitCadence(t *testing.T) {
	e := Calculate(lmpDaysAgo(100), today)
	require.True(t, e.IsActive())

	weeks := make([]int, 0, len(e.Schedule))
	for _, v := range e.Schedule {
		weeks = append(weeks, v.Week)
	}
	assert.Equal(t, []int{12, 16, 20, 24, 28, 30, 32, 34, 36, 37, 38, 39, 40}, weeks)

	for i := 1; i < len(e.Schedule); i++ {
		prev, cur := e.Schedule[i-1], e.Schedule[i]
		gap := dates.DaysBetween(prev.Date, cur.Date)
		switch {
		case prev.Week >= 36:
			assert.Equal(t, 7, gap, "week %d", prev.Week)
		case prev.Week >= 28:
			assert.Equal(t, 14, gap, "week %d", prev.Week)
		default:
			assert.Equal(t, 28, gap, "week %d", prev.Week)
		}
	}
}

func TestEstimate_Upcoming_FiltersPastVisits(t *testing.T) {
	e := Calculate(lmpDaysAgo(100), today)

	up := e.Upcoming()
	require.Len(t, up, len(e.Schedule)-1) // solo la semana 12 ya pasó
	for _, v := range up {
		assert.True(t, v.Upcoming)
		assert.False(t, v.Date.Before(dates.Day(today)))
	}

	next, ok := e.NextCheckup()
	require.True(t, ok)
	assert.Equal(t, 16, next.Week)
}

func TestEstimate_VisitOnTodayIsUpcoming(t *testing.T) {
	// LMP hace exactamente 12 semanas: el primer control cae hoy.
	e := Calculate(lmpDaysAgo(84), today)
	require.True(t, e.IsActive())
	assert.True(t, e.Schedule[0].Upcoming)
	assert.Equal(t, dates.Day(today), e.Schedule[0].Date)
}

func TestEstimate_Label(t *testing.T) {
	assert.Equal(t, "N/A", Calculate("N/A", today).Label())
	assert.Equal(t, "Invalid LMP Date", Calculate("x", today).Label())
	assert.Equal(t, "LMP too recent (Not Pregnant)", Calculate(lmpDaysAgo(1), today).Label())

	lmp := lmpDaysAgo(100)
	start, err := dates.Parse(lmp)
	require.NoError(t, err)
	assert.Equal(t, dates.Format(start.AddDate(0, 0, 280)), Calculate(lmp, today).Label())
}
