package planning

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return loc
}

func TestWorkflowOrder(t *testing.T) {
	steps := Workflow()
	require.Len(t, steps, 4)
	assert.Equal(t, []int{4, 1, 2, 3}, []int{steps[0].Week, steps[1].Week, steps[2].Week, steps[3].Week})
	assert.Equal(t, "Design", steps[2].Phase)
	for _, s := range steps {
		assert.Len(t, s.Tasks, 5, s.Phase)
	}

	steps[0].Tasks[0] = "changed"
	assert.Equal(t, "Réunion stratégie avec client", Workflow()[0].Tasks[0])
}

func TestAnchorMonday(t *testing.T) {
	loc := paris(t)
	wednesday := time.Date(2026, 10, 14, 15, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, loc), AnchorMonday(wednesday, loc))

	monday := time.Date(2026, 10, 12, 8, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, loc), AnchorMonday(monday, loc))

	sunday := time.Date(2026, 10, 18, 20, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, loc), AnchorMonday(sunday, loc))
}

func TestGenerateCycles(t *testing.T) {
	loc := paris(t)
	cycles := Generate(time.Date(2026, 10, 14, 9, 0, 0, 0, loc), 0, loc)
	require.Len(t, cycles, DefaultCycles)

	first := cycles[0]
	assert.Equal(t, 1, first.CycleNumber)
	assert.Equal(t, "12/10 - 06/11", first.Period)
	assert.Equal(t, "Octobre", first.MainMonth)
	require.Len(t, first.Weeks, 4)
	assert.Equal(t, 4, first.Weeks[0].WeekNumber)
	assert.Equal(t, 3, first.Weeks[3].WeekNumber)
	assert.Equal(t, "Novembre", first.Weeks[3].MonthName)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, loc), first.Weeks[0].EndDate)

	days := first.Weeks[0].Days
	require.Len(t, days, 5)
	assert.Equal(t, "lundi", days[0].DayName)
	assert.Equal(t, "vendredi", days[4].DayName)
	assert.Equal(t, 16, days[4].DayNumber)
	assert.Equal(t, "Réunion stratégie avec client", days[0].Task)
	assert.Equal(t, "Briefing équipes", days[4].Task)

	assert.Equal(t, "09/11", cycles[1].Weeks[0].Days[0].ShortLabel)
}

func TestGenerateOnSundayStartsNextDay(t *testing.T) {
	loc := paris(t)
	cycles := Generate(time.Date(2026, 10, 18, 12, 0, 0, 0, loc), 1, loc)
	require.Len(t, cycles, 1)
	assert.Equal(t, "19/10 - 13/11", cycles[0].Period)
}

func TestClampCycles(t *testing.T) {
	assert.Equal(t, DefaultCycles, ClampCycles(0))
	assert.Equal(t, 1, ClampCycles(-3))
	assert.Equal(t, MaxCycles, ClampCycles(100))
	assert.Equal(t, 3, ClampCycles(3))
}

func TestFrenchNames(t *testing.T) {
	assert.Equal(t, "Août", MonthName(time.August))
	assert.Equal(t, "Décembre", MonthName(time.December))
	assert.Equal(t, "Mercredi", DayName(time.Wednesday))
}
