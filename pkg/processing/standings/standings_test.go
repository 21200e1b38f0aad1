//nolint:funlen // ok for tests
package standings_test

import (
	"slices"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/standings"
	"github.com/mpapenbr/gp-playoffs/testsupport/seasondata"
)

func driverIDs(s []model.DriverStanding) []string {
	ret := make([]string, len(s))
	for i := range s {
		ret[i] = s[i].Driver.DriverID
	}
	return ret
}

func TestExtractDrivers(t *testing.T) {
	infos := seasondata.DriverInfos(42, []string{"d1", "d2", "d3"})
	races := []model.Race{
		seasondata.Race(2025, 1, []string{"d2", "d1"}),
		seasondata.Race(2025, 2, []string{"d1", "d3", "d2"}, seasondata.WithDriverInfos(infos)),
		seasondata.Race(2025, 3, []string{"d3", "d1"}),
	}
	got := standings.ExtractDrivers(races)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"d2", "d1", "d3"},
		[]string{got[0].DriverID, got[1].DriverID, got[2].DriverID})
	// later placeholder results must not overwrite the info from round 2
	assert.Equal(t, infos["d1"].LastName, got[1].LastName)
	assert.Equal(t, infos["d1"].ConstructorName, got[1].ConstructorName)
	assert.Equal(t, infos["d3"].Code, got[2].Code)
}

func TestExtractDrivers_Fallbacks(t *testing.T) {
	races := []model.Race{seasondata.Race(2025, 1, []string{"max_verstappen", "li"})}
	got := standings.ExtractDrivers(races)
	want := []model.Driver{
		{DriverID: "max_verstappen", Code: "MAX", LastName: "max_verstappen"},
		{DriverID: "li", Code: "LI", LastName: "li"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractDrivers() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, standings.ExtractDrivers(nil))
}

func TestExtractDrivers_TeamChange(t *testing.T) {
	r1 := seasondata.Race(2025, 1, []string{"d1"})
	r1.Results[0].Driver = null.From(model.DriverInfo{LastName: "Doe", ConstructorID: "old"})
	r2 := seasondata.Race(2025, 2, []string{"d1"})
	r2.Results[0].Driver = null.From(model.DriverInfo{LastName: "Doe", ConstructorID: "new"})
	got := standings.ExtractDrivers([]model.Race{r1, r2})
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ConstructorID)
	assert.Equal(t, "d1", got[0].DriverID)
}

func TestCalculate(t *testing.T) {
	order := seasondata.DriverIDs(4)
	races := []model.Race{
		seasondata.Race(2025, 1, order),
		seasondata.Race(2025, 2, []string{"d2", "d1", "d3", "d4"}),
		seasondata.Race(2025, 3, order, seasondata.WithDNF("d4")),
	}
	drivers := standings.ExtractDrivers(races)
	got := standings.Calculate(drivers, races)

	require.Equal(t, []string{"d1", "d2", "d3", "d4"}, driverIDs(got))
	assert.Equal(t, 25+18+25, got[0].Points)
	assert.Equal(t, 2, got[0].Wins)
	assert.Equal(t, 3, got[0].Podiums)
	assert.Equal(t, []int{2, 1, 0, 0, 0, 0, 0, 0, 0, 0}, got[0].PositionHistory)
	assert.Equal(t, 12+12, got[3].Points)
	assert.Equal(t, []int{0, 0, 0, 2, 0, 0, 0, 0, 0, 0}, got[3].PositionHistory)
	assert.Equal(t, 0, got[3].Podiums)
	for i := range got {
		assert.Equal(t, i+1, got[i].Position)
	}
	assert.True(t, decimal.NewFromInt(68).Equal(got[0].OfficialPoints))
}

func TestCalculate_HistoryAndOfficialRaces(t *testing.T) {
	order := seasondata.DriverIDs(3)
	all := seasondata.FixedOrderRaces(2025, 1, 4, order)
	drivers := standings.ExtractDrivers(all)

	got := standings.Calculate(drivers, all[:2],
		standings.WithHistoryRaces(all[:1]),
		standings.WithOfficialRaces(all))
	assert.Equal(t, 50, got[0].Points)
	assert.Equal(t, 1, got[0].Wins)
	assert.Equal(t, 1, got[0].PositionHistory[0])
	assert.True(t, decimal.NewFromInt(100).Equal(got[0].OfficialPoints))
}

func TestCalculate_Tiebreaker(t *testing.T) {
	// d1: P1, P10 -> 25 + 1 = 26
	// d2: P2, P6  -> 18 + 8 = 26
	filler := seasondata.DriverIDs(12)[2:]
	r1 := seasondata.Race(2025, 1, append([]string{"d1", "d2"}, filler...))
	r2order := []string{"d3", "d4", "d5", "d6", "d7", "d2", "d8", "d9", "d10", "d1", "d11", "d12"}
	r2 := seasondata.Race(2025, 2, r2order)
	races := []model.Race{r1, r2}

	// d2 first in roster, still d1 must win the tiebreak by wins
	drivers := []model.Driver{{DriverID: "d2"}, {DriverID: "d1"}}
	got := standings.Calculate(drivers, races)
	require.Equal(t, 26, got[0].Points)
	require.Equal(t, 26, got[1].Points)
	assert.Equal(t, []string{"d1", "d2"}, driverIDs(got))
}

func TestCalculate_StableOnFullTie(t *testing.T) {
	drivers := []model.Driver{{DriverID: "c"}, {DriverID: "a"}, {DriverID: "b"}}
	got := standings.Calculate(drivers, nil)
	assert.Equal(t, []string{"c", "a", "b"}, driverIDs(got))
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Position, got[1].Position, got[2].Position})
	for i := range got {
		assert.Len(t, got[i].PositionHistory, 10)
		assert.True(t, got[i].OfficialPoints.IsZero())
	}
}

func TestSort_Idempotent(t *testing.T) {
	ids := seasondata.DriverIDs(12)
	races := []model.Race{
		seasondata.Race(2025, 1, ids),
		seasondata.Race(2025, 2, slices.Concat(ids[6:], ids[:6])),
		seasondata.Race(2025, 3, slices.Concat(ids[3:], ids[:3]), seasondata.WithSprint(ids)),
	}
	got := standings.Calculate(standings.ExtractDrivers(races), races)
	again := slices.Clone(got)
	standings.Sort(again)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("Sort not idempotent (-first +second):\n%s", diff)
	}
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Points, got[i].Points)
		assert.Less(t, got[i-1].Position, got[i].Position)
	}
}

func TestCompareTiebreaker(t *testing.T) {
	tests := []struct {
		name string
		a, b model.DriverStanding
		want int
	}{
		{
			name: "more points first",
			a:    model.DriverStanding{Points: 10},
			b:    model.DriverStanding{Points: 5},
			want: -1,
		},
		{
			name: "less points last",
			a:    model.DriverStanding{Points: 5},
			b:    model.DriverStanding{Points: 10},
			want: 1,
		},
		{
			name: "more wins first",
			a:    model.DriverStanding{Points: 5, PositionHistory: []int{1, 0}},
			b:    model.DriverStanding{Points: 5, PositionHistory: []int{0, 3}},
			want: -1,
		},
		{
			name: "second places decide",
			a:    model.DriverStanding{Points: 5, PositionHistory: []int{1, 0}},
			b:    model.DriverStanding{Points: 5, PositionHistory: []int{1, 1}},
			want: 1,
		},
		{
			name: "full tie",
			a:    model.DriverStanding{Points: 5, PositionHistory: []int{1, 1}},
			b:    model.DriverStanding{Points: 5, PositionHistory: []int{1, 1}},
			want: 0,
		},
		{
			name: "missing history counts as zero",
			a:    model.DriverStanding{Points: 5},
			b:    model.DriverStanding{Points: 5, PositionHistory: []int{0, 0, 1}},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := standings.CompareTiebreaker(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}
