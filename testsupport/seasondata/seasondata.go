// Package seasondata creates season data for tests.
package seasondata

import (
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/points"
)

type (
	RaceOption func(r *model.Race)
)

func seasonStart(season int) time.Time {
	return time.Date(season, time.March, 16, 0, 0, 0, 0, time.UTC)
}

// DriverIDs returns d1..dn
func DriverIDs(n int) []string {
	ret := make([]string, n)
	for i := range ret {
		ret[i] = fmt.Sprintf("d%d", i+1)
	}
	return ret
}

// DriverInfos creates random but reproducible display attributes per driver id
func DriverInfos(seed uint64, ids []string) map[string]model.DriverInfo {
	f := gofakeit.New(seed)
	ret := make(map[string]model.DriverInfo, len(ids))
	for _, id := range ids {
		last := f.LastName()
		team := f.Company()
		ret[id] = model.DriverInfo{
			Code:            strings.ToUpper(last[:min(3, len(last))]),
			FirstName:       f.FirstName(),
			LastName:        last,
			Nationality:     f.Country(),
			ConstructorID:   strings.ToLower(strings.ReplaceAll(team, " ", "_")),
			ConstructorName: team,
		}
	}
	return ret
}

// Calendar creates a calendar with weekly races
func Calendar(season, total int) []model.CalendarEntry {
	ret := make([]model.CalendarEntry, total)
	for i := range ret {
		ret[i] = model.CalendarEntry{
			Season:      season,
			Round:       i + 1,
			RaceName:    fmt.Sprintf("Grand Prix %d", i+1),
			CircuitID:   fmt.Sprintf("circuit%d", i+1),
			CircuitName: fmt.Sprintf("Circuit %d", i+1),
			Country:     "Nowhere",
			Date:        seasonStart(season).AddDate(0, 0, 7*i).Format(time.DateOnly),
		}
	}
	return ret
}

// Race creates a race where the drivers finish in the given order.
// Official points follow the default scoring table.
func Race(season, round int, order []string, opts ...RaceOption) model.Race {
	r := model.Race{
		Season:      season,
		Round:       round,
		RaceName:    fmt.Sprintf("Grand Prix %d", round),
		CircuitID:   fmt.Sprintf("circuit%d", round),
		CircuitName: fmt.Sprintf("Circuit %d", round),
		Country:     "Nowhere",
		Date:        seasonStart(season).AddDate(0, 0, 7*(round-1)).Format(time.DateOnly),
		Results:     make([]model.RaceResult, len(order)),
		Qualifying:  []model.QualifyingResult{},
	}
	for i, id := range order {
		pos := null.From(i + 1)
		r.Results[i] = model.RaceResult{
			DriverID: id,
			Position: pos,
			Points:   decimal.NewFromInt(int64(points.RacePoints(pos))),
			Grid:     i + 1,
			Status:   "Finished",
		}
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// FixedOrderRaces creates the rounds from..to all finishing in the same order
func FixedOrderRaces(season, from, to int, order []string) []model.Race {
	ret := make([]model.Race, 0, to-from+1)
	for round := from; round <= to; round++ {
		ret = append(ret, Race(season, round, order))
	}
	return ret
}

func WithQualifying(order []string) RaceOption {
	return func(r *model.Race) {
		r.Qualifying = make([]model.QualifyingResult, len(order))
		for i, id := range order {
			r.Qualifying[i] = model.QualifyingResult{DriverID: id, Position: i + 1}
		}
	}
}

func WithSprint(order []string) RaceOption {
	return func(r *model.Race) {
		r.Sprint = make([]model.SprintResult, len(order))
		for i, id := range order {
			pos := null.From(i + 1)
			r.Sprint[i] = model.SprintResult{
				DriverID: id,
				Position: pos,
				Points:   decimal.NewFromInt(int64(points.SprintPoints(pos))),
			}
		}
	}
}

func WithFastestLap(driverID string) RaceOption {
	return func(r *model.Race) {
		for i := range r.Results {
			if r.Results[i].DriverID == driverID {
				r.Results[i].FastestLap = true
				r.Results[i].FastestLapRank = null.From(1)
			}
		}
	}
}

// WithDNF marks the driver as not classified
func WithDNF(driverID string) RaceOption {
	return func(r *model.Race) {
		for i := range r.Results {
			if r.Results[i].DriverID == driverID {
				r.Results[i].Position = null.Val[int]{}
				r.Results[i].Points = decimal.Zero
				r.Results[i].Status = "Retired"
			}
		}
	}
}

func WithDriverInfos(infos map[string]model.DriverInfo) RaceOption {
	return func(r *model.Race) {
		for i := range r.Results {
			if info, ok := infos[r.Results[i].DriverID]; ok {
				r.Results[i].Driver = null.From(info)
			}
		}
	}
}
