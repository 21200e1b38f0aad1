package points

import (
	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
)

// Scoring describes the points awarded per race weekend.
type Scoring struct {
	RaceTable        []int // index 0 is P1
	SprintTable      []int
	PolePoints       int
	FastestLapPoints int
	// a fastest lap only counts if the driver finished within this position
	FastestLapEligibility int
}

// DefaultScoring holds the rules of the competition format.
var DefaultScoring = Scoring{
	RaceTable:             []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
	SprintTable:           []int{8, 7, 6, 5, 4, 3, 2, 1},
	PolePoints:            1,
	FastestLapPoints:      1,
	FastestLapEligibility: 10,
}

// RacePositions is the number of scoring positions in a main race.
func (s Scoring) RacePositions() int {
	return len(s.RaceTable)
}

func (s Scoring) RacePoints(position null.Val[int]) int {
	return lookup(s.RaceTable, position)
}

func (s Scoring) SprintPoints(position null.Val[int]) int {
	return lookup(s.SprintTable, position)
}

// Breakdown splits the points of a race weekend by source
type Breakdown struct {
	Race       int `json:"race"`
	Sprint     int `json:"sprint"`
	Pole       int `json:"pole"`
	FastestLap int `json:"fastestLap"`
}

func (b Breakdown) Total() int {
	return b.Race + b.Sprint + b.Pole + b.FastestLap
}

// WeekendBreakdown returns the points a driver scored during a race weekend
// split into main race, sprint, pole position and fastest lap bonus.
func (s Scoring) WeekendBreakdown(driverID string, race *model.Race) Breakdown {
	ret := Breakdown{}
	if res, ok := race.Result(driverID); ok {
		ret.Race = s.RacePoints(res.Position)
		if res.FastestLap {
			ret.FastestLap = s.FastestLapPoints
		}
	}
	if race.HasSprint() {
		if res, ok := race.SprintResult(driverID); ok {
			ret.Sprint = s.SprintPoints(res.Position)
		}
	}
	if q, ok := race.QualifyingResult(driverID); ok && q.Position == 1 {
		ret.Pole = s.PolePoints
	}
	return ret
}

// WeekendPoints returns the points a driver scored during a race weekend.
// Includes main race, fastest lap bonus, sprint and pole position bonus.
func (s Scoring) WeekendPoints(driverID string, race *model.Race) int {
	return s.WeekendBreakdown(driverID, race).Total()
}

func (s Scoring) TotalPoints(driverID string, races []model.Race) int {
	ret := 0
	for i := range races {
		ret += s.WeekendPoints(driverID, &races[i])
	}
	return ret
}

// RacePoints returns the main race points for a finishing position.
// Unknown or invalid positions score nothing.
func RacePoints(position null.Val[int]) int {
	return DefaultScoring.RacePoints(position)
}

func SprintPoints(position null.Val[int]) int {
	return DefaultScoring.SprintPoints(position)
}

func WeekendBreakdown(driverID string, race *model.Race) Breakdown {
	return DefaultScoring.WeekendBreakdown(driverID, race)
}

func WeekendPoints(driverID string, race *model.Race) int {
	return DefaultScoring.WeekendPoints(driverID, race)
}

func TotalPoints(driverID string, races []model.Race) int {
	return DefaultScoring.TotalPoints(driverID, races)
}

// OfficialPoints sums the points as awarded by the official rules (race and
// sprint, no bonus points).
func OfficialPoints(driverID string, races []model.Race) decimal.Decimal {
	ret := decimal.Zero
	for i := range races {
		if res, ok := races[i].Result(driverID); ok {
			ret = ret.Add(res.Points)
		}
		if res, ok := races[i].SprintResult(driverID); ok {
			ret = ret.Add(res.Points)
		}
	}
	return ret
}

func lookup(table []int, position null.Val[int]) int {
	pos, ok := position.Get()
	if !ok || pos < 1 || pos > len(table) {
		return 0
	}
	return table[pos-1]
}
