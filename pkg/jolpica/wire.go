package jolpica

import (
	"strconv"
	"strings"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/points"
)

// api payloads, all numbers are transferred as strings
type (
	wireDriver struct {
		DriverID    string `json:"driverId"`
		Code        string `json:"code"`
		GivenName   string `json:"givenName"`
		FamilyName  string `json:"familyName"`
		Nationality string `json:"nationality"`
	}
	wireConstructor struct {
		ConstructorID string `json:"constructorId"`
		Name          string `json:"name"`
	}
	wireFastestLap struct {
		Rank string `json:"rank"`
	}
	wireResult struct {
		Position    string          `json:"position"`
		Points      string          `json:"points"`
		Grid        string          `json:"grid"`
		Status      string          `json:"status"`
		Driver      wireDriver      `json:"Driver"`
		Constructor wireConstructor `json:"Constructor"`
		FastestLap  *wireFastestLap `json:"FastestLap"`
	}
	wireQualifying struct {
		Position string     `json:"position"`
		Driver   wireDriver `json:"Driver"`
	}
	wireRace struct {
		Season   string `json:"season"`
		Round    string `json:"round"`
		RaceName string `json:"raceName"`
		Date     string `json:"date"`
		Circuit  struct {
			CircuitID   string `json:"circuitId"`
			CircuitName string `json:"circuitName"`
			Location    struct {
				Country string `json:"country"`
			} `json:"Location"`
		} `json:"Circuit"`
		Results           []wireResult     `json:"Results"`
		QualifyingResults []wireQualifying `json:"QualifyingResults"`
		SprintResults     []wireResult     `json:"SprintResults"`
	}
)

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// classified reports whether the finishing position counts.
// Lapped cars report a status like "+1 Lap".
func classified(status string) bool {
	return status == "Finished" || strings.Contains(status, "Lap")
}

func (w *wireResult) position() null.Val[int] {
	if !classified(w.Status) {
		return null.Val[int]{}
	}
	pos, err := strconv.Atoi(w.Position)
	if err != nil {
		return null.Val[int]{}
	}
	return null.From(pos)
}

func (w *wireResult) points() decimal.Decimal {
	d, err := decimal.NewFromString(w.Points)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (w *wireResult) driverInfo() model.DriverInfo {
	return model.DriverInfo{
		Code:            w.Driver.Code,
		FirstName:       w.Driver.GivenName,
		LastName:        w.Driver.FamilyName,
		Nationality:     w.Driver.Nationality,
		ConstructorID:   w.Constructor.ConstructorID,
		ConstructorName: w.Constructor.Name,
	}
}

func (w *wireResult) toRaceResult() model.RaceResult {
	pos := w.position()
	ret := model.RaceResult{
		DriverID: w.Driver.DriverID,
		Position: pos,
		Points:   w.points(),
		Grid:     atoi(w.Grid),
		Status:   w.Status,
		Driver:   null.From(w.driverInfo()),
	}
	if w.FastestLap != nil {
		rank, err := strconv.Atoi(w.FastestLap.Rank)
		if err == nil {
			ret.FastestLapRank = null.From(rank)
			ret.FastestLap = rank == 1 &&
				pos.IsValue() &&
				pos.MustGet() <= points.DefaultScoring.FastestLapEligibility
		}
	}
	return ret
}

func (w *wireRace) toCalendarEntry() model.CalendarEntry {
	return model.CalendarEntry{
		Season:      atoi(w.Season),
		Round:       atoi(w.Round),
		RaceName:    w.RaceName,
		CircuitID:   w.Circuit.CircuitID,
		CircuitName: w.Circuit.CircuitName,
		Country:     w.Circuit.Location.Country,
		Date:        w.Date,
	}
}

func (w *wireRace) toRace() *model.Race {
	c := w.toCalendarEntry()
	ret := &model.Race{
		Season:      c.Season,
		Round:       c.Round,
		RaceName:    c.RaceName,
		CircuitID:   c.CircuitID,
		CircuitName: c.CircuitName,
		Country:     c.Country,
		Date:        c.Date,
		Results:     make([]model.RaceResult, 0, len(w.Results)),
		Qualifying:  []model.QualifyingResult{},
	}
	for i := range w.Results {
		ret.Results = append(ret.Results, w.Results[i].toRaceResult())
	}
	return ret
}

func (w *wireRace) qualifying() []model.QualifyingResult {
	ret := make([]model.QualifyingResult, 0, len(w.QualifyingResults))
	for _, q := range w.QualifyingResults {
		ret = append(ret, model.QualifyingResult{
			DriverID: q.Driver.DriverID,
			Position: atoi(q.Position),
		})
	}
	return ret
}

func (w *wireRace) sprint() []model.SprintResult {
	ret := make([]model.SprintResult, 0, len(w.SprintResults))
	for i := range w.SprintResults {
		s := &w.SprintResults[i]
		ret = append(ret, model.SprintResult{
			DriverID: s.Driver.DriverID,
			Position: s.position(),
			Points:   s.points(),
		})
	}
	return ret
}
