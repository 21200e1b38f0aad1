package model

import (
	"time"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"
)

type (
	RaceResult struct {
		DriverID string `json:"driverId"`
		// null if the driver did not finish, did not start or was disqualified
		Position null.Val[int]   `json:"position"`
		Points   decimal.Decimal `json:"points"` // as awarded by the official rules
		Grid     int             `json:"grid"`
		Status   string          `json:"status"`
		// only set if the driver finished within the eligible positions
		FastestLap     bool                 `json:"fastestLap"`
		FastestLapRank null.Val[int]        `json:"fastestLapRank"`
		Driver         null.Val[DriverInfo] `json:"driver"`
	}

	QualifyingResult struct {
		DriverID string `json:"driverId"`
		Position int    `json:"position"`
	}

	SprintResult struct {
		DriverID string          `json:"driverId"`
		Position null.Val[int]   `json:"position"`
		Points   decimal.Decimal `json:"points"`
	}

	Race struct {
		Season      int                `json:"season"`
		Round       int                `json:"round"`
		RaceName    string             `json:"raceName"`
		CircuitID   string             `json:"circuitId"`
		CircuitName string             `json:"circuitName"`
		Country     string             `json:"country"`
		Date        string             `json:"date"`
		Results     []RaceResult       `json:"results"`
		Qualifying  []QualifyingResult `json:"qualifying"`
		Sprint      []SprintResult     `json:"sprint"` // nil if the weekend had no sprint
	}

	CalendarEntry struct {
		Season      int    `json:"season"`
		Round       int    `json:"round"`
		RaceName    string `json:"raceName"`
		CircuitID   string `json:"circuitId"`
		CircuitName string `json:"circuitName"`
		Country     string `json:"country"`
		Date        string `json:"date"`
		HasSprint   bool   `json:"hasSprintRace"`
	}

	// Season bundles everything known about a season. Races contains only
	// weekends with results and is a prefix of the calendar.
	Season struct {
		Year     int             `json:"year"`
		Calendar []CalendarEntry `json:"calendar"`
		Races    []Race          `json:"races"`
	}
)

// HasSprint reports whether the weekend included a sprint race.
func (r *Race) HasSprint() bool {
	return r.Sprint != nil
}

func (r *Race) Result(driverID string) (RaceResult, bool) {
	for i := range r.Results {
		if r.Results[i].DriverID == driverID {
			return r.Results[i], true
		}
	}
	return RaceResult{}, false
}

func (r *Race) SprintResult(driverID string) (SprintResult, bool) {
	for i := range r.Sprint {
		if r.Sprint[i].DriverID == driverID {
			return r.Sprint[i], true
		}
	}
	return SprintResult{}, false
}

func (r *Race) QualifyingResult(driverID string) (QualifyingResult, bool) {
	for i := range r.Qualifying {
		if r.Qualifying[i].DriverID == driverID {
			return r.Qualifying[i], true
		}
	}
	return QualifyingResult{}, false
}

// StartDate parses the scheduled date. Accepts plain dates (2025-03-16) and
// RFC3339 timestamps.
func (c *CalendarEntry) StartDate() (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, c.Date); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, c.Date)
}
