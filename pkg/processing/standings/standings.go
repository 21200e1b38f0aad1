package standings

import (
	"slices"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/points"
)

type (
	Option func(c *config)
	config struct {
		scoring       points.Scoring
		historyRaces  []model.Race
		officialRaces []model.Race
		hasHistory    bool
		hasOfficial   bool
	}
)

// WithHistoryRaces sets the races used for wins, podiums and the position history.
// Defaults to the points races.
func WithHistoryRaces(races []model.Race) Option {
	return func(c *config) {
		c.historyRaces = races
		c.hasHistory = true
	}
}

// WithOfficialRaces sets the races used for the official points.
// Defaults to the points races.
func WithOfficialRaces(races []model.Race) Option {
	return func(c *config) {
		c.officialRaces = races
		c.hasOfficial = true
	}
}

func WithScoring(s points.Scoring) Option {
	return func(c *config) {
		c.scoring = s
	}
}

// ExtractDrivers collects the drivers found in the race results in order of
// their first appearance. Display attributes are taken from the latest result
// which carries driver information.
func ExtractDrivers(races []model.Race) []model.Driver {
	ret := make([]model.Driver, 0)
	idx := make(map[string]int)
	for i := range races {
		for _, res := range races[i].Results {
			pos, exists := idx[res.DriverID]
			switch {
			case !exists:
				idx[res.DriverID] = len(ret)
				ret = append(ret, model.NewDriver(res.DriverID, res.Driver))
			case res.Driver.IsValue():
				ret[pos] = model.NewDriver(res.DriverID, res.Driver)
			}
		}
	}
	return ret
}

// Calculate computes the standings of the drivers for the given races.
// The result is sorted by CompareTiebreaker, ties keep the order of drivers.
func Calculate(drivers []model.Driver, races []model.Race, opts ...Option) []model.DriverStanding {
	cfg := &config{scoring: points.DefaultScoring}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.hasHistory {
		cfg.historyRaces = races
	}
	if !cfg.hasOfficial {
		cfg.officialRaces = races
	}

	ret := make([]model.DriverStanding, len(drivers))
	for i, d := range drivers {
		ret[i] = model.DriverStanding{
			Driver:          d,
			Points:          cfg.scoring.TotalPoints(d.DriverID, races),
			PositionHistory: positionHistory(d.DriverID, cfg.historyRaces, cfg.scoring.RacePositions()),
			OfficialPoints:  points.OfficialPoints(d.DriverID, cfg.officialRaces),
		}
		ret[i].Wins, ret[i].Podiums = countWinsAndPodiums(d.DriverID, cfg.historyRaces)
	}
	Sort(ret)
	return ret
}

// Sort sorts the standings in place and assigns the positions
func Sort(s []model.DriverStanding) {
	slices.SortStableFunc(s, CompareTiebreaker)
	for i := range s {
		s[i].Position = i + 1
	}
}

// CompareTiebreaker orders by points (descending). Equal points are resolved by
// the position history: more wins first, then more second places and so on.
// Returns 0 if both are fully tied.
func CompareTiebreaker(a, b model.DriverStanding) int {
	if a.Points != b.Points {
		return b.Points - a.Points
	}
	for i := range max(len(a.PositionHistory), len(b.PositionHistory)) {
		ac, bc := at(a.PositionHistory, i), at(b.PositionHistory, i)
		if ac != bc {
			return bc - ac
		}
	}
	return 0
}

func positionHistory(driverID string, races []model.Race, size int) []int {
	ret := make([]int, size)
	for i := range races {
		res, ok := races[i].Result(driverID)
		if !ok {
			continue
		}
		if pos, ok := res.Position.Get(); ok && pos >= 1 && pos <= size {
			ret[pos-1]++
		}
	}
	return ret
}

func countWinsAndPodiums(driverID string, races []model.Race) (wins, podiums int) {
	for i := range races {
		res, ok := races[i].Result(driverID)
		if !ok {
			continue
		}
		pos := res.Position.GetOr(0)
		if pos == 1 {
			wins++
		}
		if pos >= 1 && pos <= 3 {
			podiums++
		}
	}
	return wins, podiums
}

func at(s []int, i int) int {
	if i < len(s) {
		return s[i]
	}
	return 0
}
