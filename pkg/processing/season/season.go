package season

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
)

type (
	// RoundDef describes a single elimination round
	RoundDef struct {
		Round        int
		StartDrivers int
		EndDrivers   int // drivers advancing to the next round
		Races        int
	}

	// Format describes how a season is split into regular season and playoffs
	Format struct {
		PlayoffRaces int // number of races at the end of the season reserved for playoffs
		Qualifiers   int // number of drivers entering the playoffs
		Rounds       []RoundDef
	}
)

var ErrInvalidFormat = errors.New("invalid playoff format")

// DefaultFormat is the format of the competition:
// 10 drivers qualify, three rounds of two races eliminate two drivers each,
// the final four meet in a single winner-take-all race.
var DefaultFormat = Format{
	PlayoffRaces: 7,
	Qualifiers:   10,
	Rounds: []RoundDef{
		{Round: 1, StartDrivers: 10, EndDrivers: 8, Races: 2},
		{Round: 2, StartDrivers: 8, EndDrivers: 6, Races: 2},
		{Round: 3, StartDrivers: 6, EndDrivers: 4, Races: 2},
		{Round: 4, StartDrivers: 4, EndDrivers: 1, Races: 1},
	},
}

//nolint:cyclop // a list of checks
func (f Format) Validate() error {
	if len(f.Rounds) == 0 {
		return fmt.Errorf("%w: no rounds", ErrInvalidFormat)
	}
	if f.Qualifiers != f.Rounds[0].StartDrivers {
		return fmt.Errorf("%w: %d qualifiers but round 1 starts with %d drivers",
			ErrInvalidFormat, f.Qualifiers, f.Rounds[0].StartDrivers)
	}
	races := lo.SumBy(f.Rounds, func(r RoundDef) int { return r.Races })
	if races != f.PlayoffRaces {
		return fmt.Errorf("%w: rounds cover %d races, playoffs have %d",
			ErrInvalidFormat, races, f.PlayoffRaces)
	}
	for i, r := range f.Rounds {
		if r.Round != i+1 {
			return fmt.Errorf("%w: round %d defined at position %d", ErrInvalidFormat, r.Round, i+1)
		}
		if r.Races < 1 {
			return fmt.Errorf("%w: round %d has no races", ErrInvalidFormat, r.Round)
		}
		if r.EndDrivers < 1 || r.EndDrivers >= r.StartDrivers {
			return fmt.Errorf("%w: round %d does not eliminate drivers", ErrInvalidFormat, r.Round)
		}
		if i > 0 && f.Rounds[i-1].EndDrivers != r.StartDrivers {
			return fmt.Errorf("%w: round %d starts with %d drivers, %d advanced",
				ErrInvalidFormat, r.Round, r.StartDrivers, f.Rounds[i-1].EndDrivers)
		}
	}
	return nil
}

// FinalRound is the number of the winner-take-all round
func (f Format) FinalRound() int {
	return len(f.Rounds)
}

// Round returns the definition for the 1-based round number.
// Panics if the round is not configured.
func (f Format) Round(round int) RoundDef {
	if round < 1 || round > len(f.Rounds) {
		panic(fmt.Sprintf("playoff round %d not configured (rounds: %d)", round, len(f.Rounds)))
	}
	return f.Rounds[round-1]
}

func (f Format) RegularSeasonRaceCount(totalRaces int) int {
	return totalRaces - f.PlayoffRaces
}

func (f Format) PlayoffStartRace(totalRaces int) int {
	return f.RegularSeasonRaceCount(totalRaces) + 1
}

func (f Format) RegularSeasonRaces(races []model.Race, totalRaces int) []model.Race {
	end := f.RegularSeasonRaceCount(totalRaces)
	return lo.Filter(races, func(r model.Race, _ int) bool {
		return r.Round <= end
	})
}

// RoundRaceNumbers returns the calendar rounds belonging to the playoff round
func (f Format) RoundRaceNumbers(totalRaces, round int) []int {
	def := f.Round(round)
	offset := lo.SumBy(f.Rounds[:round-1], func(r RoundDef) int { return r.Races })
	start := f.PlayoffStartRace(totalRaces) + offset
	return lo.RangeFrom(start, def.Races)
}

// RoundRaces returns the races of the playoff round which have been run
func (f Format) RoundRaces(races []model.Race, totalRaces, round int) []model.Race {
	numbers := f.RoundRaceNumbers(totalRaces, round)
	return lo.Filter(races, func(r model.Race, _ int) bool {
		return lo.Contains(numbers, r.Round)
	})
}

// Status determines the phase of the season.
// With no completed races the season is only considered pre-season as long as
// the first race date lies in the future.
func (f Format) Status(calendar []model.CalendarEntry, completed int, now time.Time) model.SeasonStatus {
	if len(calendar) == 0 {
		return model.StatusPreSeason
	}
	total := len(calendar)
	if completed > 0 {
		switch {
		case completed >= total:
			return model.StatusCompleted
		case completed >= f.PlayoffStartRace(total):
			return model.StatusPlayoffs
		default:
			return model.StatusRegularSeason
		}
	}
	first, err := calendar[0].StartDate()
	if err == nil && now.Before(first) {
		return model.StatusPreSeason
	}
	return model.StatusRegularSeason
}
