// Package bracket provides queries on a computed playoff state.
// Lookups of unknown drivers never fail, they yield neutral values.
package bracket

import (
	"slices"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
)

const (
	NotQualified  = -1
	NotEliminated = 0
)

// EliminationRound returns the round in which the driver was eliminated.
// Returns NotQualified for drivers outside the playoffs and NotEliminated for
// drivers still in contention (including the champion).
func EliminationRound(driverID string, state *model.PlayoffState) int {
	if !state.IsQualified(driverID) {
		return NotQualified
	}
	for i := range state.Rounds {
		if slices.Contains(state.Rounds[i].Eliminated, driverID) {
			return state.Rounds[i].Round
		}
	}
	return NotEliminated
}

// RoundPoints returns the points of the driver within the round.
// The value is null if the round is nil or the driver is not part of it.
func RoundPoints(round *model.PlayoffRound, driverID string) null.Val[int] {
	if round == nil {
		return null.Val[int]{}
	}
	if s, ok := round.Standing(driverID); ok {
		return null.From(s.Points)
	}
	return null.Val[int]{}
}

// BracketPoints sums the round points of the driver from startRound onwards
func BracketPoints(driverID string, startRound int, state *model.PlayoffState) int {
	return lo.SumBy(state.Rounds, func(r model.PlayoffRound) int {
		if r.Round < startRound {
			return 0
		}
		return RoundPoints(&r, driverID).GetOr(0)
	})
}

// GhostRaceStart returns the first calendar race the driver no longer
// competes in: the playoff start for drivers who did not qualify, the race
// after the elimination round otherwise. Null for drivers still in contention.
func GhostRaceStart(driverID string, state *model.PlayoffState) null.Val[int] {
	if state.PlayoffStartRace < 1 {
		return null.Val[int]{}
	}
	if !state.IsQualified(driverID) {
		return null.From(state.PlayoffStartRace)
	}
	for i := range state.Rounds {
		r := &state.Rounds[i]
		if slices.Contains(r.Eliminated, driverID) && len(r.RaceNumbers) > 0 {
			return null.From(slices.Max(r.RaceNumbers) + 1)
		}
	}
	return null.Val[int]{}
}

// PlayoffRoundOfRace returns the playoff round the calendar race belongs to.
// Zero for regular season races and races of rounds not yet started.
func PlayoffRoundOfRace(raceNumber int, state *model.PlayoffState) int {
	for i := range state.Rounds {
		if slices.Contains(state.Rounds[i].RaceNumbers, raceNumber) {
			return state.Rounds[i].Round
		}
	}
	return 0
}

func WasEliminatedInRound(round *model.PlayoffRound, driverID string) bool {
	if round == nil {
		return false
	}
	return slices.Contains(round.Eliminated, driverID)
}

// AdvancedViaTiebreak reports whether the driver survived the round with the
// same points as a driver who got eliminated.
func AdvancedViaTiebreak(round *model.PlayoffRound, driverID string) bool {
	if round == nil {
		return false
	}
	s, ok := round.Standing(driverID)
	if !ok || slices.Contains(round.Eliminated, driverID) {
		return false
	}
	return lo.SomeBy(round.Eliminated, func(id string) bool {
		other, found := round.Standing(id)
		return found && other.Points == s.Points
	})
}

// SortByProgression orders the standings of the qualified drivers by playoff
// progress: champion first, then drivers still in contention, then by
// elimination round (later is better). Drivers of the same group are ordered
// by the points of the round that decided their group.
// Returns a new slice, the input is not modified.
func SortByProgression(standings []model.DriverStanding, state *model.PlayoffState) []model.DriverStanding {
	champion := state.Champion.GetOr("")
	latest := 0
	if len(state.Rounds) > 0 {
		latest = state.Rounds[len(state.Rounds)-1].Round
	}
	roundPoints := func(driverID string, round int) int {
		r, ok := state.Round(round)
		if !ok {
			return 0
		}
		return RoundPoints(r, driverID).GetOr(0)
	}

	ret := slices.Clone(standings)
	slices.SortStableFunc(ret, func(a, b model.DriverStanding) int {
		aID, bID := a.Driver.DriverID, b.Driver.DriverID
		if champion != "" {
			if aID == champion {
				return -1
			}
			if bID == champion {
				return 1
			}
		}
		aElim, bElim := EliminationRound(aID, state), EliminationRound(bID, state)
		if aElim != bElim {
			switch {
			case aElim == NotEliminated:
				return -1
			case bElim == NotEliminated:
				return 1
			default:
				return bElim - aElim
			}
		}
		decisive := aElim
		if aElim == NotEliminated {
			decisive = latest
		}
		return roundPoints(bID, decisive) - roundPoints(aID, decisive)
	})
	return ret
}
