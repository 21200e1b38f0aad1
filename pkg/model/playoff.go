package model

import (
	"slices"

	"github.com/aarondl/opt/null"
)

type (
	SeasonStatus string
	PlayoffStage string
)

const (
	StatusPreSeason     SeasonStatus = "pre-season"
	StatusRegularSeason SeasonStatus = "regular-season"
	StatusPlayoffs      SeasonStatus = "playoffs"
	StatusCompleted     SeasonStatus = "completed"
)

const (
	StageNotStarted PlayoffStage = "not-started"
	StageFinal      PlayoffStage = "final"
	StageCompleted  PlayoffStage = "completed"
)

type (
	PlayoffRound struct {
		Round       int              `json:"round"`
		RaceNumbers []int            `json:"raceNumbers"`
		Standings   []DriverStanding `json:"standings"`
		Eliminated  []string         `json:"eliminated"`
		Advancing   []string         `json:"advancing"`
		// false while races of this round are outstanding. Eliminated and
		// Advancing are provisional in that case.
		Complete bool `json:"complete"`
	}

	PlayoffState struct {
		Season                 int              `json:"season"`
		TotalRaces             int              `json:"totalRaces"`
		RegularSeasonRaces     int              `json:"regularSeasonRaces"`
		PlayoffStartRace       int              `json:"playoffStartRace"`
		RegularSeasonStandings []DriverStanding `json:"regularSeasonStandings"`
		QualifiedDrivers       []string         `json:"qualifiedDrivers"`
		Rounds                 []PlayoffRound   `json:"rounds"`
		Champion               null.Val[string] `json:"champion"`
		Status                 SeasonStatus     `json:"status"`
		Stage                  PlayoffStage     `json:"stage"`
	}
)

func (r *PlayoffRound) Standing(driverID string) (DriverStanding, bool) {
	idx := slices.IndexFunc(r.Standings, func(s DriverStanding) bool {
		return s.Driver.DriverID == driverID
	})
	if idx == -1 {
		return DriverStanding{}, false
	}
	return r.Standings[idx], true
}

func (s *PlayoffState) IsQualified(driverID string) bool {
	return slices.Contains(s.QualifiedDrivers, driverID)
}

// Round returns the recorded round with the given number
func (s *PlayoffState) Round(num int) (*PlayoffRound, bool) {
	for i := range s.Rounds {
		if s.Rounds[i].Round == num {
			return &s.Rounds[i], true
		}
	}
	return nil, false
}
