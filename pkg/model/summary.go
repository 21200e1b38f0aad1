package model

import "github.com/aarondl/opt/null"

type RacePhase string

const (
	PhaseRegularSeason RacePhase = "regular-season"
	PhasePlayoffs      RacePhase = "playoffs"
	// races after the driver dropped out of the playoffs (or all playoff races
	// if the driver did not qualify). Points are shown but do not count.
	PhaseGhost RacePhase = "ghost"
)

type (
	// DriverRoundSummary describes the result of a driver in a single playoff round
	DriverRoundSummary struct {
		Round               int           `json:"round"`
		Points              null.Val[int] `json:"points"`
		Eliminated          bool          `json:"eliminated"`
		AdvancedViaTiebreak bool          `json:"advancedViaTiebreak"`
	}

	// DriverRaceSummary holds the points of a driver for one race weekend
	DriverRaceSummary struct {
		Round            int           `json:"round"`
		RaceName         string        `json:"raceName"`
		Phase            RacePhase     `json:"phase"`
		PlayoffRound     int           `json:"playoffRound,omitempty"`
		Position         null.Val[int] `json:"position"`
		Status           string        `json:"status"`
		RacePoints       int           `json:"racePoints"`
		SprintPoints     int           `json:"sprintPoints"`
		PolePoints       int           `json:"polePoints"`
		FastestLapPoints int           `json:"fastestLapPoints"`
		Points           int           `json:"points"`
	}

	// DriverSummary is the playoff view on a single driver
	DriverSummary struct {
		Driver              Driver               `json:"driver"`
		RegularSeason       DriverStanding       `json:"regularSeason"`
		RegularSeasonPoints int                  `json:"regularSeasonPoints"`
		Qualified           bool                 `json:"qualified"`
		EliminationRound    int                  `json:"eliminationRound"`
		BracketPoints       int                  `json:"bracketPoints"`
		Rounds              []DriverRoundSummary `json:"rounds"`
		Races               []DriverRaceSummary  `json:"races"`
		// first calendar race counted as ghost race, null if none
		GhostFromRace null.Val[int] `json:"ghostFromRace"`
		GhostPoints   int           `json:"ghostPoints"`
	}
)
