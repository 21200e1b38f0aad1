package playoff

import (
	"fmt"
	"slices"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/points"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/season"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/standings"
)

type (
	Option func(e *Engine)
	// Engine computes the playoff state of a season. It holds no mutable state,
	// an Engine may be used concurrently.
	Engine struct {
		format  season.Format
		scoring points.Scoring
		now     func() time.Time
		l       *log.Logger
	}
)

func WithFormat(f season.Format) Option {
	return func(e *Engine) {
		e.format = f
	}
}

func WithScoring(s points.Scoring) Option {
	return func(e *Engine) {
		e.scoring = s
	}
}

// WithClock sets the time source used to determine the season status
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.l = l
	}
}

// NewEngine creates an engine. Panics if the playoff format is invalid.
func NewEngine(opts ...Option) *Engine {
	ret := &Engine{
		format:  season.DefaultFormat,
		scoring: points.DefaultScoring,
		now:     time.Now,
		l:       log.Default().Named("playoff"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if err := ret.format.Validate(); err != nil {
		panic(err)
	}
	return ret
}

// Calculate computes the playoff state with the default engine
func Calculate(races []model.Race, calendar []model.CalendarEntry) *model.PlayoffState {
	return NewEngine().Calculate(races, calendar)
}

func (e *Engine) Format() season.Format {
	return e.format
}

func (e *Engine) Scoring() points.Scoring {
	return e.scoring
}

// Calculate computes the playoff state from the races run so far.
// Races must be a prefix of the calendar in round order.
//
//nolint:funlen // by design
func (e *Engine) Calculate(
	races []model.Race,
	calendar []model.CalendarEntry,
) *model.PlayoffState {
	f := e.format
	total := len(calendar)
	if total == 0 {
		return &model.PlayoffState{
			Season:                 seasonYear(races, calendar),
			RegularSeasonStandings: make([]model.DriverStanding, 0),
			QualifiedDrivers:       make([]string, 0),
			Rounds:                 make([]model.PlayoffRound, 0),
			Status:                 model.StatusPreSeason,
			Stage:                  model.StageNotStarted,
		}
	}

	drivers := standings.ExtractDrivers(races)
	regular := standings.Calculate(drivers,
		f.RegularSeasonRaces(races, total),
		standings.WithOfficialRaces(races),
		standings.WithScoring(e.scoring))

	qualifiers := regular[:min(f.Qualifiers, len(regular))]
	qualifiedDrivers := lo.Map(qualifiers, func(s model.DriverStanding, _ int) model.Driver {
		return s.Driver
	})
	qualifiedIDs := lo.Map(qualifiedDrivers, func(d model.Driver, _ int) string {
		return d.DriverID
	})

	ret := &model.PlayoffState{
		Season:                 seasonYear(races, calendar),
		TotalRaces:             total,
		RegularSeasonRaces:     f.RegularSeasonRaceCount(total),
		PlayoffStartRace:       f.PlayoffStartRace(total),
		RegularSeasonStandings: regular,
		QualifiedDrivers:       qualifiedIDs,
		Rounds:                 make([]model.PlayoffRound, 0, len(f.Rounds)),
	}

	active := slices.Clone(qualifiedIDs)
	for round := 1; round <= f.FinalRound(); round++ {
		roundRaces := f.RoundRaces(races, total, round)
		if len(roundRaces) == 0 {
			break
		}
		pr := e.calculateRound(round, total, qualifiedDrivers, active, roundRaces)
		ret.Rounds = append(ret.Rounds, pr)
		e.l.Debug("playoff round calculated",
			log.Int("season", ret.Season),
			log.Int("round", round),
			log.Int("races", len(roundRaces)),
			log.Bool("complete", pr.Complete),
			log.Strings("eliminated", pr.Eliminated))

		if !pr.Complete {
			continue
		}
		active = pr.Advancing
		if round == f.FinalRound() && len(pr.Advancing) > 0 {
			ret.Champion = null.From(pr.Advancing[0])
		}
	}

	ret.Status = f.Status(calendar, len(races), e.now())
	ret.Stage = e.stage(ret)
	return ret
}

// calculateRound computes the standings of a round for all qualified drivers.
// Only drivers still active are considered for advancing.
//
//nolint:whitespace // can't make both editor and linter happy
func (e *Engine) calculateRound(
	round, totalRaces int,
	qualified []model.Driver,
	active []string,
	roundRaces []model.Race,
) model.PlayoffRound {
	def := e.format.Round(round)
	roundStandings := standings.Calculate(qualified, roundRaces, standings.WithScoring(e.scoring))

	advanceCount := def.EndDrivers
	if round == e.format.FinalRound() {
		advanceCount = 1
	}

	ret := model.PlayoffRound{
		Round:       round,
		RaceNumbers: e.format.RoundRaceNumbers(totalRaces, round),
		Standings:   roundStandings,
		Eliminated:  make([]string, 0),
		Advancing:   make([]string, 0),
		Complete:    len(roundRaces) >= def.Races,
	}
	for _, s := range roundStandings {
		id := s.Driver.DriverID
		if !lo.Contains(active, id) {
			continue
		}
		if len(ret.Advancing) < advanceCount {
			ret.Advancing = append(ret.Advancing, id)
		} else {
			ret.Eliminated = append(ret.Eliminated, id)
		}
	}
	return ret
}

func (e *Engine) stage(s *model.PlayoffState) model.PlayoffStage {
	if s.Champion.IsValue() {
		return model.StageCompleted
	}
	if len(s.Rounds) == 0 {
		return model.StageNotStarted
	}
	last := s.Rounds[len(s.Rounds)-1]
	current := last.Round
	if last.Complete {
		current++
	}
	switch {
	case current > e.format.FinalRound():
		return model.StageCompleted
	case current == e.format.FinalRound():
		return model.StageFinal
	default:
		return model.PlayoffStage(fmt.Sprintf("round-%d", current))
	}
}

func seasonYear(races []model.Race, calendar []model.CalendarEntry) int {
	if len(races) > 0 {
		return races[0].Season
	}
	if len(calendar) > 0 {
		return calendar[0].Season
	}
	return 0
}
