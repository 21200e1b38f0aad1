// Package playoff combines fetching, storage and computation of playoff states.
package playoff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/bracket"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/playoff"
	"github.com/mpapenbr/gp-playoffs/pkg/utils/cache"
	"github.com/mpapenbr/gp-playoffs/pkg/utils/cache/loadercache"
)

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrNoFetcher      = errors.New("no fetcher configured")
	ErrNoSyncRun      = errors.New("season was never synced")
)

type (
	Fetcher interface {
		FetchSeason(ctx context.Context, year int) (*model.Season, error)
	}
	Store interface {
		SaveSeason(ctx context.Context, season *model.Season) error
		LoadSeason(ctx context.Context, year int) (*model.Season, error)
		DeleteSeason(ctx context.Context, year int) error
		ListSeasons(ctx context.Context) ([]int, error)
		SaveSyncRun(ctx context.Context, run *model.SyncRun) error
		// returns ErrNoSyncRun if the season was never synced
		LastSyncRun(ctx context.Context, year int) (*model.SyncRun, error)
	}
	Publisher interface {
		Publish(ctx context.Context, state *model.PlayoffState) error
	}

	Option  func(s *Service)
	Service struct {
		fetcher    Fetcher
		store      Store
		publishers []Publisher
		engine     *playoff.Engine
		expiration time.Duration
		now        func() time.Time
		states     cache.Cache[int, model.PlayoffState]
		tracer     trace.Tracer
		l          *log.Logger
	}
)

func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithPublisher adds a publisher receiving the state after each sync
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publishers = append(s.publishers, p)
	}
}

func WithEngine(e *playoff.Engine) Option {
	return func(s *Service) {
		s.engine = e
	}
}

// WithCacheExpiration controls how long computed states are kept
func WithCacheExpiration(d time.Duration) Option {
	return func(s *Service) {
		s.expiration = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.l = l
	}
}

func NewService(store Store, opts ...Option) *Service {
	ret := &Service{
		store:      store,
		expiration: 5 * time.Minute,
		now:        time.Now,
		tracer:     otel.Tracer("gpp/service/playoff"),
		l:          log.Default().Named("service"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.engine == nil {
		ret.engine = playoff.NewEngine(
			playoff.WithClock(ret.now),
			playoff.WithLogger(ret.l.Named("playoff")))
	}
	ret.states = loadercache.New(
		loadercache.WithLoader[int, model.PlayoffState](ret.computeState),
		loadercache.WithExpiration[int, model.PlayoffState](ret.expiration),
		loadercache.WithLogger[int, model.PlayoffState](ret.l.Named("cache")),
	)
	return ret
}

// Sync fetches the season from upstream, replaces the stored data and
// publishes the new state.
func (s *Service) Sync(ctx context.Context, year int) (*model.SyncRun, error) {
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}
	ctx, span := s.tracer.Start(ctx, "Sync", trace.WithAttributes(attribute.Int("year", year)))
	defer span.End()

	run := &model.SyncRun{ID: uuid.New(), Season: year, StartedAt: s.now()}
	l := s.l.With(log.String("run", run.ID.String()), log.Int("year", year))
	l.Info("sync started")

	season, err := s.fetcher.FetchSeason(ctx, year)
	if err != nil {
		return nil, s.spanError(span, fmt.Errorf("fetch: %w", err))
	}
	if err = s.store.SaveSeason(ctx, season); err != nil {
		return nil, s.spanError(span, fmt.Errorf("store: %w", err))
	}
	run.Races = len(season.Races)
	run.FinishedAt = s.now()
	if err = s.store.SaveSyncRun(ctx, run); err != nil {
		return nil, s.spanError(span, fmt.Errorf("store sync run: %w", err))
	}
	s.states.Invalidate(ctx, year)
	l.Info("sync finished", log.Int("races", run.Races))

	if len(s.publishers) > 0 {
		s.publish(ctx, l, year)
	}
	return run, nil
}

// LastSync returns the most recent sync run of the season
func (s *Service) LastSync(ctx context.Context, year int) (*model.SyncRun, error) {
	return s.store.LastSyncRun(ctx, year)
}

// publish errors are logged only, the sync itself succeeded
func (s *Service) publish(ctx context.Context, l *log.Logger, year int) {
	state, err := s.State(ctx, year)
	if err != nil {
		l.Warn("could not compute state for publishing", log.ErrorField(err))
		return
	}
	for _, p := range s.publishers {
		if err := p.Publish(ctx, state); err != nil {
			l.Warn("could not publish state", log.ErrorField(err))
		}
	}
}

// State returns the computed playoff state of the season
func (s *Service) State(ctx context.Context, year int) (*model.PlayoffState, error) {
	return s.states.Get(ctx, year)
}

func (s *Service) Season(ctx context.Context, year int) (*model.Season, error) {
	return s.store.LoadSeason(ctx, year)
}

func (s *Service) Seasons(ctx context.Context) ([]int, error) {
	return s.store.ListSeasons(ctx)
}

func (s *Service) DeleteSeason(ctx context.Context, year int) error {
	if err := s.store.DeleteSeason(ctx, year); err != nil {
		return err
	}
	s.states.Invalidate(ctx, year)
	return nil
}

// Classification returns the regular season standings of the qualified
// drivers ordered by playoff progression
func (s *Service) Classification(ctx context.Context, year int) (
	[]model.DriverStanding, error,
) {
	state, err := s.State(ctx, year)
	if err != nil {
		return nil, err
	}
	qualified := make([]model.DriverStanding, 0, len(state.QualifiedDrivers))
	for _, st := range state.RegularSeasonStandings {
		if state.IsQualified(st.Driver.DriverID) {
			qualified = append(qualified, st)
		}
	}
	return bracket.SortByProgression(qualified, state), nil
}

// DriverSummary collects the playoff related data of a single driver,
// including the points of every race weekend.
// Returns ErrDriverNotFound if the driver took no part in the season.
//
//nolint:funlen // by design
func (s *Service) DriverSummary(ctx context.Context, year int, driverID string) (
	*model.DriverSummary, error,
) {
	state, err := s.State(ctx, year)
	if err != nil {
		return nil, err
	}
	var regular *model.DriverStanding
	for i := range state.RegularSeasonStandings {
		if state.RegularSeasonStandings[i].Driver.DriverID == driverID {
			regular = &state.RegularSeasonStandings[i]
			break
		}
	}
	if regular == nil {
		return nil, ErrDriverNotFound
	}
	season, err := s.store.LoadSeason(ctx, year)
	if err != nil {
		return nil, err
	}
	ret := &model.DriverSummary{
		Driver:           regular.Driver,
		RegularSeason:    *regular,
		Qualified:        state.IsQualified(driverID),
		EliminationRound: bracket.EliminationRound(driverID, state),
		BracketPoints:    bracket.BracketPoints(driverID, 1, state),
		Rounds:           []model.DriverRoundSummary{},
		GhostFromRace:    bracket.GhostRaceStart(driverID, state),
	}
	ret.Races = s.raceSummaries(driverID, season.Races, state, ret.GhostFromRace)
	for i := range ret.Races {
		switch ret.Races[i].Phase {
		case model.PhaseRegularSeason:
			ret.RegularSeasonPoints += ret.Races[i].Points
		case model.PhaseGhost:
			ret.GhostPoints += ret.Races[i].Points
		case model.PhasePlayoffs:
		}
	}
	if !ret.Qualified {
		return ret, nil
	}
	for i := range state.Rounds {
		r := &state.Rounds[i]
		ret.Rounds = append(ret.Rounds, model.DriverRoundSummary{
			Round:               r.Round,
			Points:              bracket.RoundPoints(r, driverID),
			Eliminated:          bracket.WasEliminatedInRound(r, driverID),
			AdvancedViaTiebreak: bracket.AdvancedViaTiebreak(r, driverID),
		})
	}
	return ret, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *Service) raceSummaries(
	driverID string,
	races []model.Race,
	state *model.PlayoffState,
	ghostFrom null.Val[int],
) []model.DriverRaceSummary {
	scoring := s.engine.Scoring()
	ret := make([]model.DriverRaceSummary, 0, len(races))
	for i := range races {
		race := &races[i]
		b := scoring.WeekendBreakdown(driverID, race)
		item := model.DriverRaceSummary{
			Round:            race.Round,
			RaceName:         race.RaceName,
			Phase:            model.PhaseRegularSeason,
			RacePoints:       b.Race,
			SprintPoints:     b.Sprint,
			PolePoints:       b.Pole,
			FastestLapPoints: b.FastestLap,
			Points:           b.Total(),
		}
		if res, ok := race.Result(driverID); ok {
			item.Position = res.Position
			item.Status = res.Status
		}
		if start, ok := ghostFrom.Get(); ok && race.Round >= start {
			item.Phase = model.PhaseGhost
		} else if race.Round > state.RegularSeasonRaces {
			item.Phase = model.PhasePlayoffs
			item.PlayoffRound = bracket.PlayoffRoundOfRace(race.Round, state)
		}
		ret = append(ret, item)
	}
	return ret
}

func (s *Service) computeState(ctx context.Context, year int) (*model.PlayoffState, error) {
	ctx, span := s.tracer.Start(ctx, "computeState",
		trace.WithAttributes(attribute.Int("year", year)))
	defer span.End()
	season, err := s.store.LoadSeason(ctx, year)
	if err != nil {
		return nil, s.spanError(span, err)
	}
	return s.engine.Calculate(season.Races, season.Calendar), nil
}

func (s *Service) spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
