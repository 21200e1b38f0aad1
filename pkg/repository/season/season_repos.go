//nolint:whitespace // can't make both editor and linter happy
package season

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/repository"
)

var ErrSeasonNotFound = errors.New("season not found")

// SaveCalendar replaces the stored calendar of the season
func SaveCalendar(
	ctx context.Context,
	conn repository.Querier,
	season int,
	calendar []model.CalendarEntry,
) error {
	if _, err := conn.Exec(ctx,
		"delete from season_calendar where season=$1", season); err != nil {
		return err
	}
	for i := range calendar {
		c := &calendar[i]
		_, err := conn.Exec(ctx, `
	insert into season_calendar (season, round, race_name, date, has_sprint, data)
	values ($1,$2,$3,$4,$5,$6)
		`, season, c.Round, c.RaceName, c.Date, c.HasSprint, c)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveRace stores the race, an existing entry for the same round is replaced
func SaveRace(ctx context.Context, conn repository.Querier, race *model.Race) error {
	_, err := conn.Exec(ctx, `
	insert into season_race (season, round, data) values ($1,$2,$3)
	on conflict (season, round) do update set data=excluded.data, record_stamp=now()
	`, race.Season, race.Round, race)
	return err
}

// DeleteRacesAfter removes stored races of the season with a round greater
// than lastRound, returns number of rows deleted.
func DeleteRacesAfter(
	ctx context.Context,
	conn repository.Querier,
	season, lastRound int,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from season_race where season=$1 and round > $2", season, lastRound)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func LoadCalendar(ctx context.Context, conn repository.Querier, season int) (
	[]model.CalendarEntry, error,
) {
	rows, err := conn.Query(ctx,
		"select data from season_calendar where season=$1 order by round", season)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[model.CalendarEntry])
}

// LoadRaces returns the stored races of the season ordered by round
func LoadRaces(ctx context.Context, conn repository.Querier, season int) (
	[]model.Race, error,
) {
	rows, err := conn.Query(ctx,
		"select data from season_race where season=$1 order by round", season)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[model.Race])
}

// LoadSeason returns calendar and races of the season.
// Returns ErrSeasonNotFound if no calendar is stored.
func LoadSeason(ctx context.Context, conn repository.Querier, season int) (
	*model.Season, error,
) {
	calendar, err := LoadCalendar(ctx, conn, season)
	if err != nil {
		return nil, err
	}
	if len(calendar) == 0 {
		return nil, ErrSeasonNotFound
	}
	races, err := LoadRaces(ctx, conn, season)
	if err != nil {
		return nil, err
	}
	return &model.Season{Year: season, Calendar: calendar, Races: races}, nil
}

// DeleteSeason removes all data of the season, returns number of rows deleted.
func DeleteSeason(ctx context.Context, conn repository.Querier, season int) (int, error) {
	ret := 0
	for _, stmt := range []string{
		"delete from season_race where season=$1",
		"delete from season_calendar where season=$1",
		"delete from sync_run where season=$1",
	} {
		cmdTag, err := conn.Exec(ctx, stmt, season)
		if err != nil {
			return 0, err
		}
		ret += int(cmdTag.RowsAffected())
	}
	return ret, nil
}

// ListSeasons returns the seasons with a stored calendar
func ListSeasons(ctx context.Context, conn repository.Querier) ([]int, error) {
	rows, err := conn.Query(ctx,
		"select distinct season from season_calendar order by season")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

func SaveSyncRun(ctx context.Context, conn repository.Querier, run *model.SyncRun) error {
	_, err := conn.Exec(ctx, `
	insert into sync_run (id, season, races, started_at, finished_at)
	values ($1,$2,$3,$4,$5)
	`, run.ID, run.Season, run.Races, run.StartedAt, run.FinishedAt)
	return err
}

// LastSyncRun returns the latest sync run of the season.
// Returns pgx.ErrNoRows if the season was never synced.
func LastSyncRun(ctx context.Context, conn repository.Querier, season int) (
	*model.SyncRun, error,
) {
	row := conn.QueryRow(ctx, `
	select id, season, races, started_at, finished_at from sync_run
	where season=$1 order by finished_at desc limit 1
	`, season)
	var ret model.SyncRun
	if err := row.Scan(
		&ret.ID, &ret.Season, &ret.Races, &ret.StartedAt, &ret.FinishedAt,
	); err != nil {
		return nil, err
	}
	return &ret, nil
}
