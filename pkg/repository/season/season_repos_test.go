//nolint:funlen,errcheck // ok for this test code
package season_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/repository/season"
	base "github.com/mpapenbr/gp-playoffs/testsupport/basedata"
	"github.com/mpapenbr/gp-playoffs/testsupport/seasondata"
	"github.com/mpapenbr/gp-playoffs/testsupport/testdb"
)

func TestSaveAndLoadCalendar(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	calendar := seasondata.Calendar(2025, 24)
	calendar[5].HasSprint = true

	assert.NilError(t, season.SaveCalendar(ctx, pool, 2025, calendar))
	got, err := season.LoadCalendar(ctx, pool, 2025)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, calendar)

	// saving again replaces the previous calendar
	assert.NilError(t, season.SaveCalendar(ctx, pool, 2025, calendar[:20]))
	got, err = season.LoadCalendar(ctx, pool, 2025)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 20)
}

func TestSaveRace(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	ids := seasondata.DriverIDs(4)
	race := seasondata.Race(2025, 6, ids,
		seasondata.WithSprint(ids),
		seasondata.WithQualifying(ids),
		seasondata.WithFastestLap("d2"),
		seasondata.WithDNF("d4"),
		seasondata.WithDriverInfos(seasondata.DriverInfos(1, ids)))

	assert.NilError(t, season.SaveRace(ctx, pool, &race))
	got, err := season.LoadRaces(ctx, pool, 2025)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 1)

	r := got[0]
	assert.Equal(t, r.Round, 6)
	assert.Assert(t, r.HasSprint())
	assert.Equal(t, len(r.Qualifying), 4)
	assert.Equal(t, len(r.Results), 4)
	assert.Equal(t, r.Results[0].Position.GetOr(0), 1)
	assert.Assert(t, r.Results[0].Points.Equal(decimal.NewFromInt(25)))
	assert.Assert(t, r.Results[1].FastestLap)
	assert.Assert(t, r.Results[3].Position.IsNull())
	assert.Equal(t, r.Results[3].Status, "Retired")
	assert.Equal(t, r.Results[2].Driver.MustGet(), race.Results[2].Driver.MustGet())

	// upsert on the same round
	race.Results[0].Status = "Disqualified"
	assert.NilError(t, season.SaveRace(ctx, pool, &race))
	got, err = season.LoadRaces(ctx, pool, 2025)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Results[0].Status, "Disqualified")
}

func TestSaveRace_NoSprint(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	race := seasondata.Race(2025, 1, seasondata.DriverIDs(3))
	assert.NilError(t, season.SaveRace(ctx, pool, &race))
	got, err := season.LoadRaces(ctx, pool, 2025)
	assert.NilError(t, err)
	assert.Assert(t, !got[0].HasSprint())
}

func TestDeleteRacesAfter(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	base.CreateSampleSeason(pool, 2024, 3)
	base.CreateSampleSeason(pool, 2025, 5)

	num, err := season.DeleteRacesAfter(ctx, pool, 2025, 2)
	assert.NilError(t, err)
	assert.Equal(t, num, 3)

	got, err := season.LoadRaces(ctx, pool, 2025)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)
	other, err := season.LoadRaces(ctx, pool, 2024)
	assert.NilError(t, err)
	assert.Equal(t, len(other), 3)
}

func TestLoadSeason(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	sample := base.CreateSampleSeason(pool, 2025, 5)

	got, err := season.LoadSeason(ctx, pool, 2025)
	assert.NilError(t, err)
	assert.Equal(t, got.Year, 2025)
	assert.DeepEqual(t, got.Calendar, sample.Calendar)
	assert.Equal(t, len(got.Races), 5)
	for i := range got.Races {
		assert.Equal(t, got.Races[i].Round, i+1)
	}

	_, err = season.LoadSeason(ctx, pool, 2024)
	assert.Assert(t, errors.Is(err, season.ErrSeasonNotFound))
}

func TestListAndDeleteSeason(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()
	base.CreateSampleSeason(pool, 2024, 2)
	base.CreateSampleSeason(pool, 2025, 1)

	seasons, err := season.ListSeasons(ctx, pool)
	assert.NilError(t, err)
	assert.DeepEqual(t, seasons, []int{2024, 2025})

	num, err := season.DeleteSeason(ctx, pool, 2024)
	assert.NilError(t, err)
	assert.Equal(t, num, 24+2)

	seasons, err = season.ListSeasons(ctx, pool)
	assert.NilError(t, err)
	assert.DeepEqual(t, seasons, []int{2025})

	num, err = season.DeleteSeason(ctx, pool, 2024)
	assert.NilError(t, err)
	assert.Equal(t, num, 0)
}

func TestSyncRun(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	_, err := season.LastSyncRun(ctx, pool, 2025)
	assert.Assert(t, errors.Is(err, pgx.ErrNoRows))

	start := base.TestTime()
	first := &model.SyncRun{
		ID: uuid.New(), Season: 2025, Races: 3,
		StartedAt: start, FinishedAt: start.Add(time.Second),
	}
	second := &model.SyncRun{
		ID: uuid.New(), Season: 2025, Races: 4,
		StartedAt: start.Add(time.Hour), FinishedAt: start.Add(time.Hour + time.Second),
	}
	assert.NilError(t, season.SaveSyncRun(ctx, pool, first))
	assert.NilError(t, season.SaveSyncRun(ctx, pool, second))

	got, err := season.LastSyncRun(ctx, pool, 2025)
	assert.NilError(t, err)
	assert.Equal(t, got.ID, second.ID)
	assert.Equal(t, got.Races, 4)
	assert.Assert(t, got.FinishedAt.Equal(second.FinishedAt))
}
