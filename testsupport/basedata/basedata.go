package basedata

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	seasonrepos "github.com/mpapenbr/gp-playoffs/pkg/repository/season"
	"github.com/mpapenbr/gp-playoffs/testsupport/seasondata"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2025-04-28T11:10:12Z")
	return t
}

// SampleSeason returns a 24 race season with 12 drivers where the first
// `completed` races finished in roster order
func SampleSeason(year, completed int) *model.Season {
	ids := seasondata.DriverIDs(12)
	infos := seasondata.DriverInfos(uint64(year), ids)
	races := make([]model.Race, 0, completed)
	for round := 1; round <= completed; round++ {
		races = append(races, seasondata.Race(year, round, ids,
			seasondata.WithDriverInfos(infos)))
	}
	return &model.Season{
		Year:     year,
		Calendar: seasondata.Calendar(year, 24),
		Races:    races,
	}
}

// CreateSampleSeason stores SampleSeason in the database
func CreateSampleSeason(pool *pgxpool.Pool, year, completed int) *model.Season {
	ctx := context.Background()
	s := SampleSeason(year, completed)
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if err := seasonrepos.SaveCalendar(ctx, tx, year, s.Calendar); err != nil {
			return err
		}
		for i := range s.Races {
			if err := seasonrepos.SaveRace(ctx, tx, &s.Races[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("CreateSampleSeason: %v\n", err)
	}
	return s
}
