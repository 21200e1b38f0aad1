package playoff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	seasonrepos "github.com/mpapenbr/gp-playoffs/pkg/repository/season"
)

type DBStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*DBStore)(nil)

func NewDBStore(pool *pgxpool.Pool) *DBStore {
	return &DBStore{pool: pool}
}

// SaveSeason replaces calendar and races of the season within one transaction.
// Stored races beyond the last given race are removed.
func (s *DBStore) SaveSeason(ctx context.Context, season *model.Season) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := seasonrepos.SaveCalendar(ctx, tx, season.Year, season.Calendar); err != nil {
			return err
		}
		lastRound := 0
		for i := range season.Races {
			if err := seasonrepos.SaveRace(ctx, tx, &season.Races[i]); err != nil {
				return err
			}
			lastRound = max(lastRound, season.Races[i].Round)
		}
		_, err := seasonrepos.DeleteRacesAfter(ctx, tx, season.Year, lastRound)
		return err
	})
}

func (s *DBStore) LoadSeason(ctx context.Context, year int) (*model.Season, error) {
	return seasonrepos.LoadSeason(ctx, s.pool, year)
}

func (s *DBStore) DeleteSeason(ctx context.Context, year int) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := seasonrepos.DeleteSeason(ctx, tx, year)
		return err
	})
}

func (s *DBStore) ListSeasons(ctx context.Context) ([]int, error) {
	return seasonrepos.ListSeasons(ctx, s.pool)
}

func (s *DBStore) SaveSyncRun(ctx context.Context, run *model.SyncRun) error {
	return seasonrepos.SaveSyncRun(ctx, s.pool, run)
}

func (s *DBStore) LastSyncRun(ctx context.Context, year int) (*model.SyncRun, error) {
	ret, err := seasonrepos.LastSyncRun(ctx, s.pool, year)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSyncRun
	}
	return ret, err
}
