package util

import (
	"context"

	"github.com/mpapenbr/gp-playoffs/pkg/config"
	"github.com/mpapenbr/gp-playoffs/pkg/db/postgres"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
	seasonrepos "github.com/mpapenbr/gp-playoffs/pkg/repository/season"
	"github.com/mpapenbr/gp-playoffs/pkg/seasonfile"
)

// LoadSeason reads the season from the snapshot file if given, otherwise from
// the database
func LoadSeason(ctx context.Context, year int, file string) (*model.Season, error) {
	if file != "" {
		return seasonfile.Load(file)
	}
	WaitForDB()
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()
	return seasonrepos.LoadSeason(ctx, pool, year)
}
