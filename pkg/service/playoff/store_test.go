package playoff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	base "github.com/mpapenbr/gp-playoffs/testsupport/basedata"
	"github.com/mpapenbr/gp-playoffs/testsupport/testdb"
)

func TestDBStore_SaveSeasonReplacesRaces(t *testing.T) {
	pool := testdb.InitTestDb()
	store := NewDBStore(pool)
	ctx := context.Background()

	require.NoError(t, store.SaveSeason(ctx, base.SampleSeason(2025, 6)))
	// upstream dropped the last two rounds
	require.NoError(t, store.SaveSeason(ctx, base.SampleSeason(2025, 4)))

	got, err := store.LoadSeason(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, got.Races, 4)
	assert.Equal(t, 4, got.Races[3].Round)
	assert.Len(t, got.Calendar, 24)

	require.NoError(t, store.SaveSeason(ctx, base.SampleSeason(2025, 0)))
	got, err = store.LoadSeason(ctx, 2025)
	require.NoError(t, err)
	assert.Empty(t, got.Races)
}

func TestDBStore_LastSyncRun(t *testing.T) {
	pool := testdb.InitTestDb()
	store := NewDBStore(pool)
	ctx := context.Background()

	_, err := store.LastSyncRun(ctx, 2025)
	require.ErrorIs(t, err, ErrNoSyncRun)

	svc := newTestService(store,
		WithFetcher(&fakeFetcher{season: base.SampleSeason(2025, 3)}))
	run, err := svc.Sync(ctx, 2025)
	require.NoError(t, err)

	got, err := store.LastSyncRun(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 3, got.Races)
}
