package seasonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/testsupport/seasondata"
)

func TestSaveAndLoad(t *testing.T) {
	ids := seasondata.DriverIDs(3)
	s := &model.Season{
		Year:     2025,
		Calendar: seasondata.Calendar(2025, 24),
		Races: []model.Race{
			seasondata.Race(2025, 1, ids, seasondata.WithSprint(ids), seasondata.WithDNF("d3")),
			seasondata.Race(2025, 2, ids),
		},
	}
	file := filepath.Join(t.TempDir(), "2025.json")
	require.NoError(t, Save(file, s))

	got, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, s.Calendar, got.Calendar)
	require.Len(t, got.Races, 2)
	assert.True(t, got.Races[0].HasSprint())
	assert.False(t, got.Races[1].HasSprint())
	assert.True(t, got.Races[0].Results[2].Position.IsNull())
	assert.True(t, got.Races[1].Results[0].Points.Equal(s.Races[1].Results[0].Points))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(file, []byte("{"), 0o600))
	_, err = Load(file)
	assert.Error(t, err)
}

func TestLoad_NoRaces(t *testing.T) {
	file := filepath.Join(t.TempDir(), "2026.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"year":2026,"calendar":[]}`), 0o600))
	got, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year)
	assert.NotNil(t, got.Races)
	assert.Empty(t, got.Races)
}
