package calc

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/processing/playoff"
	"github.com/mpapenbr/gp-playoffs/testsupport/basedata"
)

func sampleState(t *testing.T) *model.PlayoffState {
	t.Helper()
	season := basedata.SampleSeason(2025, 24)
	engine := playoff.NewEngine(playoff.WithClock(func() time.Time { return basedata.TestTime() }))
	return engine.Calculate(season.Races, season.Calendar)
}

func TestRender_Table(t *testing.T) {
	state := sampleState(t)
	buf := bytes.Buffer{}
	require.NoError(t, render(&buf, state, "table"))
	out := buf.String()
	assert.Contains(t, out, "Season 2025: completed")
	assert.Contains(t, out, "Round 4 (races 24)")
	assert.Contains(t, out, "eliminated")
	assert.Contains(t, out, "Champion: ")
}

func TestRender_JSON(t *testing.T) {
	state := sampleState(t)
	buf := bytes.Buffer{}
	require.NoError(t, render(&buf, state, "json"))
	var got model.PlayoffState
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, state.Season, got.Season)
	assert.Len(t, got.Rounds, 4)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := render(&bytes.Buffer{}, &model.PlayoffState{}, "yaml")
	assert.ErrorIs(t, err, errUnknownFormat)
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "18,19", joinInts([]int{18, 19}))
	assert.Empty(t, joinInts(nil))
}
