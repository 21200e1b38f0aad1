package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/gp-playoffs/log"
)

func TestParseYears(t *testing.T) {
	got, err := ParseYears(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025, 2026}, got)

	got, err = ParseYears([]string{"2025", "2023"})
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2023}, got)

	_, err = ParseYears([]string{"twenty"})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, log.WarnLevel, ParseLogLevel("warn", log.InfoLevel))
	assert.Equal(t, log.InfoLevel, ParseLogLevel("unknown", log.InfoLevel))
}
