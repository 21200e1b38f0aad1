package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel).Named("playoff")
	l.Debug("hidden")
	l.Info("round decided", Int("round", 2), String("driver", "norris"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "round decided", entry["msg"])
	assert.Equal(t, "playoff", entry["logger"])
	assert.InDelta(t, 2, entry["round"], 0)
	assert.Equal(t, "norris", entry["driver"])
}

func TestWithFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	opt, err := WithFilter("debug:playoff")
	require.NoError(t, err)
	l := New(buf, DebugLevel, opt)
	l.Named("api").Debug("dropped")
	l.Named("playoff").Debug("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestContext(t *testing.T) {
	assert.Same(t, Default(), GetFromContext(context.Background()))
	l := NewNop()
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
}
