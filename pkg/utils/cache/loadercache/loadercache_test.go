package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/utils/cache"
)

type counter struct {
	calls map[int]int
	err   error
}

func (c *counter) load(ctx context.Context, key int) (*string, error) {
	c.calls[key]++
	if c.err != nil {
		return nil, c.err
	}
	ret := time.Duration(key).String()
	return &ret, nil
}

func TestGet(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cnt := &counter{calls: map[int]int{}}
	c := New(
		WithLoader[int, string](cnt.load),
		WithExpiration[int, string](time.Minute),
		WithClock[int, string](func() time.Time { return now }),
		WithLogger[int, string](log.NewNop()),
	)
	ctx := context.Background()

	v, err := c.Get(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2.025µs", *v)
	_, _ = c.Get(ctx, 2025)
	assert.Equal(t, 1, cnt.calls[2025], "second get is served from cache")

	now = now.Add(2 * time.Minute)
	_, _ = c.Get(ctx, 2025)
	assert.Equal(t, 2, cnt.calls[2025], "expired entry is reloaded")

	c.Invalidate(ctx, 2025)
	_, _ = c.Get(ctx, 2025)
	assert.Equal(t, 3, cnt.calls[2025])

	_, _ = c.Get(ctx, 2024)
	c.InvalidateAll(ctx)
	_, _ = c.Get(ctx, 2024)
	_, _ = c.Get(ctx, 2025)
	assert.Equal(t, 2, cnt.calls[2024])
	assert.Equal(t, 4, cnt.calls[2025])
}

func TestGet_LoaderError(t *testing.T) {
	errBoom := errors.New("boom")
	cnt := &counter{calls: map[int]int{}, err: errBoom}
	c := New(WithLoader[int, string](cnt.load), WithLogger[int, string](log.NewNop()))

	_, err := c.Get(context.Background(), 1)
	assert.ErrorIs(t, err, errBoom)
	_, err = c.Get(context.Background(), 1)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 2, cnt.calls[1], "errors are not cached")
}

func TestGet_NoLoader(t *testing.T) {
	c := New[int, string](WithLogger[int, string](log.NewNop()))
	_, err := c.Get(context.Background(), 1)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
