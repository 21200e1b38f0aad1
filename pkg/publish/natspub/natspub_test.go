package natspub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/testsupport/tcnats"
)

func setupNats(t *testing.T) *nats.Conn {
	t.Helper()
	c, err := tcnats.SetupNats(context.Background())
	require.NoError(t, err)
	nc, err := nats.Connect(c.URL)
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func TestPublish(t *testing.T) {
	nc := setupNats(t)
	ctx := context.Background()
	p, err := New(ctx, nc,
		WithBucket("playoff_states_test"),
		WithLogger(log.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, "gpp.playoffs.2025", p.Subject(2025))

	received := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("gpp.playoffs.*", received)
	require.NoError(t, err)
	defer func() { _ = sub.Unsubscribe() }()

	state := &model.PlayoffState{
		Season:           2025,
		TotalRaces:       24,
		QualifiedDrivers: []string{"d1", "d2"},
		Status:           model.StatusPlayoffs,
		Stage:            model.StageFinal,
	}
	require.NoError(t, p.Publish(ctx, state))

	select {
	case msg := <-received:
		assert.Equal(t, "gpp.playoffs.2025", msg.Subject)
		var got model.PlayoffState
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, model.StageFinal, got.Stage)
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}

	latest, err := p.Latest(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, latest.QualifiedDrivers)

	_, err = p.Latest(ctx, 1999)
	assert.ErrorIs(t, err, ErrStateNotFound)
}
