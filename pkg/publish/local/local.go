// Package local distributes computed playoff states to in-process subscribers.
package local

import (
	"context"
	"errors"
	"sync"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
	"github.com/mpapenbr/gp-playoffs/pkg/utils/broadcast"
)

var ErrClosed = errors.New("publisher closed")

type Publisher struct {
	source    chan *model.PlayoffState
	closed    chan struct{}
	closeOnce sync.Once
	bcst      broadcast.Server[*model.PlayoffState]
}

func New() *Publisher {
	source := make(chan *model.PlayoffState)
	return &Publisher{
		source: source,
		closed: make(chan struct{}),
		bcst: broadcast.NewServer("states", source,
			broadcast.WithLogger[*model.PlayoffState](log.Default().Named("local"))),
	}
}

// Publish hands the state to the subscribers.
// Returns ErrClosed once the publisher is closed.
func (p *Publisher) Publish(ctx context.Context, state *model.PlayoffState) error {
	select {
	case <-p.closed:
		return ErrClosed
	default:
	}
	select {
	case p.source <- state:
		return nil
	case <-p.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Subscribe() <-chan *model.PlayoffState {
	return p.bcst.Subscribe()
}

func (p *Publisher) Unsubscribe(ch <-chan *model.PlayoffState) {
	p.bcst.CancelSubscription(ch)
}

func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		p.bcst.Close()
	})
}
