// Package natspub distributes computed playoff states via NATS.
// Every state is published on a per season subject and the latest state of a
// season is kept in a JetStream key value bucket.
package natspub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
)

const (
	DefaultSubjectPrefix = "gpp.playoffs"
	DefaultBucket        = "playoff_states"
)

var ErrStateNotFound = errors.New("state not found")

type (
	Option    func(*Publisher)
	Publisher struct {
		nc            *nats.Conn
		kv            jetstream.KeyValue
		subjectPrefix string
		bucket        string
		l             *log.Logger
	}
)

func WithSubjectPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.subjectPrefix = prefix
	}
}

func WithBucket(bucket string) Option {
	return func(p *Publisher) {
		p.bucket = bucket
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Publisher) {
		p.l = l
	}
}

func New(ctx context.Context, nc *nats.Conn, opts ...Option) (*Publisher, error) {
	ret := &Publisher{
		nc:            nc,
		subjectPrefix: DefaultSubjectPrefix,
		bucket:        DefaultBucket,
		l:             log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, err
	}
	ret.kv, err = js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      ret.bucket,
		Description: "latest playoff state per season",
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", ret.bucket, err)
	}
	return ret, nil
}

func (p *Publisher) Subject(year int) string {
	return fmt.Sprintf("%s.%d", p.subjectPrefix, year)
}

func (p *Publisher) Publish(ctx context.Context, state *model.PlayoffState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	subject := p.Subject(state.Season)
	if err := p.nc.Publish(subject, data); err != nil {
		return err
	}
	if _, err := p.kv.Put(ctx, strconv.Itoa(state.Season), data); err != nil {
		return err
	}
	p.l.Debug("state published",
		log.String("subject", subject),
		log.String("stage", string(state.Stage)))
	return nil
}

// Latest returns the state stored for the season.
// Returns ErrStateNotFound if nothing was published for this season.
func (p *Publisher) Latest(ctx context.Context, year int) (*model.PlayoffState, error) {
	entry, err := p.kv.Get(ctx, strconv.Itoa(year))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}
	var ret model.PlayoffState
	if err := json.Unmarshal(entry.Value(), &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}
