package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
	seasonrepos "github.com/mpapenbr/gp-playoffs/pkg/repository/season"
)

var errStreamDisabled = errors.New("state stream not available")

// StateSubscriber provides the states published after each sync
type StateSubscriber interface {
	Subscribe() <-chan *model.PlayoffState
	Unsubscribe(ch <-chan *model.PlayoffState)
}

// StateSource provides states computed elsewhere, e.g. by other instances
type StateSource interface {
	Latest(ctx context.Context, year int) (*model.PlayoffState, error)
}

func WithStream(sub StateSubscriber) Option {
	return func(s *Server) {
		s.stream = sub
	}
}

// WithStateFallback serves the latest state of src for seasons unknown to
// the local store
func WithStateFallback(src StateSource) Option {
	return func(s *Server) {
		s.fallback = src
	}
}

func (s *Server) currentState(ctx context.Context, year int) (*model.PlayoffState, error) {
	state, err := s.svc.State(ctx, year)
	if err == nil || s.fallback == nil || !errors.Is(err, seasonrepos.ErrSeasonNotFound) {
		return state, err
	}
	ret, fbErr := s.fallback.Latest(ctx, year)
	if fbErr != nil {
		s.l.Debug("no fallback state",
			log.Int("season", year),
			log.ErrorField(fbErr))
		return nil, err
	}
	return ret, nil
}

// handleStream sends the current state followed by every new state of the
// season as server-sent events
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.stream == nil {
		s.writeError(w, r, http.StatusNotImplemented, errStreamDisabled)
		return
	}
	year, ok := s.year(w, r)
	if !ok {
		return
	}
	current, err := s.currentState(r.Context(), year)
	if err != nil && !errors.Is(err, seasonrepos.ErrSeasonNotFound) {
		s.handleError(w, r, err)
		return
	}

	ch := s.stream.Subscribe()
	defer s.stream.Unsubscribe(ch)

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.l.Warn("streaming not supported", log.ErrorField(err))
		return
	}

	l := s.l.With(log.Int("season", year))
	l.Debug("stream opened")
	defer l.Debug("stream closed")
	if current != nil {
		if err := s.sendEvent(w, rc, current); err != nil {
			return
		}
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-ch:
			if !ok {
				return
			}
			if state.Season != year {
				continue
			}
			if err := s.sendEvent(w, rc, state); err != nil {
				l.Debug("could not send state", log.ErrorField(err))
				return
			}
		}
	}
}

func (s *Server) sendEvent(w http.ResponseWriter, rc *http.ResponseController, state *model.PlayoffState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
