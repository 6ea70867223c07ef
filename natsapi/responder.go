package natsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/api"
)

// Responder answers requests on <prefix>.<op> subjects.
type Responder struct {
	backend api.Backend
	prefix  string
	timeout time.Duration
	subs    []*nats.Subscription
}

func NewResponder(backend api.Backend, prefix string, timeout time.Duration) *Responder {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Responder{backend: backend, prefix: prefix, timeout: timeout}
}

// Start subscribes to every operation's subject in the shared queue group.
func (r *Responder) Start(nc *nats.Conn) error {
	for _, op := range ops {
		subj := subject(r.prefix, op)
		sub, err := nc.QueueSubscribe(subj, QueueGroup, func(m *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			defer cancel()
			reply := r.Handle(ctx, m.Subject, m.Data)
			if err := m.Respond(reply); err != nil {
				log.Err(err).Str("subject", m.Subject).Msg("respond-failed")
			}
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %v: %w", subj, err)
		}
		r.subs = append(r.subs, sub)
		log.Info().Str("subject", subj).Msg("subscribed")
	}
	return nc.Flush()
}

// Stop drains the subscriptions, letting in-flight requests finish.
func (r *Responder) Stop() error {
	var firstErr error
	for _, sub := range r.subs {
		if err := sub.Drain(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.subs = nil
	return firstErr
}

// Handle answers one request. The reply is the operation's JSON payload,
// or an api.ErrorResponse.
func (r *Responder) Handle(ctx context.Context, subj string, data []byte) []byte {
	op := strings.TrimPrefix(subj, r.prefix+".")
	resp, err := r.dispatch(ctx, op, data)
	if err != nil {
		code, _ := api.ErrorCode(err)
		if code == "internal" {
			log.Error().Err(err).Str("subject", subj).Msg("request-failed")
		} else {
			log.Debug().Err(err).Str("subject", subj).Msg("request-rejected")
		}
		resp = api.NewErrorResponse(err)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		log.Err(err).Str("subject", subj).Msg("marshal-failed")
		out, _ = json.Marshal(api.NewErrorResponse(err))
	}
	return out
}

func (r *Responder) dispatch(ctx context.Context, op string, data []byte) (any, error) {
	var req Request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", api.ErrBadRequest, err)
		}
	}
	if op != OpCreateGame && req.Game == "" {
		return nil, fmt.Errorf("%w: missing game", api.ErrBadRequest)
	}
	switch op {
	case OpCreateGame:
		return r.backend.CreateGame(ctx, api.CreateGameRequest{Size: req.Size, MaxPlayers: req.MaxPlayers})
	case OpGetGame:
		return r.backend.GetGame(ctx, req.Game, req.Player)
	case OpJoinGame:
		return r.backend.JoinGame(ctx, req.Game)
	case OpTranscript:
		return r.backend.Transcript(ctx, req.Game)
	case OpSubmitMove:
		if req.Player == "" {
			return nil, fmt.Errorf("%w: missing player", api.ErrBadRequest)
		}
		return r.backend.SubmitMove(ctx, req.Game, req.Player, req.Seq,
			api.SubmitMoveRequest{Placements: req.Placements})
	case OpGetMove:
		return r.backend.GetMove(ctx, req.Game, req.Seq)
	}
	return nil, fmt.Errorf("%w: unknown operation %q", api.ErrBadRequest, op)
}
