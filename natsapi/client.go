package natsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/api"
	"github.com/domino14/tilegrid/transcript"
)

// Client implements api.Backend over NATS. A request that found no
// responder was never delivered and is always retried with backoff. A
// request that timed out is retried only when resending it is harmless.
type Client struct {
	nc       *nats.Conn
	prefix   string
	timeout  time.Duration
	attempts uint
}

func NewClient(nc *nats.Conn, prefix string, timeout time.Duration, attempts uint) *Client {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	if attempts == 0 {
		attempts = 3
	}
	return &Client{nc: nc, prefix: prefix, timeout: timeout, attempts: attempts}
}

// resendable reports whether op may be sent again after a timeout. Reads
// are idempotent and a resubmitted move is rejected by its sequence
// number, but a create or join may already have happened.
func resendable(op string) bool {
	switch op {
	case OpCreateGame, OpJoinGame:
		return false
	}
	return true
}

func retryIf(op string) func(error) bool {
	return func(err error) bool {
		if errors.Is(err, nats.ErrNoResponders) {
			return true
		}
		return errors.Is(err, nats.ErrTimeout) && resendable(op)
	}
}

func (c *Client) request(ctx context.Context, op string, req Request, out any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	subj := subject(c.prefix, op)
	var reply *nats.Msg
	err = retry.Do(
		func() error {
			rctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			msg, rerr := c.nc.RequestWithContext(rctx, subj, data)
			if errors.Is(rerr, context.DeadlineExceeded) && ctx.Err() == nil {
				return nats.ErrTimeout
			}
			reply = msg
			return rerr
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.RetryIf(retryIf(op)),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Debug().Err(err).Uint("n", n).Str("subject", subj).Msg("no-reply-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return fmt.Errorf("request %v: %w", subj, err)
	}
	return decodeReply(reply.Data, out)
}

// decodeReply unmarshals a reply into out, or returns the error it
// carries.
func decodeReply(data []byte, out any) error {
	var probe api.ErrorResponse
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("bad reply: %w", err)
	}
	if probe.Error != "" {
		return probe.Err()
	}
	return json.Unmarshal(data, out)
}

func (c *Client) CreateGame(ctx context.Context, req api.CreateGameRequest) (*api.CreateGameResponse, error) {
	resp := &api.CreateGameResponse{}
	err := c.request(ctx, OpCreateGame, Request{Size: req.Size, MaxPlayers: req.MaxPlayers}, resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetGame(ctx context.Context, gameID, playerID string) (*api.GameResponse, error) {
	resp := &api.GameResponse{}
	if err := c.request(ctx, OpGetGame, Request{Game: gameID, Player: playerID}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) JoinGame(ctx context.Context, gameID string) (*api.JoinResponse, error) {
	resp := &api.JoinResponse{}
	if err := c.request(ctx, OpJoinGame, Request{Game: gameID}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SubmitMove(ctx context.Context, gameID, playerID string, seq int, req api.SubmitMoveRequest) (*api.SubmitMoveResponse, error) {
	resp := &api.SubmitMoveResponse{}
	err := c.request(ctx, OpSubmitMove, Request{Game: gameID, Player: playerID, Seq: seq,
		Placements: req.Placements}, resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetMove(ctx context.Context, gameID string, seq int) (*api.MoveResponse, error) {
	resp := &api.MoveResponse{}
	if err := c.request(ctx, OpGetMove, Request{Game: gameID, Seq: seq}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Transcript(ctx context.Context, gameID string) (*transcript.Transcript, error) {
	resp := &transcript.Transcript{}
	if err := c.request(ctx, OpTranscript, Request{Game: gameID}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Connect dials the NATS server, retrying while it is unreachable.
func Connect(ctx context.Context, url, name string, attempts uint) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url, nats.Name(name), nats.MaxReconnects(-1))
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Warn().Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return nc, nil
}
