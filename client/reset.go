package client

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/undeconstructed/skirmish/comms"
	"github.com/undeconstructed/skirmish/game"
	"github.com/undeconstructed/skirmish/transport"
)

// DefaultResetDelay is how long to give the server to reset before asking it
// for the new state.
const DefaultResetDelay = 100 * time.Millisecond

// AfterFunc runs f once, d from now, without blocking the caller.
type AfterFunc func(d time.Duration, f func())

// Resetter does the reset handshake: clear up locally, tell the server to
// reset, then after a pause ask for the state. The pause is a guess at how
// long the server needs; nothing confirms it is done.
type Resetter struct {
	out    Sender
	mover  *Mover
	delay  time.Duration
	after  AfterFunc
	report func(error)
	log    zerolog.Logger
}

func NewResetter(out Sender, mover *Mover, delay time.Duration, after AfterFunc, report func(error), log zerolog.Logger) *Resetter {
	if after == nil {
		after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if report == nil {
		report = func(error) {}
	}
	return &Resetter{
		out:    out,
		mover:  mover,
		delay:  delay,
		after:  after,
		report: report,
		log:    log,
	}
}

// Reset refuses to do anything unless the connection is open. Otherwise
// local state is clear by the time it returns, whatever the server does.
func (r *Resetter) Reset(ctx context.Context) error {
	if r.out.State() != transport.Open {
		r.log.Warn().Msg("connection not open, cannot reset")
		return game.ErrTransportUnavailable
	}

	r.mover.Clear()

	msg, err := comms.EncodeReset()
	if err != nil {
		return err
	}
	if err := r.out.Send(ctx, msg); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	r.log.Info().Msg("reset sent")

	r.after(r.delay, func() {
		if err := r.requestState(ctx); err != nil {
			r.log.Warn().Err(err).Msg("state request failed")
			r.report(err)
		}
	})

	return nil
}

func (r *Resetter) requestState(ctx context.Context) error {
	msg, err := comms.EncodeRequestState()
	if err != nil {
		return err
	}
	if err := r.out.Send(ctx, msg); err != nil {
		return fmt.Errorf("request state: %w", err)
	}
	r.log.Debug().Msg("state requested")
	return nil
}
