package client

import (
	"context"

	"github.com/undeconstructed/skirmish/game"
)

// GameClient is what a UI gets to drive the game with. Every call is a
// request into the session loop, so calls from different goroutines are
// safe and happen in some order.
type GameClient interface {
	// Current is the latest state, without going through the loop.
	Current() *game.GameState
	// WaitState blocks until there is a state newer than seen.
	WaitState(seen *Snapshot) *Snapshot
	View(ctx context.Context) (View, error)

	Select(ctx context.Context, name string) error
	Deselect(ctx context.Context) error
	SetDirection(ctx context.Context, d game.Direction) error
	Submit(ctx context.Context) (game.MoveRecord, error)
	Reset(ctx context.Context) error
}

type gameProxy struct {
	s *Session
}

// NewGameProxy gives a UI its handle on a session.
func NewGameProxy(s *Session) GameClient {
	return &gameProxy{s: s}
}

func (gp *gameProxy) Current() *game.GameState {
	return gp.s.store.Current()
}

func (gp *gameProxy) WaitState(seen *Snapshot) *Snapshot {
	return gp.s.store.Wait(seen)
}

func (gp *gameProxy) View(ctx context.Context) (View, error) {
	res, err := gp.s.call(ctx, func(context.Context) (interface{}, error) {
		return gp.s.view(), nil
	})
	if err != nil {
		return View{}, err
	}
	return res.(View), nil
}

func (gp *gameProxy) Select(ctx context.Context, name string) error {
	_, err := gp.s.call(ctx, func(context.Context) (interface{}, error) {
		return nil, gp.s.mover.Select(name)
	})
	return err
}

func (gp *gameProxy) Deselect(ctx context.Context) error {
	_, err := gp.s.call(ctx, func(context.Context) (interface{}, error) {
		gp.s.mover.Deselect()
		return nil, nil
	})
	return err
}

func (gp *gameProxy) SetDirection(ctx context.Context, d game.Direction) error {
	_, err := gp.s.call(ctx, func(context.Context) (interface{}, error) {
		return nil, gp.s.mover.SetDirection(d)
	})
	return err
}

func (gp *gameProxy) Submit(ctx context.Context) (game.MoveRecord, error) {
	res, err := gp.s.call(ctx, func(loopCtx context.Context) (interface{}, error) {
		return gp.s.mover.Submit(loopCtx)
	})
	if err != nil {
		return game.MoveRecord{}, err
	}
	return res.(game.MoveRecord), nil
}

func (gp *gameProxy) Reset(ctx context.Context) error {
	_, err := gp.s.call(ctx, func(loopCtx context.Context) (interface{}, error) {
		return nil, gp.s.resetter.Reset(loopCtx)
	})
	return err
}
