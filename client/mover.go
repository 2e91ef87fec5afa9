package client

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/undeconstructed/skirmish/comms"
	"github.com/undeconstructed/skirmish/game"
	"github.com/undeconstructed/skirmish/transport"
)

// Sender is the outbound half of a connection.
type Sender interface {
	State() transport.State
	Send(ctx context.Context, data []byte) error
}

// Mover turns the local player's picks into move messages, and remembers every
// move it sent. History is a record of attempts: the server may refuse a move
// and it stays in the list.
type Mover struct {
	store   *Store
	out     Sender
	sel     game.Selection
	history []game.MoveRecord
	log     zerolog.Logger
}

func NewMover(store *Store, out Sender, log zerolog.Logger) *Mover {
	return &Mover{
		store: store,
		out:   out,
		sel:   game.Idle(),
		log:   log,
	}
}

// Select picks a piece, which must belong to whoever's turn it is. Anything
// else leaves the selection alone.
func (m *Mover) Select(name string) error {
	state := m.store.Current()
	if state == nil {
		return game.ErrNoState
	}
	ct, ok := state.Owns(state.CurrentPlayer, name)
	if !ok {
		m.log.Debug().Str("character", name).Msg("not selectable")
		return game.ErrNotYourPiece
	}
	m.sel.Character = name
	m.sel.Type = ct
	return nil
}

// Deselect drops the piece but keeps the direction.
func (m *Mover) Deselect() {
	m.sel.Character = ""
	m.sel.Type = ""
}

func (m *Mover) SetDirection(d game.Direction) error {
	if d.Long() == "" {
		return game.ErrBadDirection
	}
	m.sel.Direction = d
	return nil
}

func (m *Mover) Selection() game.Selection {
	return m.sel
}

// Advisory is the directions worth offering for the selected piece. It is
// empty when nothing is selected or the piece's kind is unknown.
func (m *Mover) Advisory() []game.Direction {
	return game.DirectionsFor(m.sel.Type)
}

// Submit sends the current selection as a move. Nothing is sent or recorded
// without a piece selected or an open connection. The selection is kept for
// the next move.
func (m *Mover) Submit(ctx context.Context) (game.MoveRecord, error) {
	if !m.sel.Armed() {
		return game.MoveRecord{}, game.ErrNoSelection
	}
	if m.out.State() != transport.Open {
		return game.MoveRecord{}, game.ErrTransportUnavailable
	}

	msg, err := comms.EncodeMove(m.sel.Character, m.sel.Direction)
	if err != nil {
		return game.MoveRecord{}, err
	}
	if err := m.out.Send(ctx, msg); err != nil {
		return game.MoveRecord{}, err
	}

	// whether anything was captured is never known here
	rec := game.MoveRecord{
		Character: m.sel.Character,
		Direction: m.sel.Direction,
	}
	m.history = append(m.history, rec)

	m.log.Info().Str("character", rec.Character).Str("direction", string(rec.Direction)).Int("n", len(m.history)).Msg("move sent")

	return rec, nil
}

// History is a copy of every move sent since the last clear.
func (m *Mover) History() []game.MoveRecord {
	out := make([]game.MoveRecord, len(m.history))
	copy(out, m.history)
	return out
}

// Clear forgets the history and goes back to idle.
func (m *Mover) Clear() {
	m.history = nil
	m.sel = game.Idle()
}
