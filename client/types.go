package client

import (
	"github.com/undeconstructed/skirmish/game"
)

// Event is something a UI gets told about.
type Event interface{ isEvent() }

// StateUpdated is a new state from the server.
type StateUpdated struct {
	Snapshot
}

// MoveRejected is the server saying no to a move.
type MoveRejected struct {
	Reason string
}

// GameOver comes just before the automatic reset.
type GameOver struct {
	Winner game.PlayerID
}

// Diagnostic is a failure that didn't stop anything, like a frame that could
// not be decoded.
type Diagnostic struct {
	Err error
}

// Disconnected is the last event. Err is nil for a clean close.
type Disconnected struct {
	Err error
}

func (StateUpdated) isEvent() {}
func (MoveRejected) isEvent() {}
func (GameOver) isEvent()     {}
func (Diagnostic) isEvent()   {}
func (Disconnected) isEvent() {}

// View is all a UI needs, taken at one moment.
type View struct {
	Version    int               `json:"version"`
	State      *game.GameState   `json:"state"`
	Selection  game.Selection    `json:"selection"`
	Advisory   []game.Direction  `json:"advisory"`
	History    []game.MoveRecord `json:"history"`
	Connection string            `json:"connection"`
}
