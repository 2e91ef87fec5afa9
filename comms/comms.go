// Package comms is the wire format between the client and the game server.
//
// Everything travels as a JSON envelope with an event name. Outbound the
// payload, if any, sits in "data". Inbound the server is less tidy: a state
// update uses "data", but a rejected move puts its reason in "message" and a
// game over puts the winner in "winner".
package comms

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/undeconstructed/skirmish/game"
)

// Event names
const (
	EvPlayerMove       = "playerMove"
	EvResetGame        = "resetGame"
	EvRequestGameState = "requestGameState"

	EvGameStateUpdate = "gameStateUpdate"
	EvInvalidMove     = "invalidMove"
	EvGameOver        = "gameOver"
)

// Envelope is an outbound message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// MoveData is the payload of playerMove.
type MoveData struct {
	Character string         `json:"character"`
	Direction game.Direction `json:"direction"`
}

// Encode makes an envelope, data can be nil.
func Encode(event string, data interface{}) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		bs, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		env.Data = bs
	}
	return json.Marshal(env)
}

func EncodeMove(character string, direction game.Direction) ([]byte, error) {
	return Encode(EvPlayerMove, MoveData{Character: character, Direction: direction})
}

func EncodeReset() ([]byte, error) {
	return Encode(EvResetGame, nil)
}

func EncodeRequestState() ([]byte, error) {
	return Encode(EvRequestGameState, nil)
}

// Event is one decoded inbound message.
type Event interface{ isEvent() }

// StateUpdate carries a whole new game state.
type StateUpdate struct {
	State *game.GameState
}

// InvalidMove is the server refusing the last move.
type InvalidMove struct {
	Reason string
}

// GameOver names who won.
type GameOver struct {
	Winner game.PlayerID
}

func (StateUpdate) isEvent() {}
func (InvalidMove) isEvent() {}
func (GameOver) isEvent()    {}

// DecodeError is an inbound frame that was thrown away.
type DecodeError struct {
	Event string
	Frame string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("cannot decode frame %q: %v", e.Frame, e.Err)
	}
	return fmt.Sprintf("cannot decode %s frame %q: %v", e.Event, e.Frame, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == game.ErrDecodeFailure }

// maxFrameInError keeps log lines sane when the server sends a lot of junk
const maxFrameInError = 200

type inbound struct {
	Event   *string         `json:"event"`
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
	Winner  *string         `json:"winner"`
}

// Decode classifies an inbound frame. Any error is a *DecodeError.
func Decode(frame []byte) (Event, error) {
	fail := func(event string, err error) (Event, error) {
		f := string(frame)
		if len(f) > maxFrameInError {
			n := maxFrameInError
			for n > 0 && !utf8.RuneStart(f[n]) {
				n--
			}
			f = f[:n] + "..."
		}
		return nil, &DecodeError{Event: event, Frame: f, Err: err}
	}

	var in inbound
	if err := json.Unmarshal(frame, &in); err != nil {
		return fail("", err)
	}
	if in.Event == nil || *in.Event == "" {
		return fail("", errors.New("no event"))
	}

	event := *in.Event
	switch event {
	case EvGameStateUpdate:
		if isNull(in.Data) {
			return fail(event, errors.New("no state"))
		}
		state := &game.GameState{}
		if err := json.Unmarshal(in.Data, state); err != nil {
			return fail(event, err)
		}
		return StateUpdate{State: state}, nil
	case EvInvalidMove:
		return InvalidMove{Reason: reasonFrom(in.Message, in.Data)}, nil
	case EvGameOver:
		winner, err := pickString(in.Winner, in.Data)
		if err != nil {
			return fail(event, err)
		}
		return GameOver{Winner: game.PlayerID(winner)}, nil
	default:
		return fail(event, errors.New("unknown event"))
	}
}

// pickString prefers the named top level field, then a string in data.
func pickString(field *string, data json.RawMessage) (string, error) {
	if field != nil {
		return *field, nil
	}
	if isNull(data) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("data is not text: %w", err)
	}
	return s, nil
}

// reasonFrom is like pickString, but a rejection always gets through: data
// that is not text is shown as it came.
func reasonFrom(message *string, data json.RawMessage) string {
	reason, err := pickString(message, data)
	if err != nil {
		return string(data)
	}
	return reason
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}
