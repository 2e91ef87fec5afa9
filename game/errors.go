package game

import "errors"

type GameError struct {
	Code string
	Msg  string
}

func (e *GameError) ErrorCode() string { return e.Code }
func (e *GameError) Error() string     { return e.Msg }

var (
	// ErrTransportUnavailable means something tried to send while the
	// connection was not open
	ErrTransportUnavailable = &GameError{"TRANSPORTUNAVAILABLE", "connection is not open"}
	// ErrClosed is for using a session that has finished
	ErrClosed = &GameError{"CLOSED", "session closed"}

	// ErrDecodeFailure means an inbound frame made no sense
	ErrDecodeFailure = &GameError{"DECODEFAILURE", "cannot decode message"}

	// ErrNoState means nothing has come from the server yet
	ErrNoState = &GameError{"NOSTATE", "no game state yet"}
	// ErrNotYourPiece is selecting something the current player doesn't own
	ErrNotYourPiece = &GameError{"NOTYOURPIECE", "not a piece of the current player"}
	// ErrNoSelection is moving without having picked a piece
	ErrNoSelection = &GameError{"NOSELECTION", "no character selected"}
	// ErrBadDirection is an unknown direction token
	ErrBadDirection = &GameError{"BADDIRECTION", "unknown direction"}
)

var allErrors = []*GameError{
	ErrTransportUnavailable,
	ErrClosed,
	ErrDecodeFailure,
	ErrNoState,
	ErrNotYourPiece,
	ErrNoSelection,
	ErrBadDirection,
}

// ReError matches error codes to error objects
func ReError(code string) error {
	if code == "" {
		return nil
	}
	for _, e := range allErrors {
		if e.Code == code {
			return e
		}
	}
	return errors.New(code)
}

// Code gets the code out of anything that wraps a GameError.
func Code(err error) string {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}
