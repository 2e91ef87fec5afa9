package game

import "strings"

// Direction is a move token as the server understands it.
type Direction string

const (
	Forward       Direction = "F"
	Backward      Direction = "B"
	Left          Direction = "L"
	Right         Direction = "R"
	ForwardLeft   Direction = "FL"
	ForwardRight  Direction = "FR"
	BackwardLeft  Direction = "BL"
	BackwardRight Direction = "BR"
)

// AllDirections in the order a UI should list them.
var AllDirections = []Direction{
	Forward, Backward, Left, Right,
	ForwardLeft, ForwardRight, BackwardLeft, BackwardRight,
}

var directionNames = map[Direction]string{
	Forward:       "Forward",
	Backward:      "Backward",
	Left:          "Left",
	Right:         "Right",
	ForwardLeft:   "Forward-Left",
	ForwardRight:  "Forward-Right",
	BackwardLeft:  "Backward-Left",
	BackwardRight: "Backward-Right",
}

// ParseDirection accepts any of the tokens, case insensitively.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := directionNames[d]; !ok {
		return "", ErrBadDirection
	}
	return d, nil
}

// Long is the human name, e.g. "Forward-Left".
func (d Direction) Long() string {
	return directionNames[d]
}

// Diagonal is true for the two-letter tokens.
func (d Direction) Diagonal() bool {
	return len(d) == 2
}

// DirectionsFor is the set worth offering for a kind of piece. This is only
// a hint; the server has the final say.
func DirectionsFor(t CharacterType) []Direction {
	switch t {
	case Pawn, Hero1:
		return []Direction{Left, Right, Forward, Backward}
	case Hero2:
		return []Direction{ForwardLeft, ForwardRight, BackwardLeft, BackwardRight}
	default:
		return nil
	}
}
