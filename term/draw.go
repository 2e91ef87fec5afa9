package term

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/undeconstructed/skirmish/game"
)

const (
	RED    = "[31m"
	BLUE   = "[34m"
	YELLOW = "[33m"
	RESET  = "[0m"
)

// col gives the two sides different colours, anyone else gets none.
func col(p game.PlayerID) string {
	switch p {
	case "A":
		return RED
	case "B":
		return BLUE
	default:
		return RESET
	}
}

func paint(colour, s string) string {
	return "\033" + colour + s + "\033" + RESET
}

const cellWidth = 6

func printBoard(w io.Writer, state *game.GameState, selected string) {
	if state == nil {
		fmt.Fprintf(w, "Loading...\n")
		return
	}

	fmt.Fprintf(w, "Current player: %s\n", paint(col(state.CurrentPlayer), string(state.CurrentPlayer)))

	line := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", game.BoardSize)
	fmt.Fprintln(w, line)
	for r := range state.Board {
		fmt.Fprint(w, "|")
		for _, cell := range state.Board[r] {
			if cell == nil {
				fmt.Fprint(w, strings.Repeat(" ", cellWidth)+"|")
				continue
			}
			name := cell.Name
			if rs := []rune(name); len(rs) > cellWidth-1 {
				name = string(rs[:cellWidth-1])
			}
			mark := " "
			if cell.Name == selected {
				mark = "*"
			}
			text := fmt.Sprintf("%s%-*s", mark, cellWidth-1, name)
			fmt.Fprint(w, paint(col(cell.Player), text)+"|")
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, line)
	}
}

func printPlayers(w io.Writer, state *game.GameState) {
	if state == nil {
		fmt.Fprintf(w, "Loading...\n")
		return
	}

	var ids []string
	for id := range state.Players {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := game.PlayerID(id)
		turn := ""
		if p == state.CurrentPlayer {
			turn = " (to move)"
		}
		var names []string
		for _, ch := range state.Roster(p) {
			names = append(names, ch.Name)
		}
		fmt.Fprintf(w, "%s%s: %s\n", paint(col(p), id), turn, strings.Join(names, " "))
	}
}

func printHistory(w io.Writer, history []game.MoveRecord) {
	fmt.Fprintf(w, "Move history:\n")
	if len(history) == 0 {
		fmt.Fprintf(w, "\t(none)\n")
	}
	for i, m := range history {
		fmt.Fprintf(w, "\t%d. %s: %s", i+1, m.Character, m.Direction)
		if m.Captured {
			fmt.Fprintf(w, " (Captured %s)", m.CapturedCharacter)
		}
		fmt.Fprintln(w)
	}
}

func printSelection(w io.Writer, sel game.Selection, advisory []game.Direction) {
	if !sel.Armed() {
		fmt.Fprintf(w, "Nothing selected, direction %s\n", sel.Direction.Long())
		return
	}
	fmt.Fprintf(w, "Selected: %s, direction %s\n", sel.Character, sel.Direction.Long())
	if len(advisory) > 0 {
		var ds []string
		for _, d := range advisory {
			ds = append(ds, string(d))
		}
		fmt.Fprintf(w, "Moves:    %s\n", strings.Join(ds, " "))
	}
}
