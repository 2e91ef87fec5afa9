package term

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/undeconstructed/skirmish/client"
	"github.com/undeconstructed/skirmish/game"
)

type fakeGame struct {
	state    *game.GameState
	sel      game.Selection
	history  []game.MoveRecord
	resetErr error
	calls    []string
}

func (f *fakeGame) Current() *game.GameState { return f.state }
func (f *fakeGame) WaitState(seen *client.Snapshot) *client.Snapshot { return seen }

func (f *fakeGame) View(ctx context.Context) (client.View, error) {
	return client.View{State: f.state, Selection: f.sel, History: f.history, Advisory: game.DirectionsFor(f.sel.Type)}, nil
}

func (f *fakeGame) Select(ctx context.Context, name string) error {
	f.calls = append(f.calls, "select "+name)
	if _, ok := f.state.Owns(f.state.CurrentPlayer, name); !ok {
		return game.ErrNotYourPiece
	}
	f.sel.Character = name
	return nil
}

func (f *fakeGame) Deselect(ctx context.Context) error {
	f.calls = append(f.calls, "deselect")
	f.sel.Character = ""
	return nil
}

func (f *fakeGame) SetDirection(ctx context.Context, d game.Direction) error {
	f.calls = append(f.calls, "dir "+string(d))
	f.sel.Direction = d
	return nil
}

func (f *fakeGame) Submit(ctx context.Context) (game.MoveRecord, error) {
	f.calls = append(f.calls, "submit")
	if !f.sel.Armed() {
		return game.MoveRecord{}, game.ErrNoSelection
	}
	rec := game.MoveRecord{Character: f.sel.Character, Direction: f.sel.Direction}
	f.history = append(f.history, rec)
	return rec, nil
}

func (f *fakeGame) Reset(ctx context.Context) error {
	f.calls = append(f.calls, "reset")
	return f.resetErr
}

func newFakeGame() *fakeGame {
	s := &game.GameState{
		CurrentPlayer: "A",
		Players: map[game.PlayerID]game.PlayerInfo{
			"A": {Characters: []game.CharacterRef{{Name: "P1"}, {Name: "H1"}}},
			"B": {Characters: []game.CharacterRef{{Name: "Q1"}}},
		},
	}
	s.Board[0][0] = &game.Cell{Name: "P1", Player: "A", Type: game.Pawn}
	s.Board[0][1] = &game.Cell{Name: "H1", Player: "A", Type: game.Hero1}
	s.Board[4][4] = &game.Cell{Name: "Q1", Player: "B", Type: game.Hero2}
	return &fakeGame{state: s, sel: game.Idle()}
}

func TestRepl_selectAndMove(t *testing.T) {
	g := newFakeGame()
	var out bytes.Buffer
	r := &repl{g: g, w: &out}
	ctx := context.Background()

	if r.exec(ctx, "select P1") {
		t.Errorf("quit early")
	}
	r.exec(ctx, "move fl")

	if s := strings.Join(g.calls, ","); s != "select P1,dir FL,submit" {
		t.Errorf("wrong calls: %s", s)
	}
	if !strings.Contains(out.String(), "Sent: P1 FL") {
		t.Errorf("no confirmation: %q", out.String())
	}
}

func TestRepl_errors(t *testing.T) {
	g := newFakeGame()
	var out bytes.Buffer
	r := &repl{g: g, w: &out}
	ctx := context.Background()

	r.exec(ctx, "select Q1")
	if !strings.Contains(out.String(), "Error: not a piece of the current player") {
		t.Errorf("no error shown: %q", out.String())
	}

	out.Reset()
	r.exec(ctx, "dir up")
	if !strings.Contains(out.String(), "dir <") {
		t.Errorf("no usage shown: %q", out.String())
	}

	out.Reset()
	r.exec(ctx, "move")
	if !strings.Contains(out.String(), "no character selected") {
		t.Errorf("no error shown: %q", out.String())
	}

	out.Reset()
	g.resetErr = game.ErrTransportUnavailable
	r.exec(ctx, "reset")
	if !strings.Contains(out.String(), "Not connected") {
		t.Errorf("no error shown: %q", out.String())
	}

	out.Reset()
	r.exec(ctx, "dance")
	if out.String() != "unknown\n" {
		t.Errorf("wrong output: %q", out.String())
	}
}

func TestRepl_quit(t *testing.T) {
	r := &repl{g: newFakeGame(), w: &bytes.Buffer{}}
	if !r.exec(context.Background(), "quit") {
		t.Errorf("didn't quit")
	}
}

func TestRepl_closed(t *testing.T) {
	g := newFakeGame()
	g.resetErr = game.ErrClosed
	r := &repl{g: g, w: &bytes.Buffer{}}
	if !r.exec(context.Background(), "reset") {
		t.Errorf("kept going on a closed session")
	}
}

func TestPrintBoard(t *testing.T) {
	g := newFakeGame()
	var out bytes.Buffer
	printBoard(&out, g.state, "H1")
	s := out.String()

	if !strings.Contains(s, "*H1") {
		t.Errorf("selection not marked:\n%s", s)
	}
	if !strings.Contains(s, " P1") {
		t.Errorf("piece missing:\n%s", s)
	}
	// header, then a border and a row per board row, then the last border
	if n := strings.Count(s, "\n"); n != 1+1+2*game.BoardSize {
		t.Errorf("wrong number of lines: %d\n%s", n, s)
	}

	out.Reset()
	printBoard(&out, nil, "")
	if out.String() != "Loading...\n" {
		t.Errorf("wrong output for no state: %q", out.String())
	}
}

func TestPrintBoard_longNames(t *testing.T) {
	s := &game.GameState{CurrentPlayer: "A"}
	s.Board[0][0] = &game.Cell{Name: "Ødegård", Player: "A", Type: game.Pawn}
	s.Board[0][1] = &game.Cell{Name: "Knightly", Player: "B", Type: game.Hero1}

	var out bytes.Buffer
	printBoard(&out, s, "")
	got := out.String()

	if !utf8.ValidString(got) {
		t.Errorf("name cut mid rune:\n%q", got)
	}
	if !strings.Contains(got, " Ødegå") {
		t.Errorf("long name not cut to the cell:\n%s", got)
	}
	if !strings.Contains(got, " Knigh") || strings.Contains(got, "Knightly") {
		t.Errorf("long name not cut to the cell:\n%s", got)
	}
}

func TestPrintHistory(t *testing.T) {
	var out bytes.Buffer
	printHistory(&out, []game.MoveRecord{
		{Character: "P1", Direction: game.Forward},
		{Character: "H1", Direction: game.Left, Captured: true, CapturedCharacter: "Q1"},
	})
	want := "Move history:\n\t1. P1: F\n\t2. H1: L (Captured Q1)\n"
	if out.String() != want {
		t.Errorf("wrong history:\n%q", out.String())
	}
}

func TestShowEvent(t *testing.T) {
	var out bytes.Buffer
	r := &repl{g: newFakeGame(), w: &out}
	r.showEvent(client.GameOver{Winner: "B"})
	r.showEvent(client.MoveRejected{Reason: "blocked"})
	r.showEvent(client.Diagnostic{Err: errors.New("junk")})

	want := "> Game Over! Player B wins! Starting again.\n> Invalid move: blocked\n> problem: junk\n"
	if out.String() != want {
		t.Errorf("wrong output:\n%q", out.String())
	}
}
