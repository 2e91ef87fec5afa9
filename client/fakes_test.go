package client

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/undeconstructed/skirmish/game"
	"github.com/undeconstructed/skirmish/transport"
)

// fakeConn records what is sent, and lets a test play the server.
type fakeConn struct {
	mu     sync.Mutex
	state  transport.State
	sent   chan string
	frames chan []byte
	err    error
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		state:  transport.Open,
		sent:   make(chan string, 32),
		frames: make(chan []byte),
	}
}

func (c *fakeConn) State() transport.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeConn) setState(s transport.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *fakeConn) Send(ctx context.Context, data []byte) error {
	if c.State() != transport.Open {
		return game.ErrTransportUnavailable
	}
	c.sent <- string(data)
	return nil
}

func (c *fakeConn) Frames() <-chan []byte { return c.frames }

func (c *fakeConn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *fakeConn) Close() error {
	c.setState(transport.Closed)
	return nil
}

// hangUp is the server going away.
func (c *fakeConn) hangUp(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.state = transport.Closed
		c.mu.Unlock()
		close(c.frames)
	})
}

func (c *fakeConn) serverSends(t *testing.T, frame string) {
	t.Helper()
	select {
	case c.frames <- []byte(frame):
	case <-time.After(2 * time.Second):
		t.Fatalf("nobody reading frames")
	}
}

func (c *fakeConn) nextSent(t *testing.T) string {
	t.Helper()
	select {
	case m := <-c.sent:
		return m
	case <-time.After(2 * time.Second):
		t.Fatalf("nothing sent")
		return ""
	}
}

func (c *fakeConn) nothingSent(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case m := <-c.sent:
		t.Fatalf("unexpected send: %s", m)
	case <-time.After(within):
	}
}

// manualTimers holds reset follow ups until the test fires them.
type manualTimers struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (m *manualTimers) after(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.fns = append(m.fns, f)
}

func (m *manualTimers) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fns)
}

func (m *manualTimers) fire() {
	m.mu.Lock()
	fns := m.fns
	m.fns = nil
	m.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

func emptyRows() []string {
	row := "[null,null,null,null,null]"
	return []string{row, row, row, row, row}
}

// stateFrame is a state update with A's P1 (a Pawn) top left and B's Q1 (a
// Hero2) bottom right.
func stateFrame(current string) string {
	rows := emptyRows()
	rows[0] = `[{"name":"P1","player":"A","type":"Pawn"},null,null,null,null]`
	rows[4] = `[null,null,null,null,{"name":"Q1","player":"B","type":"Hero2"}]`
	return `{"event":"gameStateUpdate","data":{"currentPlayer":"` + current + `","board":[` +
		strings.Join(rows, ",") +
		`],"players":{"A":{"characters":[{"name":"P1"}]},"B":{"characters":[{"name":"Q1"}]}}}}`
}

func sampleState(current game.PlayerID) *game.GameState {
	s := &game.GameState{
		CurrentPlayer: current,
		Players: map[game.PlayerID]game.PlayerInfo{
			"A": {Characters: []game.CharacterRef{{Name: "P1"}, {Name: "P2"}}},
			"B": {Characters: []game.CharacterRef{{Name: "Q1"}}},
		},
	}
	s.Board[0][0] = &game.Cell{Name: "P1", Player: "A", Type: game.Pawn}
	s.Board[4][4] = &game.Cell{Name: "Q1", Player: "B", Type: game.Hero2}
	return s
}
