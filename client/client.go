// Package client keeps a local copy of a game the server runs, and sends the
// local player's moves to it.
//
// A Session owns everything. Its loop is the only goroutine that changes
// anything: inbound frames, requests from UIs and reset timers all arrive on
// channels and are handled one at a time, in order.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/undeconstructed/skirmish/comms"
	"github.com/undeconstructed/skirmish/game"
)

// Conn is what a session needs from a transport.
type Conn interface {
	Sender
	Frames() <-chan []byte
	Err() error
	Close() error
}

type Config struct {
	// ResetDelay is the wait between resetGame and requestGameState.
	ResetDelay time.Duration
	// After schedules reset follow ups. Nil means time.AfterFunc.
	After AfterFunc
	Log   zerolog.Logger
}

type reply struct {
	val interface{}
	err error
}

type reqRep struct {
	do  func(ctx context.Context) (interface{}, error)
	rep chan reply
}

type Session struct {
	id   string
	conn Conn

	store    *Store
	mover    *Mover
	resetter *Resetter
	events   *feed

	locCh   chan reqRep
	timerCh chan func()
	done    chan struct{}

	log zerolog.Logger
}

func NewSession(conn Conn, cfg Config) *Session {
	id := uuid.NewString()
	log := cfg.Log.With().Str("session", id).Logger()

	if cfg.ResetDelay == 0 {
		cfg.ResetDelay = DefaultResetDelay
	}
	after := cfg.After
	if after == nil {
		after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}

	s := &Session{
		id:      id,
		conn:    conn,
		store:   NewStore(),
		events:  newFeed(),
		locCh:   make(chan reqRep),
		timerCh: make(chan func()),
		done:    make(chan struct{}),
		log:     log,
	}

	s.mover = NewMover(s.store, conn, log.With().Str("part", "mover").Logger())
	s.resetter = NewResetter(conn, s.mover, cfg.ResetDelay,
		func(d time.Duration, f func()) {
			// the follow up has to happen in the loop, like everything else
			after(d, func() {
				select {
				case s.timerCh <- f:
				case <-s.done:
				}
			})
		},
		func(err error) {
			s.events.push(Diagnostic{Err: err})
		},
		log.With().Str("part", "reset").Logger())

	s.store.Subscribe(func(snap Snapshot) {
		s.events.push(StateUpdated{snap})
	})

	return s
}

func (s *Session) ID() string { return s.id }

// Store is for reading state directly, from any goroutine.
func (s *Session) Store() *Store { return s.store }

// Events must be read by someone, until it closes after Run returns.
func (s *Session) Events() <-chan Event { return s.events.out }

// Done is closed when Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run is the session's main loop. It returns when ctx ends or the connection
// goes away, and closes the connection either way.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info().Msg("session running")
	defer s.log.Info().Msg("session stopping")

	defer s.events.close()
	defer close(s.done)
	defer s.conn.Close()

	frames := s.conn.Frames()

	for {
		select {
		case <-ctx.Done():
			s.events.push(Disconnected{})
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				err := s.conn.Err()
				s.log.Info().Err(err).Msg("connection gone")
				s.events.push(Disconnected{Err: err})
				return err
			}
			s.handleFrame(ctx, frame)
		case rr := <-s.locCh:
			val, err := rr.do(ctx)
			rr.rep <- reply{val, err}
		case f := <-s.timerCh:
			f()
		}
	}
}

func (s *Session) handleFrame(ctx context.Context, frame []byte) {
	ev, err := comms.Decode(frame)
	if err != nil {
		s.log.Warn().Err(err).Msg("dropping frame")
		s.events.push(Diagnostic{Err: err})
		return
	}

	switch m := ev.(type) {
	case comms.StateUpdate:
		snap := s.store.Apply(m.State)
		s.log.Debug().Int("version", snap.Version).Str("player", string(m.State.CurrentPlayer)).Msg("state")
	case comms.InvalidMove:
		s.log.Info().Str("reason", m.Reason).Msg("move rejected")
		s.events.push(MoveRejected{Reason: m.Reason})
	case comms.GameOver:
		s.log.Info().Str("winner", string(m.Winner)).Msg("game over")
		s.events.push(GameOver{Winner: m.Winner})
		if err := s.resetter.Reset(ctx); err != nil {
			s.events.push(Diagnostic{Err: err})
		}
	}
}

// call runs do in the loop and waits for the answer.
func (s *Session) call(ctx context.Context, do func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	rr := reqRep{do, make(chan reply, 1)}

	select {
	case s.locCh <- rr:
	case <-s.done:
		return nil, game.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-rr.rep:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) view() View {
	v := View{
		Selection:  s.mover.Selection(),
		Advisory:   s.mover.Advisory(),
		History:    s.mover.History(),
		Connection: s.conn.State().String(),
	}
	if snap := s.store.Latest(); snap != nil {
		v.Version = snap.Version
		v.State = snap.State
	}
	return v
}

// IsClosed is for errors coming out of a session that has stopped.
func IsClosed(err error) bool {
	return errors.Is(err, game.ErrClosed)
}
