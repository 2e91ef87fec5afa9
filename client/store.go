package client

import (
	"sync"

	"github.com/undeconstructed/skirmish/game"
)

// Snapshot is one state from the server, numbered in order of arrival.
type Snapshot struct {
	Version int
	State   *game.GameState
}

// Store keeps the latest game state, and nothing older. Apply is for the
// session loop only; everything else may be called from anywhere.
type Store struct {
	box *Box[*Snapshot]

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

func NewStore() *Store {
	return &Store{
		box:  NewBox[*Snapshot](),
		subs: map[int]func(Snapshot){},
	}
}

// Apply swaps in a new state and tells each subscriber once.
func (s *Store) Apply(state *game.GameState) Snapshot {
	version := 1
	if prev := s.box.Get(); prev != nil {
		version = prev.Version + 1
	}
	snap := &Snapshot{Version: version, State: state}
	s.box.Put(snap)

	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(*snap)
	}
	return *snap
}

// Current is the latest state, or nil before the first one.
func (s *Store) Current() *game.GameState {
	if snap := s.box.Get(); snap != nil {
		return snap.State
	}
	return nil
}

// Latest is the latest snapshot, or nil before the first one.
func (s *Store) Latest() *Snapshot {
	return s.box.Get()
}

// Wait blocks until there is a snapshot newer than seen. Pass nil to wait for
// the first.
func (s *Store) Wait(seen *Snapshot) *Snapshot {
	return s.box.Wait(seen)
}

// Subscribe calls fn, in subscription order, for every applied state. The
// returned func stops that.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}
