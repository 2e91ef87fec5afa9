package client

import (
	"sync"
)

// feed hands events to one reader, in order, without ever making the writer
// wait. Events queue up for as long as the reader is away.
type feed struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
	wake   chan struct{}
	out    chan Event
}

func newFeed() *feed {
	f := &feed{
		wake: make(chan struct{}, 1),
		out:  make(chan Event),
	}
	go f.pump()
	return f
}

func (f *feed) push(e Event) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.queue = append(f.queue, e)
	f.mu.Unlock()
	f.poke()
}

// close lets the reader drain what is queued, then closes the channel.
func (f *feed) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.poke()
}

func (f *feed) poke() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *feed) pump() {
	for {
		f.mu.Lock()
		if len(f.queue) == 0 {
			closed := f.closed
			f.mu.Unlock()
			if closed {
				close(f.out)
				return
			}
			<-f.wake
			continue
		}
		e := f.queue[0]
		f.queue[0] = nil
		f.queue = f.queue[1:]
		f.mu.Unlock()

		f.out <- e
	}
}
