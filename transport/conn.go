// Package transport holds the one websocket a client has to its server.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/undeconstructed/skirmish/game"
)

type State int

const (
	Connecting State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Options struct {
	// WriteTimeout bounds each Send. Zero means 5 seconds.
	WriteTimeout time.Duration
	// ReadLimit is the largest frame accepted. Zero keeps the library default.
	ReadLimit    int64
	Subprotocols []string
	HTTPHeader   http.Header
	Log          zerolog.Logger
}

// Conn is a single use connection. Once closed it stays closed, there is no
// reconnecting.
type Conn struct {
	url  string
	opts Options
	log  zerolog.Logger

	mu      sync.Mutex
	state   State
	dialing bool
	reading bool
	ws      *websocket.Conn
	cancel  context.CancelFunc
	err     error

	frames    chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

// New makes a connection to url, in Connecting state. Nothing happens on the
// network until Open.
func New(url string, opts Options) *Conn {
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	return &Conn{
		url:    url,
		opts:   opts,
		log:    opts.Log.With().Str("url", url).Logger(),
		state:  Connecting,
		frames: make(chan []byte),
		closed: make(chan struct{}),
	}
}

// Open dials the server. If that fails the connection is Closed for good.
func (c *Conn) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Connecting || c.dialing {
		c.mu.Unlock()
		return fmt.Errorf("open: %w", game.ErrClosed)
	}
	c.dialing = true
	c.mu.Unlock()

	c.log.Debug().Msg("dialing")

	ws, _, err := websocket.Dial(ctx, c.url, &websocket.DialOptions{
		Subprotocols: c.opts.Subprotocols,
		HTTPHeader:   c.opts.HTTPHeader,
	})
	if err != nil {
		c.log.Info().Err(err).Msg("dial failed")
		c.finish(err)
		return fmt.Errorf("open: %w", err)
	}
	if c.opts.ReadLimit > 0 {
		ws.SetReadLimit(c.opts.ReadLimit)
	}

	readCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.state == Closed {
		// closed while dialing
		c.mu.Unlock()
		cancel()
		ws.Close(websocket.StatusNormalClosure, "bye")
		return fmt.Errorf("open: %w", game.ErrClosed)
	}
	c.ws = ws
	c.cancel = cancel
	c.state = Open
	c.reading = true
	c.mu.Unlock()

	c.log.Info().Msg("connected")

	go c.readLoop(readCtx, ws)

	return nil
}

func (c *Conn) readLoop(ctx context.Context, ws *websocket.Conn) {
	defer close(c.frames)

	for {
		typ, data, err := ws.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info().Msg("server closed connection")
				c.finish(nil)
			default:
				if ctx.Err() != nil {
					// we closed it
					c.finish(nil)
				} else {
					c.log.Info().Err(err).Msg("read error")
					c.finish(err)
				}
			}
			return
		}
		if typ != websocket.MessageText {
			c.log.Debug().Msgf("got a %v frame", typ)
		}

		select {
		case c.frames <- data:
		case <-c.closed:
			return
		}
	}
}

// State is where the connection is in its life.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Frames gets every inbound frame, once each and in order. It is closed when
// the connection ends.
func (c *Conn) Frames() <-chan []byte {
	return c.frames
}

// Done is closed when the connection is Closed.
func (c *Conn) Done() <-chan struct{} {
	return c.closed
}

// Err says why the connection closed. Nil for a clean close, or if still
// going.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Send writes one text frame. If not Open it fails with
// game.ErrTransportUnavailable and writes nothing.
func (c *Conn) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	ws, state := c.ws, c.state
	c.mu.Unlock()

	if state != Open {
		return game.ErrTransportUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
	defer cancel()

	err := ws.Write(ctx, websocket.MessageText, data)
	if err != nil {
		c.log.Info().Err(err).Msg("write error")
		c.finish(err)
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// Close can be called any number of times from anywhere.
func (c *Conn) Close() error {
	c.finish(nil)
	return nil
}

func (c *Conn) finish(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = Closed
		c.err = err
		ws, cancel, reading := c.ws, c.cancel, c.reading
		c.mu.Unlock()

		close(c.closed)

		// the reader goes first, otherwise Close waits on the peer's close
		// frame while the read is still holding the connection
		if cancel != nil {
			cancel()
		}
		if ws != nil {
			cerr := ws.Close(websocket.StatusNormalClosure, "bye")
			if cerr != nil && !errors.Is(cerr, context.Canceled) {
				c.log.Debug().Err(cerr).Msg("close")
			}
		}
		if !reading {
			close(c.frames)
		}

		c.log.Info().Msg("closed")
	})
}
