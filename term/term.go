// Package term is a terminal front end for a game session.
package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	rl "github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/undeconstructed/skirmish/client"
	"github.com/undeconstructed/skirmish/game"
)

type Config struct {
	HistoryFile string
	Log         zerolog.Logger
}

type UI struct {
	g      client.GameClient
	events <-chan client.Event
	cfg    Config
	log    zerolog.Logger
}

// New makes a UI. events should be the session's event feed; the UI reads it
// until it closes.
func New(g client.GameClient, events <-chan client.Event, cfg Config) *UI {
	return &UI{
		g:      g,
		events: events,
		cfg:    cfg,
		log:    cfg.Log.With().Str("part", "term").Logger(),
	}
}

func (u *UI) completer() *rl.PrefixCompleter {
	ownPieces := func(string) []string {
		state := u.g.Current()
		if state == nil {
			return nil
		}
		var out []string
		for _, ch := range state.Roster(state.CurrentPlayer) {
			out = append(out, ch.Name)
		}
		return out
	}
	directions := func(string) []string {
		var out []string
		for _, d := range game.AllDirections {
			out = append(out, string(d))
		}
		return out
	}

	return rl.NewPrefixCompleter(
		rl.PcItem("board"),
		rl.PcItem("players"),
		rl.PcItem("select", rl.PcItemDynamic(ownPieces)),
		rl.PcItem("deselect"),
		rl.PcItem("dir", rl.PcItemDynamic(directions)),
		rl.PcItem("move", rl.PcItemDynamic(directions)),
		rl.PcItem("history"),
		rl.PcItem("reset"),
		rl.PcItem("help"),
		rl.PcItem("quit"),
	)
}

// Run reads commands until the user quits, the session goes away or ctx is
// done.
func (u *UI) Run(ctx context.Context) error {
	l, err := rl.NewEx(&rl.Config{
		Prompt:            "» ",
		HistoryFile:       u.cfg.HistoryFile,
		AutoComplete:      u.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	r := &repl{g: u.g, w: l.Stdout()}

	go func() {
		for e := range u.events {
			r.showEvent(e)
			if _, ok := e.(client.Disconnected); ok {
				// unblocks Readline
				l.Close()
			}
			l.SetPrompt(r.prompt(ctx))
			l.Refresh()
		}
	}()

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		l.SetPrompt(r.prompt(ctx))

		line, err := l.Readline()
		if err == rl.ErrInterrupt {
			if len(line) == 0 {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		if quit := r.exec(ctx, line); quit {
			break
		}
	}

	u.log.Debug().Msg("repl done")
	return nil
}

type repl struct {
	g client.GameClient
	w io.Writer
}

func (r *repl) prompt(ctx context.Context) string {
	v, err := r.g.View(ctx)
	if err != nil || v.State == nil {
		return "» "
	}
	player := v.State.CurrentPlayer
	sel := "-"
	if v.Selection.Armed() {
		sel = v.Selection.Character
	}
	return fmt.Sprintf("\033%s%s|%s>%s»\033%s ", col(player), player, sel, v.Selection.Direction, RESET)
}

func (r *repl) showEvent(e client.Event) {
	switch m := e.(type) {
	case client.StateUpdated:
		fmt.Fprintf(r.w, "> state %d, player %s to move\n", m.Version, m.State.CurrentPlayer)
	case client.MoveRejected:
		fmt.Fprintf(r.w, "> Invalid move: %s\n", m.Reason)
	case client.GameOver:
		fmt.Fprintf(r.w, "> Game Over! Player %s wins! Starting again.\n", m.Winner)
	case client.Diagnostic:
		fmt.Fprintf(r.w, "> problem: %v\n", m.Err)
	case client.Disconnected:
		if m.Err != nil {
			fmt.Fprintf(r.w, "> disconnected: %v\n", m.Err)
		} else {
			fmt.Fprintf(r.w, "> disconnected\n")
		}
	}
}

func (r *repl) printErr(err error) {
	fmt.Fprintf(r.w, "Error: %v\n", err)
}

// exec does one line of input. It says true when it's time to stop.
func (r *repl) exec(ctx context.Context, line string) bool {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd := parts[0]
	rest := ""
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "", "board", "b":
		v, err := r.g.View(ctx)
		if err != nil {
			r.printErr(err)
			return client.IsClosed(err)
		}
		printBoard(r.w, v.State, v.Selection.Character)
		printSelection(r.w, v.Selection, v.Advisory)
	case "players", "p":
		printPlayers(r.w, r.g.Current())
	case "select", "s":
		if rest == "" {
			fmt.Fprintf(r.w, "select <name>\n")
			return false
		}
		if err := r.g.Select(ctx, rest); err != nil {
			r.printErr(err)
			return client.IsClosed(err)
		}
	case "deselect":
		if err := r.g.Deselect(ctx); err != nil {
			r.printErr(err)
			return client.IsClosed(err)
		}
	case "dir", "d":
		d, err := game.ParseDirection(rest)
		if err != nil {
			fmt.Fprintf(r.w, "dir <F|B|L|R|FL|FR|BL|BR>\n")
			return false
		}
		if err := r.g.SetDirection(ctx, d); err != nil {
			r.printErr(err)
			return client.IsClosed(err)
		}
	case "move", "m":
		if rest != "" {
			d, err := game.ParseDirection(rest)
			if err != nil {
				fmt.Fprintf(r.w, "move [F|B|L|R|FL|FR|BL|BR]\n")
				return false
			}
			if err := r.g.SetDirection(ctx, d); err != nil {
				r.printErr(err)
				return client.IsClosed(err)
			}
		}
		rec, err := r.g.Submit(ctx)
		if err != nil {
			r.printErr(err)
			return client.IsClosed(err)
		}
		fmt.Fprintf(r.w, "Sent: %s %s\n", rec.Character, rec.Direction)
	case "history", "h":
		v, err := r.g.View(ctx)
		if err != nil {
			r.printErr(err)
			return client.IsClosed(err)
		}
		printHistory(r.w, v.History)
	case "reset":
		if err := r.g.Reset(ctx); err != nil {
			if errors.Is(err, game.ErrTransportUnavailable) {
				fmt.Fprintf(r.w, "Not connected, cannot reset the game.\n")
				return false
			}
			r.printErr(err)
			return client.IsClosed(err)
		}
		fmt.Fprintf(r.w, "Game reset.\n")
	case "help", "?":
		printHelp(r.w)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(r.w, "unknown\n")
	}
	return false
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "board           show the board (or just enter)\n")
	fmt.Fprintf(w, "players         show each side's pieces\n")
	fmt.Fprintf(w, "select <name>   pick one of your pieces\n")
	fmt.Fprintf(w, "deselect        drop the piece\n")
	fmt.Fprintf(w, "dir <d>         set the direction\n")
	fmt.Fprintf(w, "move [d]        send the move\n")
	fmt.Fprintf(w, "history         moves sent since the last reset\n")
	fmt.Fprintf(w, "reset           start the game again\n")
	fmt.Fprintf(w, "quit\n")
}
