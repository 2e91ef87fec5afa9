package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/undeconstructed/skirmish/client"
	"github.com/undeconstructed/skirmish/inspect"
	"github.com/undeconstructed/skirmish/term"
	"github.com/undeconstructed/skirmish/transport"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := loadEnv(".env"); err != nil {
		log.Fatal().Err(err).Msg("cannot read env file")
	}

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err == flag.ErrHelp {
		os.Exit(0)
	} else if err != nil {
		log.Error().Err(err).Msg("bad config")
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, cfg, log.Logger)
	log.Debug().Err(err).Msg("client return")
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, log zerolog.Logger) error {
	conn := transport.New(cfg.Server, transport.Options{
		WriteTimeout: cfg.WriteTimeout,
		Log:          log.With().Str("part", "transport").Logger(),
	})
	if err := conn.Open(ctx); err != nil {
		log.Error().Err(err).Msg("cannot connect")
		return err
	}

	session := client.NewSession(conn, client.Config{
		ResetDelay: cfg.ResetDelay,
		Log:        log,
	})
	g := client.NewGameProxy(session)

	ui := term.New(g, session.Events(), term.Config{
		HistoryFile: cfg.HistoryFile,
		Log:         log,
	})

	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		err := session.Run(gctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		err := ui.Run(gctx)
		if err != nil {
			return err
		}
		// leaving the REPL ends everything else
		return context.Canceled
	})

	if cfg.Inspect != "" {
		grp.Go(func() error {
			return inspect.Run(gctx, cfg.Inspect, g, log)
		})
	}

	err := grp.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}
