package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const defaultServer = "wss://chess-like-game-backend.onrender.com/"

type config struct {
	Server       string
	ResetDelay   time.Duration
	WriteTimeout time.Duration
	LogLevel     zerolog.Level
	Inspect      string
	HistoryFile  string
}

// loadEnv reads a .env file into the environment if there is one. Variables
// already set win.
func loadEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", f, err)
		}
	}
	return nil
}

// parseConfig reads flags from args, each one defaulting to its SKIRMISH_
// variable from getenv.
func parseConfig(args []string, getenv func(string) string, out io.Writer) (config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	envDur := func(key string, def time.Duration) (time.Duration, error) {
		v := getenv(key)
		if v == "" {
			return def, nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return d, nil
	}

	resetDelay, err := envDur("SKIRMISH_RESET_DELAY", 100*time.Millisecond)
	if err != nil {
		return config{}, err
	}
	writeTimeout, err := envDur("SKIRMISH_WRITE_TIMEOUT", 5*time.Second)
	if err != nil {
		return config{}, err
	}

	var c config
	var level string

	fs := flag.NewFlagSet("skirmish", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&c.Server, "server", env("SKIRMISH_SERVER", defaultServer), "game server websocket URL")
	fs.DurationVar(&c.ResetDelay, "reset-delay", resetDelay, "wait between reset and asking for state")
	fs.DurationVar(&c.WriteTimeout, "write-timeout", writeTimeout, "limit on each send")
	fs.StringVar(&level, "log-level", env("SKIRMISH_LOG_LEVEL", "info"), "debug, info, warn, error")
	fs.StringVar(&c.Inspect, "inspect", env("SKIRMISH_INSPECT", ""), "address for the HTTP inspector, empty for none")
	fs.StringVar(&c.HistoryFile, "history", env("SKIRMISH_HISTORY", ""), "readline history file")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	c.LogLevel, err = zerolog.ParseLevel(level)
	if err != nil {
		return config{}, err
	}
	if c.Server == "" {
		return config{}, fmt.Errorf("no server")
	}
	if c.ResetDelay <= 0 {
		return config{}, fmt.Errorf("reset delay must be positive")
	}

	return c, nil
}
