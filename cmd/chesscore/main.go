// Command chesscore is the command line front end of the chess core: move
// generation checks (perft, divide, suite), position inspection and
// diagrams, self-play and a UCI protocol loop.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

// command is one subcommand.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"perft", "count leaf nodes of the move tree", runPerft},
	{"divide", "node counts per root move", runDivide},
	{"suite", "check a perft suite against known counts", runSuite},
	{"fen", "validate a FEN and describe the position", runFEN},
	{"diagram", "draw a position as PNG or SVG", runDiagram},
	{"selfplay", "play random games and record them", runSelfPlay},
	{"games", "list recorded games and statistics", runGames},
	{"uci", "speak UCI on stdin and stdout", runUCI},
}

// app carries the shared runtime built from the config.
type app struct {
	cfg   config.Config
	log   zerolog.Logger
	store *storage.Storage
	cache *storage.PerftCache
}

func main() {
	os.Exit(run())
}

// run executes the command line and returns the exit code. Deferred
// cleanup, including the CPU profile, runs before the process exits.
func run() int {
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	log := cfg.Logger(os.Stderr)
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return 1
	}

	if flag.NArg() == 0 {
		usage()
		return 2
	}
	name, args := flag.Arg(0), flag.Args()[1:]

	cmd := lookup(name)
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "chesscore: unknown command %q\n\n", name)
		usage()
		return 2
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Error().Err(err).Msg("could not create CPU profile")
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Error().Err(err).Msg("could not start CPU profile")
			return 1
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup")
		return 1
	}
	defer a.Close()

	err = cmd.run(ctx, a, args)
	code := exitCode(err)
	switch code {
	case 130:
		log.Warn().Msg("interrupted")
	case 1:
		log.Error().Err(err).Str("command", name).Msg("failed")
	}
	return code
}

// lookup returns the named subcommand, or nil.
func lookup(name string) *command {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}

// exitCode maps a subcommand error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 2
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: chesscore [flags] <command> [command flags]\n\nflags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(out, "\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-9s %s\n", c.name, c.summary)
	}
}

func newApp(cfg config.Config, log zerolog.Logger) (*app, error) {
	loc, err := storage.Locate(cfg.DataDir, cfg.InMemory)
	if err != nil {
		return nil, err
	}
	store, err := storage.OpenAt(loc, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	cache, err := storage.NewPerftCache(store, cfg.CacheEntries)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("perft cache: %w", err)
	}
	return &app{cfg: cfg, log: log, store: store, cache: cache}, nil
}

// engine builds a fresh session wired to the shared storage.
func (a *app) engine() *engine.Engine {
	opts := engine.Options{
		PerftWorkers: a.cfg.PerftWorkers,
		MaxHalfMoves: a.cfg.MaxHalfMoves,
		Seed:         a.cfg.Seed,
		Cache:        a.cache,
		Log:          a.log,
	}
	if a.cfg.RecordGames {
		opts.Store = a.store
	}
	return engine.NewEngine(opts)
}

func (a *app) Close() {
	a.cache.Close()
	if err := a.store.Close(); err != nil {
		a.log.Error().Err(err).Msg("close storage")
	}
}
