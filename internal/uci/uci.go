// Package uci speaks the Universal Chess Interface protocol on top of an
// engine session. Besides the standard commands it understands the usual
// debugging extensions: d, perft and divide.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/engine"
)

// Identification sent in reply to "uci".
const (
	EngineName   = "chesscore"
	EngineAuthor = "chesscore authors"
)

const defaultPerftDepth = 5

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine *engine.Engine
	log    zerolog.Logger

	outMu sync.Mutex
	out   io.Writer

	// Background perft state
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a protocol handler that writes replies to out.
func New(eng *engine.Engine, out io.Writer, log zerolog.Logger) *UCI {
	return &UCI{
		engine: eng,
		out:    out,
		log:    log.With().Str("component", "uci").Logger(),
	}
}

// Run reads commands from in until "quit", end of input or ctx is done.
// At end of input Run waits for a running perft to finish; "quit" and
// cancellation stop it.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			u.stop()
			return context.Cause(ctx)
		case line, ok := <-lines:
			if !ok {
				u.wait()
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			if quit := u.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle executes one command line and reports whether it was "quit".
func (u *UCI) handle(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]
	u.log.Debug().Str("cmd", cmd).Strs("args", args).Msg("command")

	// Only these may run while a perft is in progress; everything else
	// touches the engine and waits for it.
	switch cmd {
	case "isready":
		u.send("readyok")
		return false
	case "stop":
		u.stop()
		return false
	case "quit":
		u.stop()
		return true
	}
	u.wait()

	switch cmd {
	case "uci":
		u.handleUCI()
	case "ucinewgame":
		u.engine.NewGame()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(ctx, args)
	case "setoption":
		u.handleSetOption(args)
	// Debug commands
	case "d":
		u.send(u.engine.Position().String())
		u.send("Fen: " + u.engine.FEN())
	case "perft":
		u.startPerft(ctx, parseDepth(args), false)
	case "divide":
		u.startPerft(ctx, parseDepth(args), true)
	default:
		u.info("Unknown command: %s", line)
	}
	return false
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.send("id name " + EngineName)
	u.send("id author " + EngineAuthor)
	u.send("")
	u.send("option name Threads type spin default 0 min 0 max 1024")
	u.send("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		u.info("position: missing argument")
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}
	var moves []string
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = "startpos"
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		u.info("position: expected startpos or fen, got %s", args[0])
		return
	}

	if err := u.engine.SetPosition(fen, moves); err != nil {
		u.info("Invalid position: %v", err)
	}
}

// handleGo answers with a legal move chosen at random. "go perft N" runs
// perft like the bare command.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	if len(args) > 0 && args[0] == "perft" {
		u.startPerft(ctx, parseDepth(args[1:]), false)
		return
	}
	move, ok := u.engine.PickMove()
	if !ok {
		u.send("bestmove 0000")
		return
	}
	u.send("bestmove " + move.String())
}

// handleSetOption processes "setoption name <name> [value <value>]".
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	target := &name
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, arg)
		}
	}

	switch n := strings.Join(name, " "); strings.ToLower(n) {
	case "threads":
		threads, err := strconv.Atoi(strings.Join(value, " "))
		if err != nil || threads < 0 {
			u.info("Invalid Threads value: %s", strings.Join(value, " "))
			return
		}
		u.engine.SetPerftWorkers(threads)
	default:
		u.info("Unknown option: %s", n)
	}
}

// startPerft runs perft or divide in the background so that "stop" can
// cancel it.
func (u *UCI) startPerft(ctx context.Context, depth int, divide bool) {
	if depth < 1 {
		u.info("perft: depth must be at least 1")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	u.cancel, u.done = cancel, done

	go func() {
		defer close(done)
		defer cancel()
		if divide {
			u.runDivide(ctx, depth)
		} else {
			u.runPerft(ctx, depth)
		}
	}()
}

func (u *UCI) runPerft(ctx context.Context, depth int) {
	info, err := u.engine.Perft(ctx, depth)
	if err != nil {
		u.info("perft stopped: %v", err)
		return
	}
	u.send(fmt.Sprintf("Nodes: %d", info.Nodes))
	u.send(fmt.Sprintf("Time: %v", info.Time))
	if nps := info.NPS(); nps > 0 {
		u.send(fmt.Sprintf("NPS: %d", nps))
	}
}

func (u *UCI) runDivide(ctx context.Context, depth int) {
	results, err := u.engine.Divide(ctx, depth)
	if err != nil {
		u.info("divide stopped: %v", err)
		return
	}
	var total uint64
	for _, r := range results {
		u.send(fmt.Sprintf("%s: %d", r.Move, r.Nodes))
		total += r.Nodes
	}
	u.send("")
	u.send(fmt.Sprintf("Nodes searched: %d", total))
}

// stop cancels a running perft and waits for it.
func (u *UCI) stop() {
	if u.cancel != nil {
		u.cancel()
	}
	u.wait()
}

// wait blocks until a running perft has finished.
func (u *UCI) wait() {
	if u.done == nil {
		return
	}
	<-u.done
	u.cancel, u.done = nil, nil
}

func (u *UCI) send(line string) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	if _, err := fmt.Fprintln(u.out, line); err != nil {
		u.log.Error().Err(err).Msg("write reply")
	}
}

func (u *UCI) info(format string, args ...any) {
	u.send("info string " + fmt.Sprintf(format, args...))
}

func parseDepth(args []string) int {
	if len(args) == 0 {
		return defaultPerftDepth
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil {
		return 0
	}
	return depth
}
