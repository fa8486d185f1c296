// Package engine manages one game session on top of the board package: the
// current position, the moves played, game recording and perft runs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
)

// ErrGameOver is returned when a move is submitted after checkmate or a draw.
var ErrGameOver = errors.New("game is over")

// PerftInfo contains the result of one perft run.
type PerftInfo struct {
	Depth  int
	Nodes  uint64
	Time   time.Duration
	Cached bool // served from the perft cache, Time is the lookup time
}

// NPS returns nodes per second, or 0 for a run too fast to measure.
func (i PerftInfo) NPS() uint64 {
	if i.Time <= 0 {
		return 0
	}
	return uint64(float64(i.Nodes) / i.Time.Seconds())
}

// Options configures an Engine. The zero value is usable.
type Options struct {
	PerftWorkers int    // 0 means GOMAXPROCS
	MaxHalfMoves int    // FEN half-move ceiling, 0 means board.DefaultMaxHalfMoves
	Seed         uint64 // move picker seed, 0 picks one at random

	Cache *storage.PerftCache // optional perft result cache
	Store *storage.Storage    // optional, finished games are recorded here

	Log zerolog.Logger
}

// Engine is a single game session. It is not safe for concurrent use; the
// caller serializes all calls.
type Engine struct {
	opts Options
	rng  *rand.Rand
	log  zerolog.Logger

	pos      *board.Position
	startFEN string
	moves    []board.Move
	status   board.GameStatus
	seen     map[uint64]int // position hash -> occurrences
	started  time.Time

	// Callbacks
	OnPerft func(PerftInfo)
}

// NewEngine creates an engine set up at the starting position.
func NewEngine(opts Options) *Engine {
	if opts.MaxHalfMoves <= 0 {
		opts.MaxHalfMoves = board.DefaultMaxHalfMoves
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	e := &Engine{
		opts: opts,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log:  opts.Log.With().Str("component", "engine").Logger(),
	}
	e.NewGame()
	return e
}

// NewGame resets the session to the starting position.
func (e *Engine) NewGame() {
	if err := e.SetPosition(board.StartFEN, nil); err != nil {
		panic(err)
	}
}

// SetPosition starts a session from fen ("startpos" or "" for the initial
// position) and plays the given UCI moves. On error the previous session
// is kept.
func (e *Engine) SetPosition(fen string, moves []string) error {
	if fen == "" || fen == "startpos" {
		fen = board.StartFEN
	}
	pos, err := board.ParseFENWithLimit(fen, e.opts.MaxHalfMoves)
	if err != nil {
		return err
	}

	next := &Engine{
		opts:     e.opts,
		rng:      e.rng,
		log:      e.log,
		pos:      pos,
		startFEN: pos.FEN(),
		status:   board.Status(pos),
		seen:     map[uint64]int{pos.Hash(): 1},
		started:  time.Now(),
		OnPerft:  e.OnPerft,
	}
	for i, s := range moves {
		if _, err := next.play(s, false); err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	*e = *next
	return nil
}

// Move plays a UCI move and returns the resulting status.
func (e *Engine) Move(uci string) (board.GameStatus, error) {
	return e.play(uci, true)
}

// MoveSAN plays a move given in Standard Algebraic Notation.
func (e *Engine) MoveSAN(san string) (board.GameStatus, error) {
	if e.status.IsTerminal() {
		return board.StatusInvalid, ErrGameOver
	}
	m, err := board.ParseSAN(e.pos, san)
	if err != nil {
		return board.StatusInvalid, err
	}
	return e.play(m.String(), true)
}

func (e *Engine) play(uci string, record bool) (board.GameStatus, error) {
	if e.status.IsTerminal() {
		return board.StatusInvalid, ErrGameOver
	}
	m, err := board.ParseMove(uci)
	if err != nil {
		return board.StatusInvalid, err
	}
	m = board.Normalize(e.pos, m)
	status, err := board.Apply(e.pos, m)
	if err != nil {
		return status, err
	}

	e.moves = append(e.moves, m)
	e.seen[e.pos.Hash()]++
	e.status = status
	e.log.Debug().Str("move", m.String()).Str("status", status.String()).Msg("move played")

	if record && status.IsTerminal() {
		e.recordGame()
	}
	return status, nil
}

func (e *Engine) recordGame() {
	if e.opts.Store == nil {
		return
	}

	result := storage.ResultDraw
	if e.status == board.StatusCheckmate {
		result = storage.ResultWhiteWins
		if e.pos.SideToMove() == board.White {
			result = storage.ResultBlackWins
		}
	}

	moves := make([]string, len(e.moves))
	for i, m := range e.moves {
		moves[i] = m.String()
	}
	game := &storage.GameRecord{
		StartFEN: e.startFEN,
		Moves:    moves,
		FinalFEN: e.pos.FEN(),
		Result:   result,
		Reason:   e.drawReason(),
		Duration: time.Since(e.started),
	}
	if err := e.opts.Store.RecordGame(game); err != nil {
		e.log.Error().Err(err).Msg("record game")
		return
	}
	e.log.Info().Uint64("id", game.ID).Str("result", result.String()).Str("reason", game.Reason).Msg("game recorded")
}

// drawReason names why a terminal position ended the game.
func (e *Engine) drawReason() string {
	switch {
	case e.status == board.StatusCheckmate:
		return "checkmate"
	case board.IsStalemate(e.pos):
		return "stalemate"
	case board.InsufficientMaterial(e.pos):
		return "insufficient material"
	default:
		return "seventy-five-move rule"
	}
}

// Position returns a copy of the current position.
func (e *Engine) Position() *board.Position {
	return e.pos.Clone()
}

// FEN returns the current position in FEN.
func (e *Engine) FEN() string {
	return e.pos.FEN()
}

// Status returns the status after the last move.
func (e *Engine) Status() board.GameStatus {
	return e.status
}

// Moves returns the moves played since the session started.
func (e *Engine) Moves() []board.Move {
	return append([]board.Move(nil), e.moves...)
}

// MovesSAN returns the moves played in Standard Algebraic Notation.
func (e *Engine) MovesSAN() []string {
	start, err := board.ParseFENWithLimit(e.startFEN, e.opts.MaxHalfMoves)
	if err != nil {
		return nil
	}
	return board.MovesToSAN(start, e.moves)
}

// LegalMoves returns the legal moves in the current position.
func (e *Engine) LegalMoves() []board.Move {
	if e.status.IsTerminal() {
		return nil
	}
	return board.LegalMoves(e.pos)
}

// PickMove returns a uniformly random legal move, or false when the game
// is over.
func (e *Engine) PickMove() (board.Move, bool) {
	moves := e.LegalMoves()
	if len(moves) == 0 {
		return board.NoMove, false
	}
	return moves[e.rng.IntN(len(moves))], true
}

// Repetitions returns how many times the current position has occurred.
func (e *Engine) Repetitions() int {
	return e.seen[e.pos.Hash()]
}

// CanClaimDraw reports whether the side to move may claim a draw by
// threefold repetition or the fifty-move rule.
func (e *Engine) CanClaimDraw() bool {
	return !e.status.IsTerminal() && (e.Repetitions() >= 3 || board.FiftyMoveClaimable(e.pos))
}

// Perft counts leaf nodes from the current position, consulting the perft
// cache first when one is configured.
func (e *Engine) Perft(ctx context.Context, depth int) (PerftInfo, error) {
	start := time.Now()
	fen := e.pos.FEN()

	if e.opts.Cache != nil {
		nodes, ok, err := e.opts.Cache.Lookup(fen, depth)
		if err != nil {
			e.log.Warn().Err(err).Msg("perft cache lookup")
		}
		if ok {
			info := PerftInfo{Depth: depth, Nodes: nodes, Time: time.Since(start), Cached: true}
			e.report(info)
			return info, nil
		}
	}

	nodes, err := perft.Parallel(ctx, e.pos, depth, e.opts.PerftWorkers)
	if err != nil {
		return PerftInfo{}, err
	}
	info := PerftInfo{Depth: depth, Nodes: nodes, Time: time.Since(start)}

	if e.opts.Cache != nil {
		rec := storage.PerftRecord{FEN: fen, Depth: depth, Nodes: nodes, Elapsed: info.Time}
		if err := e.opts.Cache.Remember(rec); err != nil {
			e.log.Warn().Err(err).Msg("perft cache store")
		}
	}
	e.report(info)
	return info, nil
}

// SetPerftWorkers changes the number of perft workers; n <= 0 means GOMAXPROCS.
func (e *Engine) SetPerftWorkers(n int) {
	if n < 0 {
		n = 0
	}
	e.opts.PerftWorkers = n
}

// Divide returns per-move node counts from the current position.
func (e *Engine) Divide(ctx context.Context, depth int) ([]perft.Result, error) {
	return perft.Divide(ctx, e.pos, depth, e.opts.PerftWorkers)
}

func (e *Engine) report(info PerftInfo) {
	e.log.Debug().Int("depth", info.Depth).Uint64("nodes", info.Nodes).Dur("time", info.Time).Bool("cached", info.Cached).Msg("perft")
	if e.OnPerft != nil {
		e.OnPerft(info)
	}
}
