// Package perft counts the leaf nodes of the legal move tree, the standard
// way to verify move generation against published figures.
package perft

import (
	"context"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// Result is the node count below one root move.
type Result struct {
	Move  board.Move
	Nodes uint64
}

// Count returns the number of leaf nodes at the given depth. Depth 0 is the
// position itself. p is not modified.
func Count(p *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := board.LegalMoves(p)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		child := p.Clone()
		board.MakeMove(child, m)
		nodes += Count(child, depth-1)
	}
	return nodes
}

// Parallel is Count with the root moves spread over up to workers
// goroutines. workers <= 0 means GOMAXPROCS.
func Parallel(ctx context.Context, p *board.Position, depth, workers int) (uint64, error) {
	if depth <= 0 {
		return 1, nil
	}
	results, err := Divide(ctx, p, depth, workers)
	if err != nil {
		return 0, err
	}
	var nodes uint64
	for _, r := range results {
		nodes += r.Nodes
	}
	return nodes, nil
}

// Divide returns the node count under each root move, sorted by the UCI
// form of the move. Each root move is searched on its own clone of p.
// Cancelling ctx stops root moves that have not started yet; a subtree
// already being counted runs to completion.
func Divide(ctx context.Context, p *board.Position, depth, workers int) ([]Result, error) {
	if depth <= 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	moves := board.LegalMoves(p)
	results := make([]Result, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range moves {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child := p.Clone()
			board.MakeMove(child, m)
			results[i] = Result{Move: m, Nodes: Count(child, depth-1)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b Result) int {
		return strings.Compare(a.Move.String(), b.Move.String())
	})
	return results, nil
}
