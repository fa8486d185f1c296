package perft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestCount(t *testing.T) {
	pos := board.NewPosition()

	tests := []struct {
		depth    int
		expected uint64
	}{
		{0, 1},
		{1, 20},
		{2, 400},
		{3, 8902},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if got := Count(pos, tc.depth); got != tc.expected {
				t.Errorf("Count(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}

	if pos.FEN() != board.StartFEN {
		t.Errorf("Count modified the position: %s", pos.FEN())
	}
}

func TestParallelStartDepth4(t *testing.T) {
	if testing.Short() {
		t.Skip("depth 4 perft in short mode")
	}
	got, err := Parallel(context.Background(), board.NewPosition(), 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 197281 {
		t.Errorf("Parallel(startpos, 4) = %d, want 197281", got)
	}
}

func TestParallelMatchesCount(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{0, 1, 4} {
		got, err := Parallel(context.Background(), pos, 2, workers)
		if err != nil {
			t.Fatalf("Parallel(workers=%d) error: %v", workers, err)
		}
		if got != 2039 {
			t.Errorf("Parallel(workers=%d) = %d, want 2039", workers, got)
		}
	}
}

func TestParallelDepthZero(t *testing.T) {
	got, err := Parallel(context.Background(), board.NewPosition(), 0, 2)
	if err != nil || got != 1 {
		t.Errorf("Parallel(depth 0) = %d, %v; want 1, nil", got, err)
	}
}

func TestDivide(t *testing.T) {
	results, err := Divide(context.Background(), board.NewPosition(), 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 20 {
		t.Fatalf("len(Divide) = %d, want 20", len(results))
	}

	var total uint64
	for i, r := range results {
		total += r.Nodes
		if i > 0 && strings.Compare(results[i-1].Move.String(), r.Move.String()) >= 0 {
			t.Errorf("results not sorted: %v before %v", results[i-1].Move, r.Move)
		}
	}
	if total != 8902 {
		t.Errorf("sum of Divide = %d, want 8902", total)
	}

	// Known split figures from the starting position at depth 3.
	want := map[string]uint64{"a2a3": 380, "e2e4": 600, "g1f3": 440, "b1a3": 400}
	for _, r := range results {
		if n, ok := want[r.Move.String()]; ok && r.Nodes != n {
			t.Errorf("%v: %d nodes, want %d", r.Move, r.Nodes, n)
		}
	}
}

func TestPromotionBranches(t *testing.T) {
	// Four promotion choices on each of two squares, plus king moves.
	pos, err := board.ParseFEN("3n4/4P3/8/8/8/8/8/k3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	promotions := 0
	for _, m := range board.LegalMoves(pos) {
		if m.IsPromotion() {
			promotions++
		}
	}
	if promotions != 8 {
		t.Errorf("promotion moves = %d, want 8", promotions)
	}
}

func TestDivideCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Divide(ctx, board.NewPosition(), 3, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Divide with cancelled context error = %v, want context.Canceled", err)
	}
}
