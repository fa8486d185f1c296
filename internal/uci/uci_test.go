package uci

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// run feeds script to a fresh handler and returns the engine and its output.
func run(t *testing.T, script string) (*engine.Engine, string) {
	t.Helper()
	eng := engine.NewEngine(engine.Options{Seed: 7, PerftWorkers: 2, Log: zerolog.Nop()})
	var out bytes.Buffer
	u := New(eng, &out, zerolog.Nop())
	if err := u.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return eng, out.String()
}

func TestHandshake(t *testing.T) {
	_, out := run(t, "uci\nisready\n")
	for _, want := range []string{"id name " + EngineName, "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "uciok") > strings.Index(out, "readyok") {
		t.Errorf("replies out of order:\n%s", out)
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "startpos",
			script: "position startpos\n",
			want:   board.StartFEN,
		},
		{
			name:   "startpos with moves",
			script: "position startpos moves e2e4 c7c5\n",
			want:   "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		},
		{
			name:   "fen",
			script: "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1\n",
			want:   "4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		},
		{
			name:   "fen with moves",
			script: "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1 moves e1g1\n",
			want:   "4k3/8/8/8/8/8/8/5RK1 b - - 1 1",
		},
		{
			name:   "bad fen keeps position",
			script: "position startpos moves e2e4\nposition fen 9/8 w - - 0 1\n",
			want:   "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
		{
			name:   "ucinewgame resets",
			script: "position startpos moves e2e4\nucinewgame\n",
			want:   board.StartFEN,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, _ := run(t, tt.script)
			if got := eng.FEN(); got != tt.want {
				t.Errorf("FEN = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvalidPositionReported(t *testing.T) {
	_, out := run(t, "position startpos moves e2e5\n")
	if !strings.Contains(out, "info string Invalid position") {
		t.Errorf("illegal move not reported:\n%s", out)
	}
}

func TestGo(t *testing.T) {
	eng, out := run(t, "position startpos moves e2e4\ngo\n")
	line := strings.TrimSpace(out)
	if !strings.HasPrefix(line, "bestmove ") {
		t.Fatalf("output = %q, want bestmove", line)
	}
	m, err := board.ParseMove(strings.TrimPrefix(line, "bestmove "))
	if err != nil {
		t.Fatal(err)
	}
	if !board.IsLegal(eng.Position(), m.From, m.To) {
		t.Errorf("bestmove %s is not legal", m)
	}
}

func TestGoWithoutMoves(t *testing.T) {
	// Fool's mate: white is checkmated.
	_, out := run(t, "position startpos moves f2f3 e7e5 g2g4 d8h4\ngo\n")
	if !strings.Contains(out, "bestmove 0000") {
		t.Errorf("output = %q, want bestmove 0000", out)
	}
}

func TestPerft(t *testing.T) {
	_, out := run(t, "perft 3\n")
	if !strings.Contains(out, "Nodes: 8902\n") {
		t.Errorf("perft 3 output:\n%s", out)
	}

	_, out = run(t, "go perft 2\n")
	if !strings.Contains(out, "Nodes: 400\n") {
		t.Errorf("go perft 2 output:\n%s", out)
	}
}

func TestDivide(t *testing.T) {
	_, out := run(t, "position startpos moves e2e4\ndivide 1\n")
	if !strings.Contains(out, "Nodes searched: 20\n") {
		t.Errorf("divide total missing:\n%s", out)
	}
	if !strings.Contains(out, "e7e5: 1\n") {
		t.Errorf("divide line missing:\n%s", out)
	}
}

func TestCommandsWaitForPerft(t *testing.T) {
	// "d" must not run until perft has printed its result.
	_, out := run(t, "perft 2\nd\n")
	nodes := strings.Index(out, "Nodes: 400")
	fen := strings.Index(out, "Fen: "+board.StartFEN)
	if nodes < 0 || fen < 0 || nodes > fen {
		t.Errorf("unexpected output order:\n%s", out)
	}
}

func TestSetOption(t *testing.T) {
	_, out := run(t, "setoption name Threads value 4\nsetoption name Bogus value 1\nsetoption name Threads value x\n")
	if !strings.Contains(out, "Unknown option: Bogus") {
		t.Errorf("unknown option not reported:\n%s", out)
	}
	if !strings.Contains(out, "Invalid Threads value: x") {
		t.Errorf("bad Threads value not reported:\n%s", out)
	}
	if strings.Count(out, "info string") != 2 {
		t.Errorf("valid option produced output:\n%s", out)
	}
}

func TestQuitStopsReading(t *testing.T) {
	eng, out := run(t, "quit\nposition startpos moves e2e4\n")
	if eng.FEN() != board.StartFEN {
		t.Errorf("command after quit was executed")
	}
	if out != "" {
		t.Errorf("output = %q, want none", out)
	}
}

func TestCancelledContext(t *testing.T) {
	eng := engine.NewEngine(engine.Options{Log: zerolog.Nop()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(eng, &out, zerolog.Nop()).Run(ctx, strings.NewReader(""))
	if err != nil && err != context.Canceled {
		t.Errorf("Run() error = %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, out := run(t, "xyzzy\n\n")
	if !strings.Contains(out, "info string Unknown command: xyzzy") {
		t.Errorf("output = %q", out)
	}
}
