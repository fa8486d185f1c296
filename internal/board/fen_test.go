package board

import (
	"errors"
	"strings"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 12 40",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q) error: %v", fen, err)
			}
			if got := pos.FEN(); got != fen {
				t.Errorf("FEN() = %q, want %q", got, fen)
			}

			again, err := ParseFEN(pos.FEN())
			if err != nil {
				t.Fatalf("re-parse error: %v", err)
			}
			if *again != *pos {
				t.Errorf("decode(encode(p)) differs from p")
			}
		})
	}
}

func TestFENRoundTripAfterMoves(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"e2e4", "c7c5", "g1f3", "d7d6", "f1e2", "b8c6", "e1g1"} {
		if _, err := ApplyUCI(pos, s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		again, err := ParseFEN(pos.FEN())
		if err != nil {
			t.Fatalf("after %s: ParseFEN(%q) error: %v", s, pos.FEN(), err)
		}
		if again.FEN() != pos.FEN() {
			t.Errorf("after %s: FEN() = %q, want %q", s, again.FEN(), pos.FEN())
		}
		if got, want := LegalMoves(again), LegalMoves(pos); len(got) != len(want) {
			t.Errorf("after %s: %d legal moves after round trip, want %d", s, len(got), len(want))
		}
	}

	want := "r1bqkbnr/pp2pppp/2np4/2p5/4P3/5N2/PPPPBPPP/RNBQ1RK1 b kq - 3 4"
	if got := pos.FEN(); got != want {
		t.Errorf("FEN() = %q, want %q", got, want)
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		field FENField
	}{
		{"too short", "8/8/8/8 w - - 0 1", FieldLength},
		{"too long", StartFEN + strings.Repeat(" ", 60), FieldLength},
		{"five fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0", FieldLayout},
		{"double space", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -  0 1", FieldLayout},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"long rank", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"overfull rank", "rnbqkbnr/pppppppp/71p/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"bad piece", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"two white kings", "rnbqkbnr/pppppppp/8/8/8/4K3/PPPPPPPP/RNBQKBNR w KQkq - 0 1", FieldPlacement},
		{"bad color", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", FieldActiveColor},
		{"bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkx - 0 1", FieldCastling},
		{"duplicate castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KKq - 0 1", FieldCastling},
		{"bad en passant", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1", FieldEnPassant},
		{"en passant on wrong rank", "4k3/8/8/8/3Pp3/8/8/4K3 w - e5 0 1", FieldEnPassant},
		{"en passant for wrong side", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e3 0 1", FieldEnPassant},
		{"negative clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1", FieldHalfMoveClock},
		{"clock over limit", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 201 1", FieldHalfMoveClock},
		{"non-numeric move", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 x", FieldFullMoveNumber},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err == nil {
				t.Fatalf("ParseFEN(%q) succeeded, want error", tc.fen)
			}
			if pos != nil {
				t.Errorf("ParseFEN returned a position alongside error %v", err)
			}
			if !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("error %v does not wrap ErrInvalidFEN", err)
			}
			var fe *FENError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not *FENError", err)
			}
			if fe.Field != tc.field {
				t.Errorf("Field = %v, want %v (%v)", fe.Field, tc.field, err)
			}
		})
	}
}

func TestParseFENWithLimit(t *testing.T) {
	fen := "4k3/8/8/8/8/8/8/4K2R w K - 150 90"
	if _, err := ParseFENWithLimit(fen, 100); err == nil {
		t.Error("expected half-move clock 150 to exceed limit 100")
	}
	pos, err := ParseFENWithLimit(fen, 150)
	if err != nil {
		t.Fatalf("ParseFENWithLimit error: %v", err)
	}
	if pos.HalfMoveClock() != 150 {
		t.Errorf("HalfMoveClock() = %d, want 150", pos.HalfMoveClock())
	}
}

func TestParseFENDerivedState(t *testing.T) {
	// White claims both rights but the a1 rook is missing; black's king is off e8.
	pos, err := ParseFEN("r2k3r/8/8/8/8/8/8/4K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := pos.Castling(); got != WhiteKingSideCastle {
		t.Errorf("Castling() = %v, want K", got)
	}

	rook, _ := pos.PieceAt(H1)
	if rook.Moved || rook.Side != KingSide {
		t.Errorf("h1 rook = %+v, want unmoved king-side rook", rook)
	}
	king, _ := pos.PieceAt(D8)
	if !king.Moved {
		t.Error("black king off its home square should count as moved")
	}

	pos, err = ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if err != nil {
		t.Fatal(err)
	}
	pawn, _ := pos.PieceAt(E4)
	if !pawn.EnPassant {
		t.Error("e4 pawn should be capturable en passant")
	}
	if !IsLegal(pos, D4, E3) {
		t.Error("d4xe3 en passant should be legal")
	}
}
