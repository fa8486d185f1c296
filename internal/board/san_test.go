package board

import "testing"

func TestSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move Move
		want string
	}{
		{"pawn push", StartFEN, Move{From: E2, To: E4}, "e4"},
		{"knight", StartFEN, Move{From: G1, To: F3}, "Nf3"},
		{"castle short", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", Move{From: E1, To: G1}, "O-O"},
		{"castle long", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", Move{From: E8, To: C8}, "O-O-O"},
		{"pawn capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", Move{From: E4, To: D5}, "exd5"},
		{"en passant", "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", Move{From: E5, To: F6}, "exf6"},
		{"file disambiguation", "4k3/8/8/8/8/8/4K3/R6R w - - 0 1", Move{From: A1, To: D1}, "Rad1"},
		{"rank disambiguation", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", Move{From: A1, To: A3}, "R1a3"},
		{"promotion", "8/4P3/8/8/8/8/k7/4K3 w - - 0 1", Move{From: E7, To: E8, Promotion: Knight}, "e8=N"},
		{"check", "4k3/8/8/8/8/8/8/R3K3 w Q - 0 1", Move{From: A1, To: A8}, "Ra8+"},
		{"mate", "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", Move{From: H5, To: F7}, "Qxf7#"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			if got := SAN(pos, tc.move); got != tc.want {
				t.Errorf("SAN(%v) = %q, want %q", tc.move, got, tc.want)
			}

			back, err := ParseSAN(pos, tc.want)
			if err != nil {
				t.Fatalf("ParseSAN(%q) error: %v", tc.want, err)
			}
			if back != tc.move {
				t.Errorf("ParseSAN(%q) = %v, want %v", tc.want, back, tc.move)
			}
		})
	}
}

func TestParseSANRejects(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"e5", "Nf4", "O-O", "Zf3", "x", "e8=K"} {
		if _, err := ParseSAN(pos, s); err == nil {
			t.Errorf("ParseSAN(%q) succeeded", s)
		}
	}
}

func TestMovesToSAN(t *testing.T) {
	pos := NewPosition()
	moves := []Move{{From: E2, To: E4}, {From: E7, To: E5}, {From: G1, To: F3}, {From: B8, To: C6}}
	got := MovesToSAN(pos, moves)
	want := []string{"e4", "e5", "Nf3", "Nc6"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MovesToSAN()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if pos.FEN() != StartFEN {
		t.Error("MovesToSAN modified its input")
	}
}
