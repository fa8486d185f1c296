package board

import "fmt"

// Move is a candidate move between two squares. Promotion is NoPieceType
// unless a pawn reaches the last rank.
type Move struct {
	From, To  Square
	Promotion PieceType
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// IsPromotion returns true if this move carries a promotion piece.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// Normalize returns m as it plays in p: the promotion piece is dropped
// unless a pawn reaches its last rank, where it defaults to Queen.
func Normalize(p *Position, m Move) Move {
	pc, ok := p.pieceAt(m.From)
	if !ok || pc.Type != Pawn || !m.To.IsValid() || m.To.Row() != pc.Color.lastRow() {
		m.Promotion = NoPieceType
	} else if m.Promotion == NoPieceType {
		m.Promotion = Queen
	}
	return m
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if !m.From.IsValid() || !m.To.IsValid() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a UCI format move string. Whether the move is legal is
// decided later by TryMove.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	m := Move{From: from, To: to}
	if len(s) == 5 {
		promo, ok := PromotionFromChar(s[4])
		if !ok {
			return NoMove, fmt.Errorf("invalid promotion piece %q in %q", s[4], s)
		}
		m.Promotion = promo
	}
	return m, nil
}
