package board

import (
	"fmt"
	"strings"
)

// SAN converts a legal move to Standard Algebraic Notation.
func SAN(pos *Position, m Move) string {
	pc, ok := pos.PieceAt(m.From)
	if !ok || !m.To.IsValid() {
		return m.String()
	}

	_, dc := delta(m.From, m.To)
	if pc.Type == King && abs(dc) == 2 {
		if dc > 0 {
			return "O-O" + checkSuffix(pos, m)
		}
		return "O-O-O" + checkSuffix(pos, m)
	}

	var sb strings.Builder
	if pc.Type != Pawn {
		sb.WriteByte("  NBRQK"[pc.Type])
		sb.WriteString(disambiguation(pos, m, pc.Type))
	}

	if isCapture(pos, pc, m) {
		if pc.Type == Pawn {
			sb.WriteByte('a' + byte(m.From.Col()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.To.String())

	if pc.Type == Pawn && m.To.Row() == pc.Color.lastRow() {
		promo := m.Promotion
		if promo == NoPieceType {
			promo = Queen
		}
		sb.WriteByte('=')
		sb.WriteByte("  NBRQK"[promo])
	}

	sb.WriteString(checkSuffix(pos, m))
	return sb.String()
}

func isCapture(pos *Position, pc Piece, m Move) bool {
	if pos.cells[m.To].occupied {
		return true
	}
	return pc.Type == Pawn && enPassantVictim(pos, pc, m.From, m.To) != NoSquare
}

// checkSuffix plays m on a copy and returns "#", "+" or "".
func checkSuffix(pos *Position, m Move) string {
	next := pos.Clone()
	MakeMove(next, m)
	switch {
	case IsCheckmate(next):
		return "#"
	case InCheck(next):
		return "+"
	}
	return ""
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	var rivals []Square
	for _, other := range LegalMoves(pos) {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if pc, _ := pos.pieceAt(other.From); pc.Type == pt {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range rivals {
		if sq.Col() == m.From.Col() {
			sameFile = true
		}
		if sq.Row() == m.From.Row() {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return string(rune('a' + m.From.Col()))
	case !sameRank:
		return string(rune('0' + m.From.Rank()))
	}
	return m.From.String()
}

// ParseSAN parses a SAN string and returns the matching legal move.
func ParseSAN(pos *Position, s string) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	us := pos.sideToMove
	switch s {
	case "O-O", "0-0":
		return findLegal(pos, orig, kingHome(us), square(us.homeRow(), 6))
	case "O-O-O", "0-0-0":
		return findLegal(pos, orig, kingHome(us), square(us.homeRow(), 2))
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		if idx+1 >= len(s) {
			return NoMove, fmt.Errorf("invalid SAN %q: missing promotion piece", orig)
		}
		pt, ok := PromotionFromChar(s[idx+1])
		if !ok {
			return NoMove, fmt.Errorf("invalid SAN %q: bad promotion piece", orig)
		}
		promo = pt
		s = s[:idx]
	}

	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NoMove, fmt.Errorf("invalid SAN %q: unknown piece %q", orig, s[0])
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN %q", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("invalid SAN %q: %w", orig, err)
	}

	fileHint, rankHint := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			fileHint = int(c - 'a')
		case c >= '1' && c <= '8':
			rankHint = int(c - '0')
		default:
			return NoMove, fmt.Errorf("invalid SAN %q", orig)
		}
	}

	for _, m := range LegalMoves(pos) {
		if m.To != dest {
			continue
		}
		pc, _ := pos.pieceAt(m.From)
		if pc.Type != pt {
			continue
		}
		if fileHint >= 0 && m.From.Col() != fileHint {
			continue
		}
		if rankHint >= 0 && m.From.Rank() != rankHint {
			continue
		}
		if capture && !isCapture(pos, pc, m) {
			continue
		}
		if m.IsPromotion() && m.Promotion != promo && !(promo == NoPieceType && m.Promotion == Queen) {
			continue
		}
		return m, nil
	}
	return NoMove, &MoveError{Kind: MoveIllegalPattern, From: NoSquare, To: dest, Detail: "no legal move matches " + orig}
}

func findLegal(pos *Position, san string, from, to Square) (Move, error) {
	if pc, ok := pos.pieceAt(from); !ok || pc.Type != King || !IsLegal(pos, from, to) {
		return NoMove, &MoveError{Kind: MoveIllegalCastle, From: from, To: to, Detail: san}
	}
	return Move{From: from, To: to}, nil
}

// MovesToSAN converts a sequence of legal moves played from pos to SAN.
// pos is not modified.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Clone()
	for i, m := range moves {
		result[i] = SAN(p, m)
		MakeMove(p, m)
	}
	return result
}
