package board

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// DefaultMaxHalfMoves is the largest half-move clock ParseFEN accepts.
const DefaultMaxHalfMoves = 200

// Bounds on the length of a FEN string.
const (
	minFENLength = 19
	maxFENLength = 100
)

// ParseFEN parses a FEN string and returns a Position.
// On failure it returns a *FENError and no Position.
func ParseFEN(fen string) (*Position, error) {
	return ParseFENWithLimit(fen, DefaultMaxHalfMoves)
}

// ParseFENWithLimit is ParseFEN with a custom ceiling on the half-move clock.
func ParseFENWithLimit(fen string, maxHalfMoves int) (*Position, error) {
	if n := len(fen); n < minFENLength || n > maxFENLength {
		return nil, fenError(FieldLength, fen, "length %d outside [%d, %d]", n, minFENLength, maxFENLength)
	}

	parts := strings.Split(fen, " ")
	if len(parts) != 6 {
		return nil, fenError(FieldLayout, fen, "need 6 space-separated fields, got %d", len(parts))
	}

	pos := newEmptyPosition()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.sideToMove = White
	case "b":
		pos.sideToMove = Black
	default:
		return nil, fenError(FieldActiveColor, parts[1], "must be w or b")
	}

	cr, err := parseCastlingRights(parts[2])
	if err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fenError(FieldEnPassant, parts[3], "not a square")
		}
		// The target sits behind a pawn of the side that just moved.
		if sq.Row() != pos.sideToMove.Other().pawnRow()+pos.sideToMove.Other().forward() {
			return nil, fenError(FieldEnPassant, parts[3], "wrong rank for %s to move", pos.sideToMove)
		}
		pos.enPassant = sq
	}

	halfMove, err := parseCounter(FieldHalfMoveClock, parts[4])
	if err != nil {
		return nil, err
	}
	if halfMove > maxHalfMoves {
		return nil, fenError(FieldHalfMoveClock, parts[4], "exceeds limit %d", maxHalfMoves)
	}
	pos.halfMove = halfMove

	fullMove, err := parseCounter(FieldFullMoveNumber, parts[5])
	if err != nil {
		return nil, err
	}
	pos.fullMove = fullMove

	pos.deriveState(cr)
	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fenError(FieldPlacement, placement, "need 8 ranks, got %d", len(ranks))
	}

	var kings [2]int
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				if col > 8 {
					return fenError(FieldPlacement, rank, "rank %d spans more than 8 files", 8-row)
				}
				continue
			}

			pt, color, ok := pieceFromChar(c)
			if !ok {
				return fenError(FieldPlacement, rank, "invalid piece character %q", c)
			}
			if col >= 8 {
				return fenError(FieldPlacement, rank, "rank %d spans more than 8 files", 8-row)
			}
			if pt == King {
				kings[color]++
				if kings[color] > 1 {
					return fenError(FieldPlacement, placement, "more than one %s king", color)
				}
			}
			pos.put(Piece{Type: pt, Color: color}, square(row, col))
			col++
		}
		if col != 8 {
			return fenError(FieldPlacement, rank, "rank %d covers %d files, want 8", 8-row, col)
		}
	}
	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(s string) (CastlingRights, error) {
	if s == "-" {
		return NoCastling, nil
	}
	if s == "" {
		return NoCastling, fenError(FieldCastling, s, "empty")
	}

	cr := NoCastling
	for i := 0; i < len(s); i++ {
		var right CastlingRights
		switch s[i] {
		case 'K':
			right = WhiteKingSideCastle
		case 'Q':
			right = WhiteQueenSideCastle
		case 'k':
			right = BlackKingSideCastle
		case 'q':
			right = BlackQueenSideCastle
		default:
			return NoCastling, fenError(FieldCastling, s, "invalid character %q", s[i])
		}
		if cr&right != 0 {
			return NoCastling, fenError(FieldCastling, s, "duplicate %q", s[i])
		}
		cr |= right
	}
	return cr, nil
}

// parseCounter parses a non-negative decimal field.
func parseCounter(field FENField, s string) (int, error) {
	if s == "" {
		return 0, fenError(field, s, "empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fenError(field, s, "not a number")
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fenError(field, s, "out of range")
	}
	return n, nil
}

// deriveState fills in the per-piece flags FEN leaves implicit. Castling
// rights survive only where king and rook still stand on their home squares.
func (p *Position) deriveState(cr CastlingRights) {
	for _, c := range [...]Color{White, Black} {
		king, ok := p.pieceAt(kingHome(c))
		homeKing := ok && king.Type == King && king.Color == c
		for _, side := range [...]CastleSide{KingSide, QueenSide} {
			rook, ok := p.pieceAt(rookHome(c, side))
			if !homeKing || !ok || rook.Type != Rook || rook.Color != c {
				cr &^= castlingRight(c, side)
			}
		}
	}
	p.castling = cr

	for sq := Square(0); sq < NoSquare; sq++ {
		pc, ok := p.pieceAt(sq)
		if !ok {
			continue
		}
		switch pc.Type {
		case Pawn:
			pc.Moved = sq.Row() != pc.Color.pawnRow()
		case King:
			pc.Moved = sq != kingHome(pc.Color) ||
				!cr.CanCastle(pc.Color, KingSide) && !cr.CanCastle(pc.Color, QueenSide)
		case Rook:
			pc.Moved = true
			if c, side, ok := cornerSide(sq); ok && c == pc.Color {
				pc.Side = side
				pc.Moved = !cr.CanCastle(c, side)
			}
		}
		p.pieces[sq] = pc
	}

	// Only the pawn that just made the double push may be taken en passant.
	if p.enPassant != NoSquare {
		them := p.sideToMove.Other()
		if sq, ok := p.enPassant.offset(them.forward(), 0); ok {
			if pc, ok := p.pieceAt(sq); ok && pc.Type == Pawn && pc.Color == them {
				p.pieces[sq].EnPassant = true
			}
		}
	}
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			pc, ok := p.pieceAt(square(row, col))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())

	sb.WriteByte(' ')
	sb.WriteString(p.enPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfMove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullMove))

	return sb.String()
}
