package board

// rule decides whether pc may move from->to on p, ignoring king safety.
// The destination is already known not to hold a friendly piece.
type rule func(p *Position, pc Piece, from, to Square) bool

// rules is the dispatch table keyed by piece type.
var rules = [...]rule{
	Pawn:   pawnRule,
	Knight: knightRule,
	Bishop: sliderRule,
	Rook:   sliderRule,
	Queen:  sliderRule,
	King:   kingRule,
}

// IsPseudoLegal reports whether the piece on from may move to to by its
// movement rules. It does not consider whether the mover's own king would be
// left in check, nor whose turn it is.
func IsPseudoLegal(p *Position, from, to Square) bool {
	if !from.IsValid() || !to.IsValid() || from == to {
		return false
	}
	pc, ok := p.pieceAt(from)
	if !ok {
		return false
	}
	if target, ok := p.pieceAt(to); ok && target.Color == pc.Color {
		return false
	}
	return rules[pc.Type](p, pc, from, to)
}

func pawnRule(p *Position, pc Piece, from, to Square) bool {
	dr, dc := delta(from, to)
	dir := pc.Color.forward()
	occupied := p.cells[to].occupied

	switch {
	case dc == 0 && dr == dir:
		return !occupied
	case dc == 0 && dr == 2*dir:
		if pc.Moved || from.Row() != pc.Color.pawnRow() || occupied {
			return false
		}
		return !p.cells[square(from.Row()+dir, from.Col())].occupied
	case abs(dc) == 1 && dr == dir:
		if occupied {
			return true
		}
		return enPassantVictim(p, pc, from, to) != NoSquare
	}
	return false
}

// enPassantVictim returns the square of the pawn captured if pc plays the
// diagonal move from->to onto an empty square, or NoSquare if no en passant
// capture is available.
func enPassantVictim(p *Position, pc Piece, from, to Square) Square {
	if p.enPassant == NoSquare || to != p.enPassant {
		return NoSquare
	}
	sq := square(from.Row(), to.Col())
	victim, ok := p.pieceAt(sq)
	if !ok || victim.Type != Pawn || victim.Color == pc.Color || !victim.EnPassant {
		return NoSquare
	}
	return sq
}

func knightRule(_ *Position, _ Piece, from, to Square) bool {
	return isKnightJump(delta(from, to))
}

func sliderRule(p *Position, pc Piece, from, to Square) bool {
	dr, dc := delta(from, to)
	return slides(pc.Type, dr, dc) && pathClear(p, from, to)
}

func kingRule(p *Position, pc Piece, from, to Square) bool {
	dr, dc := delta(from, to)
	if isKingStep(dr, dc) {
		return true
	}
	if dr == 0 && abs(dc) == 2 {
		return canCastle(p, pc, from, to)
	}
	return false
}

// canCastle checks every castling precondition for the king move from->to.
func canCastle(p *Position, king Piece, from, to Square) bool {
	side := KingSide
	if to.Col() < from.Col() {
		side = QueenSide
	}
	us := king.Color

	if !p.castling.CanCastle(us, side) || king.Moved || from != kingHome(us) {
		return false
	}

	rookSq := rookHome(us, side)
	rook, ok := p.pieceAt(rookSq)
	if !ok || rook.Type != Rook || rook.Color != us || rook.Moved || rook.Side != side {
		return false
	}
	if !pathClear(p, from, rookSq) {
		return false
	}

	// The king may not castle out of, through, or into check.
	them := us.Other()
	transit := square(from.Row(), (from.Col()+to.Col())/2)
	for _, sq := range [...]Square{from, transit, to} {
		if squareAttacked(p, sq, them) {
			return false
		}
	}
	return true
}
