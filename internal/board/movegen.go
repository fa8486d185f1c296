package board

// LegalMoves returns every legal move for the side to move. A pawn move to
// the last rank appears once per promotion piece.
func LegalMoves(p *Position) []Move {
	moves := make([]Move, 0, 48)
	forEachLegal(p, func(m Move) bool {
		moves = append(moves, m)
		return true
	})
	return moves
}

// HasLegalMoves returns true if the side to move has any legal move.
func HasLegalMoves(p *Position) bool {
	found := false
	forEachLegal(p, func(Move) bool {
		found = true
		return false
	})
	return found
}

// IsLegal reports whether from->to is legal for the side to move.
func IsLegal(p *Position, from, to Square) bool {
	pc, ok := p.PieceAt(from)
	if !ok || pc.Color != p.sideToMove {
		return false
	}
	return IsPseudoLegal(p, from, to) && !WouldLeaveKingInCheck(p, from, to, pc.Color)
}

// forEachLegal tries every destination square for every piece of the side
// to move and passes each legal move to yield until yield returns false.
func forEachLegal(p *Position, yield func(Move) bool) {
	us := p.sideToMove
	for from := Square(0); from < NoSquare; from++ {
		pc, ok := p.pieceAt(from)
		if !ok || pc.Color != us {
			continue
		}
		for to := Square(0); to < NoSquare; to++ {
			if !IsPseudoLegal(p, from, to) || WouldLeaveKingInCheck(p, from, to, us) {
				continue
			}
			if pc.Type == Pawn && to.Row() == us.lastRow() {
				for _, promo := range promotionPieces {
					if !yield(Move{From: from, To: to, Promotion: promo}) {
						return
					}
				}
				continue
			}
			if !yield(Move{From: from, To: to}) {
				return
			}
		}
	}
}
