package board

func isKnightJump(dr, dc int) bool {
	adr, adc := abs(dr), abs(dc)
	return (adr == 1 && adc == 2) || (adr == 2 && adc == 1)
}

func isKingStep(dr, dc int) bool {
	return abs(dr) <= 1 && abs(dc) <= 1 && (dr != 0 || dc != 0)
}

func isDiagonal(dr, dc int) bool {
	return dr != 0 && abs(dr) == abs(dc)
}

func isStraight(dr, dc int) bool {
	return (dr == 0) != (dc == 0)
}

// slides reports whether a sliding piece type moves along the given displacement.
func slides(pt PieceType, dr, dc int) bool {
	switch pt {
	case Bishop:
		return isDiagonal(dr, dc)
	case Rook:
		return isStraight(dr, dc)
	case Queen:
		return isDiagonal(dr, dc) || isStraight(dr, dc)
	}
	return false
}

// pathClear reports whether every square strictly between from and to is
// empty. from and to must share a rank, file or diagonal.
func pathClear(v occupancy, from, to Square) bool {
	dr, dc := delta(from, to)
	stepR, stepC := sign(dr), sign(dc)
	row, col := from.Row()+stepR, from.Col()+stepC
	for row != to.Row() || col != to.Col() {
		if _, ok := v.pieceAt(square(row, col)); ok {
			return false
		}
		row += stepR
		col += stepC
	}
	return true
}

// canAttack reports whether pc standing on from attacks target. Whose turn
// it is plays no part, and pawns attack only diagonally.
func canAttack(v occupancy, pc Piece, from, target Square) bool {
	dr, dc := delta(from, target)
	switch pc.Type {
	case Pawn:
		return dr == pc.Color.forward() && abs(dc) == 1
	case Knight:
		return isKnightJump(dr, dc)
	case King:
		return isKingStep(dr, dc)
	case Bishop, Rook, Queen:
		return slides(pc.Type, dr, dc) && pathClear(v, from, target)
	}
	return false
}

func squareAttacked(v occupancy, target Square, by Color) bool {
	if !target.IsValid() {
		return false
	}
	for sq := Square(0); sq < NoSquare; sq++ {
		pc, ok := v.pieceAt(sq)
		if !ok || pc.Color != by {
			continue
		}
		if canAttack(v, pc, sq, target) {
			return true
		}
	}
	return false
}

// IsSquareAttacked returns true if any piece of color by attacks sq.
func IsSquareAttacked(p *Position, sq Square, by Color) bool {
	return squareAttacked(p, sq, by)
}

// InCheck returns true if the side to move is in check.
func InCheck(p *Position) bool {
	us := p.sideToMove
	return squareAttacked(p, p.kings[us], us.Other())
}

// WouldLeaveKingInCheck reports whether playing from->to would leave the
// mover's king attacked. The position is not modified.
func WouldLeaveKingInCheck(p *Position, from, to Square, mover Color) bool {
	if !from.IsValid() || !to.IsValid() || p.pieces[from].Type == NoPieceType {
		return false
	}
	o := newOverlay(p, from, to)
	king := o.kingSquare(mover)
	if king == NoSquare {
		return false
	}
	return squareAttacked(&o, king, mover.Other())
}
