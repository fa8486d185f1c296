package board

// occupancy is the read-only view the movement geometry works against.
// Both the real Position and a hypothetical-move overlay implement it.
type occupancy interface {
	pieceAt(sq Square) (Piece, bool)
	kingSquare(c Color) Square
}

// overlay answers board queries as if one move had been played, without
// touching the underlying Position. It covers the mover's displacement, the
// pawn removed by an en passant capture and the rook that moves when castling.
type overlay struct {
	base *Position

	from, to Square
	mover    Piece

	victim Square // en passant capture square, NoSquare otherwise

	rookFrom, rookTo Square // NoSquare unless castling
	rook             Piece
}

// newOverlay describes the move from->to on p. The move must start on an
// occupied square; it is not checked for legality.
func newOverlay(p *Position, from, to Square) overlay {
	o := overlay{
		base:     p,
		from:     from,
		to:       to,
		mover:    p.pieces[from],
		victim:   NoSquare,
		rookFrom: NoSquare,
		rookTo:   NoSquare,
	}
	o.mover.Square = to

	_, dc := delta(from, to)
	switch o.mover.Type {
	case Pawn:
		if dc != 0 && !p.cells[to].occupied {
			o.victim = square(from.Row(), to.Col())
		}
	case King:
		if abs(dc) == 2 {
			side := KingSide
			if dc < 0 {
				side = QueenSide
			}
			o.rookFrom = rookHome(o.mover.Color, side)
			o.rookTo = square(from.Row(), from.Col()+sign(dc))
			o.rook = p.pieces[o.rookFrom]
			o.rook.Square = o.rookTo
		}
	}
	return o
}

func (o *overlay) pieceAt(sq Square) (Piece, bool) {
	switch sq {
	case o.to:
		return o.mover, true
	case o.rookTo:
		return o.rook, o.rook.Type != NoPieceType
	case o.from, o.victim, o.rookFrom:
		return Piece{}, false
	}
	return o.base.pieceAt(sq)
}

func (o *overlay) kingSquare(c Color) Square {
	if o.mover.Type == King && o.mover.Color == c {
		return o.to
	}
	return o.base.kings[c]
}
