package board

// TryMove validates the move from->to for the side to move and, if it is
// legal, applies it and returns the status of the resulting position.
// promo selects the promotion piece; NoPieceType means Queen.
//
// A rejected move returns StatusInvalid and a *MoveError, and leaves p
// untouched.
func TryMove(p *Position, from, to Square, promo PieceType) (GameStatus, error) {
	if err := validateMove(p, from, to, promo); err != nil {
		return StatusInvalid, err
	}
	MakeMove(p, Move{From: from, To: to, Promotion: promo})
	return Status(p), nil
}

// Apply is TryMove for a Move value.
func Apply(p *Position, m Move) (GameStatus, error) {
	return TryMove(p, m.From, m.To, m.Promotion)
}

// ApplyUCI parses a UCI move string (e.g. "e7e8n") and applies it.
func ApplyUCI(p *Position, s string) (GameStatus, error) {
	m, err := ParseMove(s)
	if err != nil {
		return StatusInvalid, err
	}
	return Apply(p, m)
}

func validateMove(p *Position, from, to Square, promo PieceType) error {
	if !from.IsValid() || !to.IsValid() {
		return &MoveError{Kind: MoveOffBoard, From: from, To: to}
	}
	pc, ok := p.pieceAt(from)
	if !ok {
		return &MoveError{Kind: MoveNoPiece, From: from, To: to}
	}
	if pc.Color != p.sideToMove {
		return &MoveError{Kind: MoveWrongTurn, From: from, To: to, Detail: p.sideToMove.String() + " to move"}
	}
	if from == to {
		return &MoveError{Kind: MoveNull, From: from, To: to}
	}
	if promo != NoPieceType && !promo.CanPromoteTo() {
		return &MoveError{Kind: MoveBadPromotion, From: from, To: to, Detail: promo.String()}
	}
	if !IsPseudoLegal(p, from, to) {
		return &MoveError{Kind: rejection(p, pc, from, to), From: from, To: to}
	}
	if WouldLeaveKingInCheck(p, from, to, pc.Color) {
		detail := "cannot self-check"
		if InCheck(p) {
			detail = "must escape check"
		}
		return &MoveError{Kind: MoveLeavesKingInCheck, From: from, To: to, Detail: detail}
	}
	return nil
}

// rejection classifies a move that failed IsPseudoLegal.
func rejection(p *Position, pc Piece, from, to Square) MoveErrorKind {
	dr, dc := delta(from, to)
	// A two-square king step is a castling attempt whatever stands on the
	// destination.
	if pc.Type == King && dr == 0 && abs(dc) == 2 {
		return MoveIllegalCastle
	}
	if target, ok := p.pieceAt(to); ok && target.Color == pc.Color {
		return MoveFriendlyCapture
	}

	switch pc.Type {
	case Pawn:
		dir := pc.Color.forward()
		switch {
		case abs(dc) == 1 && dr == dir:
			return MoveIllegalEnPassant
		case dc == 0 && dr == dir:
			return MovePathBlocked
		case dc == 0 && dr == 2*dir && !pc.Moved && from.Row() == pc.Color.pawnRow():
			return MovePathBlocked
		}
	case Bishop, Rook, Queen:
		if slides(pc.Type, dr, dc) {
			return MovePathBlocked
		}
	}
	return MoveIllegalPattern
}

// MakeMove applies m to p without validating it. m must be legal in p, as
// returned by LegalMoves; TryMove is the checked entry point.
func MakeMove(p *Position, m Move) {
	from, to := m.From, m.To
	mover := p.pieces[from]
	us := mover.Color
	pawnMove := mover.Type == Pawn
	dr, dc := delta(from, to)

	victim := NoSquare
	if mover.Type == Pawn && dc != 0 && !p.cells[to].occupied {
		victim = enPassantVictim(p, mover, from, to)
	}

	// The previous double push loses its en passant window now.
	p.clearEnPassant()

	captured := false
	if victim != NoSquare {
		p.take(victim)
		captured = true
	}
	if p.cells[to].occupied {
		p.take(to)
		captured = true
		if c, side, ok := cornerSide(to); ok {
			p.castling &^= castlingRight(c, side)
		}
	}

	p.take(from)
	mover.Moved = true

	switch mover.Type {
	case King:
		p.castling &^= castlingRight(us, KingSide) | castlingRight(us, QueenSide)
		if abs(dc) == 2 {
			side := KingSide
			if dc < 0 {
				side = QueenSide
			}
			rook := p.take(rookHome(us, side))
			rook.Moved = true
			p.put(rook, square(from.Row(), from.Col()+sign(dc)))
		}
	case Rook:
		if c, side, ok := cornerSide(from); ok && c == us {
			p.castling &^= castlingRight(us, side)
		}
	case Pawn:
		if abs(dr) == 2 {
			mover.EnPassant = true
			p.enPassant = square(from.Row()+us.forward(), from.Col())
		}
		if to.Row() == us.lastRow() {
			promo := m.Promotion
			if promo == NoPieceType {
				promo = Queen
			}
			mover = Piece{Type: promo, Color: us, Moved: true}
		}
	}

	p.put(mover, to)

	if pawnMove || captured {
		p.halfMove = 0
	} else {
		p.halfMove++
	}
	if us == Black {
		p.fullMove++
	}
	p.sideToMove = us.Other()
}

// clearEnPassant closes the en passant window opened by the previous ply.
func (p *Position) clearEnPassant() {
	if p.enPassant == NoSquare {
		return
	}
	// The pawn that double pushed stands one row past the target square.
	them := p.sideToMove.Other()
	if sq, ok := p.enPassant.offset(them.forward(), 0); ok && p.pieces[sq].Type == Pawn {
		p.pieces[sq].EnPassant = false
	}
	p.enPassant = NoSquare
}
