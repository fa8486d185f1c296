package board

// GameStatus is the outcome of a move attempt, seen from the side now to move.
type GameStatus uint8

const (
	StatusInvalid GameStatus = iota
	StatusContinue
	StatusCheck
	StatusCheckmate
	StatusDraw
)

func (s GameStatus) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusContinue:
		return "continue"
	case StatusCheck:
		return "check"
	case StatusCheckmate:
		return "checkmate"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further moves may be played.
func (s GameStatus) IsTerminal() bool {
	return s == StatusCheckmate || s == StatusDraw
}

// Half-move clock thresholds, in plies.
const (
	fiftyMovePlies       = 100
	seventyFiveMovePlies = 150
)

// IsCheckmate returns true if the side to move is in check and has no legal move.
func IsCheckmate(p *Position) bool {
	return InCheck(p) && !HasLegalMoves(p)
}

// IsStalemate returns true if the side to move is not in check and has no legal move.
func IsStalemate(p *Position) bool {
	return !InCheck(p) && !HasLegalMoves(p)
}

// Status classifies the position for the side to move. Checkmate takes
// precedence over a draw, and a draw over a plain check.
func Status(p *Position) GameStatus {
	check := InCheck(p)
	if !HasLegalMoves(p) {
		if check {
			return StatusCheckmate
		}
		return StatusDraw
	}
	if InsufficientMaterial(p) || p.halfMove >= seventyFiveMovePlies {
		return StatusDraw
	}
	if check {
		return StatusCheck
	}
	return StatusContinue
}

// FiftyMoveClaimable returns true once fifty moves by each side have passed
// without a capture or pawn move. The draw must be claimed; Status does not
// report it.
func FiftyMoveClaimable(p *Position) bool {
	return p.halfMove >= fiftyMovePlies
}

// InsufficientMaterial returns true if neither side can possibly mate:
// king against king, or king and a single minor piece against a lone king.
func InsufficientMaterial(p *Position) bool {
	minors := 0
	for sq := Square(0); sq < NoSquare; sq++ {
		pc, ok := p.pieceAt(sq)
		if !ok {
			continue
		}
		switch pc.Type {
		case King:
		case Knight, Bishop:
			minors++
		default:
			return false
		}
	}
	return minors <= 1
}
