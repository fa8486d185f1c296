package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forward returns the row step a pawn of this color advances by.
// White moves toward row 0 (the eighth rank).
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// homeRow returns the row holding this color's king and rooks at the start.
func (c Color) homeRow() int {
	if c == White {
		return 7
	}
	return 0
}

// pawnRow returns the row this color's pawns start on.
func (c Color) pawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

// lastRow returns the row on which this color's pawns promote.
func (c Color) lastRow() int {
	if c == White {
		return 0
	}
	return 7
}

// PieceType represents the type of a chess piece.
// The zero value marks an empty slot.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt > King {
		return ' '
	}
	return " pnbrqk"[pt]
}

// CanPromoteTo reports whether a pawn may promote to this piece type.
func (pt PieceType) CanPromoteTo() bool {
	return pt == Knight || pt == Bishop || pt == Rook || pt == Queen
}

// PromotionFromChar maps a lowercase or uppercase promotion letter to a piece type.
func PromotionFromChar(c byte) (PieceType, bool) {
	switch c {
	case 'q', 'Q':
		return Queen, true
	case 'r', 'R':
		return Rook, true
	case 'b', 'B':
		return Bishop, true
	case 'n', 'N':
		return Knight, true
	}
	return NoPieceType, false
}

// promotionPieces lists promotion choices in the order moves are generated.
var promotionPieces = [...]PieceType{Queen, Rook, Bishop, Knight}

// CastleSide names the wing a rook started on.
type CastleSide uint8

const (
	NoSide CastleSide = iota
	KingSide
	QueenSide
)

// String returns the wing name.
func (s CastleSide) String() string {
	switch s {
	case KingSide:
		return "king-side"
	case QueenSide:
		return "queen-side"
	default:
		return "none"
	}
}

// Piece is a closed variant over the six piece types. All type-specific
// state lives in the value itself; the Position owns every Piece and pieces
// never refer back to it.
type Piece struct {
	Type   PieceType
	Color  Color
	Square Square

	// Moved is tracked for pawns (double push), rooks and kings (castling).
	Moved bool
	// EnPassant is set on a pawn only for the ply right after its double push.
	EnPassant bool
	// Side records the corner a rook started on.
	Side CastleSide
}

// IsZero reports whether p is the empty slot value.
func (p Piece) IsZero() bool {
	return p.Type == NoPieceType
}

// Char returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) Char() byte {
	c := p.Type.Char()
	if p.Color == White && c != ' ' {
		c -= 'a' - 'A'
	}
	return c
}

// String returns the FEN character for the piece.
func (p Piece) String() string {
	return string(p.Char())
}

// pieceFromChar converts a FEN character to a piece type and color.
func pieceFromChar(c byte) (PieceType, Color, bool) {
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
		c += 'a' - 'A'
	}
	switch c {
	case 'p':
		return Pawn, color, true
	case 'n':
		return Knight, color, true
	case 'b':
		return Bishop, color, true
	case 'r':
		return Rook, color, true
	case 'q':
		return Queen, color, true
	case 'k':
		return King, color, true
	}
	return NoPieceType, NoColor, false
}
