package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// castlingRight returns the single flag for a color and wing.
func castlingRight(c Color, side CastleSide) CastlingRights {
	switch {
	case c == White && side == KingSide:
		return WhiteKingSideCastle
	case c == White && side == QueenSide:
		return WhiteQueenSideCastle
	case c == Black && side == KingSide:
		return BlackKingSideCastle
	case c == Black && side == QueenSide:
		return BlackQueenSideCastle
	}
	return NoCastling
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side still holds the right to castle on that wing.
func (cr CastlingRights) CanCastle(c Color, side CastleSide) bool {
	right := castlingRight(c, side)
	return right != NoCastling && cr&right != 0
}

// rookHome returns the corner a color's rook starts on for the given wing.
func rookHome(c Color, side CastleSide) Square {
	if side == KingSide {
		return square(c.homeRow(), 7)
	}
	return square(c.homeRow(), 0)
}

// kingHome returns the square a color's king starts on.
func kingHome(c Color) Square {
	return square(c.homeRow(), 4)
}

// cornerSide reports which castling wing a home corner belongs to.
func cornerSide(sq Square) (Color, CastleSide, bool) {
	for _, c := range [...]Color{White, Black} {
		switch sq {
		case rookHome(c, KingSide):
			return c, KingSide, true
		case rookHome(c, QueenSide):
			return c, QueenSide, true
		}
	}
	return NoColor, NoSide, false
}

// Cell is the per-square record: a fixed display shade and the occupancy flag.
type Cell struct {
	Square   Square
	Shade    Color
	occupied bool
}

// Occupied reports whether a piece stands on the cell.
func (c Cell) Occupied() bool {
	return c.occupied
}

// Position represents a complete chess position.
//
// A Position is not safe for concurrent mutation. It is changed only by
// MakeMove and TryMove; Clone produces an independent copy.
type Position struct {
	cells  [64]Cell
	pieces [64]Piece

	sideToMove Color
	castling   CastlingRights
	enPassant  Square // target square behind a pawn that just advanced two, NoSquare if none
	halfMove   int    // plies since last pawn move or capture
	fullMove   int    // starts at 1, incremented after Black moves

	// King squares, refreshed whenever a king is placed or moved.
	kings [2]Square
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// newEmptyPosition returns a board with no pieces and White to move.
func newEmptyPosition() *Position {
	p := &Position{
		enPassant: NoSquare,
		fullMove:  1,
		kings:     [2]Square{NoSquare, NoSquare},
	}
	for sq := Square(0); sq < NoSquare; sq++ {
		p.cells[sq] = Cell{Square: sq, Shade: sq.Shade()}
	}
	return p
}

// Clone returns an independent copy of the position.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// put places a piece on an empty square. Together with take it is the only
// code that writes the piece grid or the occupancy flags.
func (p *Position) put(pc Piece, sq Square) {
	pc.Square = sq
	p.pieces[sq] = pc
	p.cells[sq].occupied = true
	if pc.Type == King {
		p.kings[pc.Color] = sq
	}
}

// take removes and returns the piece on sq.
func (p *Position) take(sq Square) Piece {
	pc := p.pieces[sq]
	p.pieces[sq] = Piece{}
	p.cells[sq].occupied = false
	if pc.Type == King && p.kings[pc.Color] == sq {
		p.kings[pc.Color] = NoSquare
	}
	return pc
}

// pieceAt implements occupancy.
func (p *Position) pieceAt(sq Square) (Piece, bool) {
	pc := p.pieces[sq]
	return pc, pc.Type != NoPieceType
}

// kingSquare implements occupancy.
func (p *Position) kingSquare(c Color) Square {
	return p.kings[c]
}

// At returns the piece at the given coordinates, if any.
func (p *Position) At(row, col int) (Piece, bool, error) {
	sq, err := NewSquare(row, col)
	if err != nil {
		return Piece{}, false, err
	}
	pc, ok := p.pieceAt(sq)
	return pc, ok, nil
}

// IsOccupied reports whether the square at the given coordinates holds a piece.
func (p *Position) IsOccupied(row, col int) (bool, error) {
	sq, err := NewSquare(row, col)
	if err != nil {
		return false, err
	}
	return p.cells[sq].occupied, nil
}

// Cell returns the cell record at the given coordinates.
func (p *Position) Cell(row, col int) (Cell, error) {
	sq, err := NewSquare(row, col)
	if err != nil {
		return Cell{}, err
	}
	return p.cells[sq], nil
}

// PieceAt returns the piece on sq. It returns false for empty or invalid squares.
func (p *Position) PieceAt(sq Square) (Piece, bool) {
	if !sq.IsValid() {
		return Piece{}, false
	}
	return p.pieceAt(sq)
}

// Pieces returns the pieces of one color in square order.
func (p *Position) Pieces(c Color) []Piece {
	var out []Piece
	for sq := Square(0); sq < NoSquare; sq++ {
		if pc, ok := p.pieceAt(sq); ok && pc.Color == c {
			out = append(out, pc)
		}
	}
	return out
}

// KingSquare returns the square of the given color's king, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	return p.kings[c]
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	return p.sideToMove
}

// Castling returns the remaining castling rights.
func (p *Position) Castling() CastlingRights {
	return p.castling
}

// EnPassantTarget returns the en passant target square, or NoSquare.
func (p *Position) EnPassantTarget() Square {
	return p.enPassant
}

// HalfMoveClock returns the number of plies since the last capture or pawn move.
func (p *Position) HalfMoveClock() int {
	return p.halfMove
}

// FullMoveNumber returns the full-move counter.
func (p *Position) FullMoveNumber() int {
	return p.fullMove
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for col := 0; col < 8; col++ {
			if pc, ok := p.pieceAt(square(row, col)); ok {
				sb.WriteString(pc.String() + " ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.halfMove)
	fmt.Fprintf(&sb, "Full move: %d\n", p.fullMove)
	return sb.String()
}

// Validate checks that the position could arise in a game.
func (p *Position) Validate() error {
	var kings [2]int
	for sq := Square(0); sq < NoSquare; sq++ {
		pc, ok := p.pieceAt(sq)
		if !ok {
			continue
		}
		switch {
		case pc.Type == King:
			kings[pc.Color]++
		case pc.Type == Pawn && (sq.Row() == 0 || sq.Row() == 7):
			return fmt.Errorf("pawn on %s cannot stand on the first or eighth rank", sq)
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king, has %d", kings[White])
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king, has %d", kings[Black])
	}

	them := p.sideToMove.Other()
	if IsSquareAttacked(p, p.kings[them], p.sideToMove) {
		return fmt.Errorf("%s king is in check but it is %s to move", them, p.sideToMove)
	}

	return nil
}
