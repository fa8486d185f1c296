// Package board implements the chess position model, the movement rules,
// check detection, move execution and the FEN codec.
package board

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Square identifies one of the 64 squares of the board.
// Row 0 is the eighth rank and column 0 is the a-file, the order in which
// FEN lists the board. Row/column indices never leave this package; callers
// use algebraic notation (ParseSquare, String).
type Square uint8

// Square constants for all 64 squares, in FEN order.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// NewSquare returns the square at the given row and column.
// It fails with a *CoordinateError if either index is outside 0-7.
func NewSquare(row, col int) (Square, error) {
	if !onBoard(row, col) {
		return NoSquare, &CoordinateError{Row: row, Col: col}
	}
	return square(row, col), nil
}

// square builds a square from coordinates already known to be on the board.
func square(row, col int) Square {
	return Square(row*8 + col)
}

func onBoard(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// Row returns the row index (0 = eighth rank).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the column index (0 = a-file).
func (sq Square) Col() int {
	return int(sq) & 7
}

// Rank returns the chess rank, 1 through 8.
func (sq Square) Rank() int {
	return 8 - sq.Row()
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Shade returns the fixed display color of the square.
// a8 (row 0, column 0) is a light square.
func (sq Square) Shade() Color {
	if (sq.Row()+sq.Col())%2 == 0 {
		return White
	}
	return Black
}

// offset returns the square dr rows and dc columns away, if it is on the board.
func (sq Square) offset(dr, dc int) (Square, bool) {
	row, col := sq.Row()+dr, sq.Col()+dc
	if !onBoard(row, col) {
		return NoSquare, false
	}
	return square(row, col), true
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col(), '0'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}

	col := int(s[0]) - 'a'
	rank := int(s[1]) - '0'
	if col < 0 || col > 7 || rank < 1 || rank > 8 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}

	return square(8-rank, col), nil
}

// delta returns the row and column displacement from one square to another.
func delta(from, to Square) (dr, dc int) {
	return to.Row() - from.Row(), to.Col() - from.Col()
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func sign[T constraints.Signed](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
