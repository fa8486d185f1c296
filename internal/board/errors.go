package board

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	ErrIllegalMove = errors.New("illegal move")
)

// CoordinateError reports a row or column outside 0-7.
type CoordinateError struct {
	Row, Col int
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("coordinate (%d, %d) out of bounds", e.Row, e.Col)
}

func (e *CoordinateError) Unwrap() error { return ErrOutOfBounds }

// FENField identifies the part of a FEN string that failed validation.
type FENField uint8

const (
	FieldLength FENField = iota
	FieldLayout
	FieldPlacement
	FieldActiveColor
	FieldCastling
	FieldEnPassant
	FieldHalfMoveClock
	FieldFullMoveNumber
)

func (f FENField) String() string {
	switch f {
	case FieldLength:
		return "length"
	case FieldLayout:
		return "layout"
	case FieldPlacement:
		return "piece placement"
	case FieldActiveColor:
		return "active color"
	case FieldCastling:
		return "castling rights"
	case FieldEnPassant:
		return "en passant target"
	case FieldHalfMoveClock:
		return "half-move clock"
	case FieldFullMoveNumber:
		return "full-move number"
	default:
		return "unknown"
	}
}

// FENError describes a structural or grammar violation found while decoding.
type FENError struct {
	Field  FENField
	Value  string
	Reason string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid FEN %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FENError) Unwrap() error { return ErrInvalidFEN }

func fenError(field FENField, value, format string, args ...any) *FENError {
	return &FENError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// MoveErrorKind classifies why a move was rejected.
type MoveErrorKind uint8

const (
	MoveOffBoard MoveErrorKind = iota
	MoveNoPiece
	MoveWrongTurn
	MoveNull
	MoveIllegalPattern
	MovePathBlocked
	MoveFriendlyCapture
	MoveLeavesKingInCheck
	MoveIllegalEnPassant
	MoveIllegalCastle
	MoveBadPromotion
)

func (k MoveErrorKind) String() string {
	switch k {
	case MoveOffBoard:
		return "square off the board"
	case MoveNoPiece:
		return "no piece on source square"
	case MoveWrongTurn:
		return "not this side's turn"
	case MoveNull:
		return "source equals destination"
	case MoveIllegalPattern:
		return "piece cannot move that way"
	case MovePathBlocked:
		return "path is blocked"
	case MoveFriendlyCapture:
		return "cannot capture own piece"
	case MoveLeavesKingInCheck:
		return "king would be in check"
	case MoveIllegalEnPassant:
		return "en passant not available"
	case MoveIllegalCastle:
		return "castling not allowed"
	case MoveBadPromotion:
		return "invalid promotion piece"
	default:
		return "unknown"
	}
}

// MoveError is returned for every rejected move. The position is never
// modified when a MoveError is returned.
type MoveError struct {
	Kind     MoveErrorKind
	From, To Square
	// Detail refines Kind for display, e.g. "must escape check".
	Detail string
}

func (e *MoveError) Error() string {
	msg := fmt.Sprintf("illegal move %s%s: %s", e.From, e.To, e.Kind)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *MoveError) Unwrap() error { return ErrIllegalMove }
