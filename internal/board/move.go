package board

import (
	"errors"
	"fmt"
	"strings"
)

// Move packs a move into 16 bits:
//
//	bits 0-5:   from square
//	bits 6-11:  to square
//	bits 12-14: promotion piece type + 1 (0 = no promotion)
//
// A Move says nothing about captures, castling or en passant; those are
// derived from the position it is played in.
type Move uint16

// NoMove is the null move. It prints as "0000".
const NoMove Move = 0

// ErrInvalidMove is wrapped by every ParseMove failure.
var ErrInvalidMove = errors.New("invalid move")

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a move that promotes to promo.
func NewPromotion(from, to Square, promo PieceType) Move {
	return NewMove(from, to) | Move(promo+1)<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion piece type, NoPieceType if none.
func (m Move) Promotion() PieceType {
	code := PieceType((m >> 12) & 7)
	if code == 0 {
		return NoPieceType
	}
	return code - 1
}

// IsPromotion reports whether the move carries a promotion.
func (m Move) IsPromotion() bool {
	return m.Promotion() != NoPieceType
}

// IsCapture reports whether m captures in pos, en passant included.
func (m Move) IsCapture(pos Position) bool {
	if !pos.IsEmpty(m.To()) {
		return true
	}
	return m.IsEnPassant(pos)
}

// IsEnPassant reports whether m is an en-passant capture in pos.
func (m Move) IsEnPassant(pos Position) bool {
	return pos.EnPassant != NoSquare && m.To() == pos.EnPassant &&
		pos.PieceAt(m.From()).Type() == Pawn
}

// IsCastling reports whether m is a castling king move in pos.
func (m Move) IsCastling(pos Position) bool {
	if pos.PieceAt(m.From()).Type() != King {
		return false
	}
	d := int(m.To()) - int(m.From())
	return d == 2 || d == -2
}

// String returns the coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if promo := m.Promotion(); promo != NoPieceType {
		s += string(promo.Char())
	}
	return s
}

// ParseMove parses coordinate notation. It needs no position: the result
// is plain from/to/promotion data and may still be illegal.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q: need 4 or 5 characters", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	if len(s) == 4 {
		return NewMove(from, to), nil
	}
	promo, ok := PromotionFromChar(s[4])
	if !ok {
		return NoMove, fmt.Errorf("%w: promotion piece %q", ErrInvalidMove, s[4])
	}
	return NewPromotion(from, to, promo), nil
}

// MoveList is an ordered sequence of moves.
type MoveList []Move

// Contains reports whether m is in the list.
func (ml MoveList) Contains(m Move) bool {
	for _, x := range ml {
		if x == m {
			return true
		}
	}
	return false
}

// Strings returns the coordinate notation of every move.
func (ml MoveList) Strings() []string {
	out := make([]string, len(ml))
	for i, m := range ml {
		out[i] = m.String()
	}
	return out
}

func (ml MoveList) String() string {
	return strings.Join(ml.Strings(), " ")
}
