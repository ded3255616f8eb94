package board

import (
	"errors"
	"fmt"
	"strings"
)

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// CanCastle reports whether c still holds the right on the given wing.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// cornerRight returns the right guarded by a c rook standing on its
// home corner sq, or NoCastling.
func cornerRight(sq Square, c Color) CastlingRights {
	switch {
	case c == White && sq == A1:
		return WhiteQueenSideCastle
	case c == White && sq == H1:
		return WhiteKingSideCastle
	case c == Black && sq == A8:
		return BlackQueenSideCastle
	case c == Black && sq == H8:
		return BlackKingSideCastle
	}
	return NoCastling
}

// Position is an immutable snapshot of a game: the board plus the rule
// metadata needed to generate moves. Apply returns a new Position and
// never modifies the receiver, so a Position can be kept and reused
// freely while searching.
type Position struct {
	squares [64]Piece

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // NoSquare when no en-passant capture is possible
	HalfMoveClock  int
	FullMoveNumber int
}

// EmptyPosition returns a board with no pieces, white to move.
func EmptyPosition() Position {
	p := Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for i := range p.squares {
		p.squares[i] = NoPiece
	}
	return p
}

// StartPosition returns the standard initial position.
func StartPosition() Position {
	p, _ := ParseFEN(StartFEN)
	return p
}

// PieceAt returns the piece on sq, or NoPiece.
func (p Position) PieceAt(sq Square) Piece {
	if sq >= NoSquare {
		return NoPiece
	}
	return p.squares[sq]
}

// IsEmpty reports whether sq holds no piece.
func (p Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq) == NoPiece
}

// WithPiece returns a copy of p with pc placed on sq. NoPiece clears it.
func (p Position) WithPiece(sq Square, pc Piece) Position {
	if sq < NoSquare {
		p.squares[sq] = pc
	}
	return p
}

// KingSquare locates c's king, NoSquare if it has none.
func (p Position) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := A1; sq <= H8; sq++ {
		if p.squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Apply plays m and returns the resulting position. m must be legal
// for p; Apply does not check.
func (p Position) Apply(m Move) Position {
	from, to := m.From(), m.To()
	next := p
	moving := p.squares[from]
	captured := p.squares[to]
	us := p.SideToMove

	switch moving.Type() {
	case King:
		next.CastlingRights &^= castleRight(us, true) | castleRight(us, false)
	case Rook:
		next.CastlingRights &^= cornerRight(from, us)
	}
	if captured.Type() == Rook {
		next.CastlingRights &^= cornerRight(to, captured.Color())
	}

	if moving.Type() == King && from == homeKing[us] {
		switch to {
		case from + 2:
			next.squares[from+3] = NoPiece
			next.squares[from+1] = NewPiece(Rook, us)
		case from - 2:
			next.squares[from-4] = NoPiece
			next.squares[from-1] = NewPiece(Rook, us)
		}
	}

	enPassant := false
	if moving.Type() == Pawn && to == p.EnPassant && p.EnPassant != NoSquare {
		behind, _ := to.Offset(0, -us.Forward())
		next.squares[behind] = NoPiece
		enPassant = true
	}

	next.squares[from] = NoPiece
	if promo := m.Promotion(); promo != NoPieceType {
		next.squares[to] = NewPiece(promo, us)
	} else {
		next.squares[to] = moving
	}

	next.EnPassant = NoSquare
	if moving.Type() == Pawn && (to-from == 16 || from-to == 16) {
		next.EnPassant = Square((int(from) + int(to)) / 2)
	}

	if moving.Type() == Pawn || captured != NoPiece || enPassant {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock = p.HalfMoveClock + 1
	}

	if us == Black {
		next.FullMoveNumber = p.FullMoveNumber + 1
	}
	next.SideToMove = us.Other()
	return next
}

var homeKing = [2]Square{E1, E8}

// Material sums the values of c's pieces using values, indexed by type.
func (p Position) Material(c Color, values [6]int) int {
	total := 0
	for _, pc := range p.squares {
		if pc != NoPiece && pc.Color() == c {
			total += values[pc.Type()]
		}
	}
	return total
}

// Count returns how many pieces of the given kind are on the board.
func (p Position) Count(pc Piece) int {
	n := 0
	for _, q := range p.squares {
		if q == pc {
			n++
		}
	}
	return n
}

// String renders the board as a diagram followed by the game state.
func (p Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.squares[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	return sb.String()
}

// Validate reports structural problems: a missing or duplicated king, or
// pawns on the back ranks. Parsing and searching do not require a valid
// position; this is a diagnostic for user-facing tools.
func (p Position) Validate() error {
	var errs []error
	for _, c := range []Color{White, Black} {
		if n := p.Count(NewPiece(King, c)); n != 1 {
			errs = append(errs, fmt.Errorf("%s has %d kings", strings.ToLower(c.String()), n))
		}
	}
	for file := 0; file < 8; file++ {
		for _, rank := range []int{0, 7} {
			if p.squares[NewSquare(file, rank)].Type() == Pawn {
				errs = append(errs, fmt.Errorf("pawn on back rank %s", NewSquare(file, rank)))
			}
		}
	}
	return errors.Join(errs...)
}
