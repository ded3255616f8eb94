package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every ParseFEN failure.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN parses all six FEN fields. It does not check that the
// position is reachable or that both kings are present.
func ParseFEN(fen string) (Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return Position{}, fmt.Errorf("%w: need 6 fields, got %d", ErrInvalidFEN, len(parts))
	}

	pos := EmptyPosition()
	if err := parsePiecePlacement(&pos, parts[0]); err != nil {
		return Position{}, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return Position{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
	}

	cr, err := parseCastlingRights(parts[2])
	if err != nil {
		return Position{}, err
	}
	pos.CastlingRights = cr

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return Position{}, fmt.Errorf("%w: en passant square: %v", ErrInvalidFEN, err)
		}
		pos.EnPassant = sq
	}

	hmc, err := strconv.Atoi(parts[4])
	if err != nil || hmc < 0 {
		return Position{}, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, parts[4])
	}
	pos.HalfMoveClock = hmc

	fmn, err := strconv.Atoi(parts[5])
	if err != nil || fmn < 1 {
		return Position{}, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, parts[5])
	}
	pos.FullMoveNumber = fmn

	return pos, nil
}

// FromFEN is ParseFEN for callers that cannot report errors. Only a
// wrong field count or rank count yields the starting position. Other
// malformed fields fall back individually: side to move is black unless
// "w", castling keeps the K, Q, k and q letters it finds, a bad en-passant
// square means none, and bad clocks read as 0 and 1. Unknown piece
// letters leave their square empty.
func FromFEN(fen string) Position {
	if pos, err := ParseFEN(fen); err == nil {
		return pos
	}
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return StartPosition()
	}
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return StartPosition()
	}

	pos := EmptyPosition()
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr) && file < 8; j++ {
			c := rankStr[j]
			if c >= '0' && c <= '9' {
				file += int(c - '0')
				continue
			}
			pos.squares[NewSquare(file, rank)] = PieceFromChar(c)
			file++
		}
	}

	if parts[1] != "w" {
		pos.SideToMove = Black
	}
	for i, c := range "KQkq" {
		if strings.ContainsRune(parts[2], c) {
			pos.CastlingRights |= 1 << i
		}
	}
	if sq, err := ParseSquare(parts[3]); err == nil {
		pos.EnPassant = sq
	}
	if n, err := strconv.Atoi(parts[4]); err == nil && n >= 0 {
		pos.HalfMoveClock = n
	}
	if n, err := strconv.Atoi(parts[5]); err == nil && n >= 1 {
		pos.FullMoveNumber = n
	}
	return pos
}

func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}
			pos.squares[NewSquare(file, rank)] = piece
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}
	return nil
}

func parseCastlingRights(castling string) (CastlingRights, error) {
	if castling == "-" {
		return NoCastling, nil
	}
	cr := NoCastling
	for _, c := range castling {
		i := strings.IndexRune("KQkq", c)
		if i < 0 {
			return NoCastling, fmt.Errorf("%w: castling character %q", ErrInvalidFEN, c)
		}
		cr |= 1 << i
	}
	return cr, nil
}

// FEN serializes the position.
func (p Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	fmt.Fprintf(&sb, " %s %s %d %d", p.CastlingRights, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
