package board

import (
	"fmt"
	"strings"
)

// SAN renders m in Standard Algebraic Notation for pos. m must be legal.
func (m Move) SAN(pos Position) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From(), m.To()
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder
	if m.IsCastling(pos) {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, pt))
		}
		if m.IsCapture(pos) {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if promo := m.Promotion(); promo != NoPieceType {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[promo])
		}
	}

	next := pos.Apply(m)
	if next.IsCheckmate() {
		sb.WriteByte('#')
	} else if next.InCheck() {
		sb.WriteByte('+')
	}
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell
// m apart from other legal moves of the same piece type to the same square.
func disambiguation(pos Position, m Move, pt PieceType) string {
	from, to := m.From(), m.To()

	var rivals []Square
	for _, other := range pos.GenerateLegalMoves() {
		if other.To() != to || other.From() == from {
			continue
		}
		if pos.PieceAt(other.From()).Type() == pt {
			rivals = append(rivals, other.From())
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range rivals {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN finds the legal move in pos written as s in Standard
// Algebraic Notation. Check and annotation suffixes are ignored.
func ParseSAN(s string, pos Position) (Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")

	legal := pos.GenerateLegalMoves()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingSide := len(s) == 3
		for _, m := range legal {
			if m.IsCastling(pos) && (m.To() > m.From()) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %q: castling not legal", ErrInvalidMove, orig)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		if idx+1 < len(s) {
			pc := PieceFromChar(s[idx+1])
			if pc.Color() == White {
				promo = pc.Type()
			}
		}
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("%w: %q: bad promotion", ErrInvalidMove, orig)
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pc := PieceFromChar(s[0])
		if pc == NoPiece || pc.Type() == Pawn {
			return NoMove, fmt.Errorf("%w: %q: unknown piece", ErrInvalidMove, orig)
		}
		pt = pc.Type()
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("%w: %q: missing destination", ErrInvalidMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, orig, err)
	}
	s = s[:len(s)-2]

	fileHint, rankHint := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			fileHint = int(c - 'a')
		case c >= '1' && c <= '8':
			rankHint = int(c - '1')
		}
	}

	for _, m := range legal {
		from := m.From()
		switch {
		case m.To() != dest,
			pos.PieceAt(from).Type() != pt,
			fileHint >= 0 && from.File() != fileHint,
			rankHint >= 0 && from.Rank() != rankHint,
			isCapture && !m.IsCapture(pos),
			m.Promotion() != promo:
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("%w: %q: no matching legal move", ErrInvalidMove, orig)
}

// MovesToSAN renders a line of moves played from pos.
func MovesToSAN(pos Position, moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.SAN(pos)
		pos = pos.Apply(m)
	}
	return out
}
