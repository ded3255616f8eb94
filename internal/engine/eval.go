// Package engine implements static evaluation, the alpha-beta search
// and the analysis engines built on it.
package engine

import (
	"github.com/hailam/chessbot/internal/board"
)

// Material values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 0
)

var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// endgameMaterial is the per-side material below which the endgame
// tables apply.
const endgameMaterial = 1300

// PieceValue returns the material value of a piece type, 0 for none.
func PieceValue(pt board.PieceType) int {
	if pt >= board.NoPieceType {
		return 0
	}
	return pieceValues[pt]
}

// IsEndgame reports whether neither side has a queen, or either side's
// material has dropped below endgameMaterial.
func IsEndgame(pos board.Position) bool {
	noQueens := pos.Count(board.WhiteQueen) == 0 && pos.Count(board.BlackQueen) == 0
	return noQueens ||
		pos.Material(board.White, pieceValues) < endgameMaterial ||
		pos.Material(board.Black, pieceValues) < endgameMaterial
}

// Evaluate returns the static evaluation in centipawns from White's
// perspective: material plus piece-square bonuses, signed by color.
func Evaluate(pos board.Position) int {
	endgame := IsEndgame(pos)
	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.PieceAt(sq)
		if pc == board.NoPiece {
			continue
		}
		v := PieceValue(pc.Type()) + PositionalBonus(sq, pc.Color(), pc.Type(), endgame)
		if pc.Color() == board.White {
			score += v
		} else {
			score -= v
		}
	}
	return score
}
