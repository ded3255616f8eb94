package engine

import (
	"sort"

	"github.com/hailam/chessbot/internal/board"
)

// victimValue is the value of the piece standing on the capture square.
// An en-passant capture lands on an empty square and scores 0.
func victimValue(pos board.Position, m board.Move) int {
	return PieceValue(pos.PieceAt(m.To()).Type())
}

// orderCaptures returns the legal captures of pos, most valuable victim
// first. Ties keep generation order; the attacker is not considered.
func orderCaptures(pos board.Position) board.MoveList {
	caps := pos.GenerateCaptures()
	sort.SliceStable(caps, func(i, j int) bool {
		return victimValue(pos, caps[i]) > victimValue(pos, caps[j])
	})
	return caps
}
