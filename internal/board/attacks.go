package board

// direction is a (file, rank) step.
type direction struct{ df, dr int }

var (
	knightSteps = []direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = []direction{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

	// Ray order fixes the generation order of slider moves.
	diagonalRays   = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonalRays = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	queenRays      = append(append([]direction{}, diagonalRays...), orthogonalRays...)
)

// Pre-computed target squares for the leaping pieces.
var (
	knightTargets [64][]Square
	kingTargets   [64][]Square
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		knightTargets[sq] = stepTargets(sq, knightSteps)
		kingTargets[sq] = stepTargets(sq, kingSteps)
	}
}

func stepTargets(sq Square, steps []direction) []Square {
	var out []Square
	for _, d := range steps {
		if to, ok := sq.Offset(d.df, d.dr); ok {
			out = append(out, to)
		}
	}
	return out
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
// Occupancy of sq itself does not matter.
func (p Position) IsSquareAttacked(sq Square, by Color) bool {
	if sq >= NoSquare {
		return false
	}

	// A pawn of color by attacks sq from one rank behind it, seen from
	// by's direction of travel.
	pawn := NewPiece(Pawn, by)
	for _, df := range []int{-1, 1} {
		if from, ok := sq.Offset(df, -by.Forward()); ok && p.squares[from] == pawn {
			return true
		}
	}

	knight := NewPiece(Knight, by)
	for _, from := range knightTargets[sq] {
		if p.squares[from] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, from := range kingTargets[sq] {
		if p.squares[from] == king {
			return true
		}
	}

	queen := NewPiece(Queen, by)
	if p.rayAttacked(sq, diagonalRays, NewPiece(Bishop, by), queen) {
		return true
	}
	return p.rayAttacked(sq, orthogonalRays, NewPiece(Rook, by), queen)
}

// rayAttacked walks each ray out from sq and checks whether the first
// occupied square holds one of the two given sliders.
func (p Position) rayAttacked(sq Square, rays []direction, slider, queen Piece) bool {
	for _, d := range rays {
		cur := sq
		for {
			next, ok := cur.Offset(d.df, d.dr)
			if !ok {
				break
			}
			cur = next
			pc := p.squares[cur]
			if pc == NoPiece {
				continue
			}
			if pc == slider || pc == queen {
				return true
			}
			break
		}
	}
	return false
}

// InCheck reports whether the side to move's king is attacked. A side
// without a king is never in check.
func (p Position) InCheck() bool {
	ksq := p.KingSquare(p.SideToMove)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, p.SideToMove.Other())
}
