package board

// promotionOrder is the order promotions are emitted in.
var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// GeneratePseudoLegalMoves returns every move that obeys piece movement
// rules for the side to move, scanning squares a1 to h8. Moves may leave
// the mover's king attacked; castling is already checked for safety.
func (p Position) GeneratePseudoLegalMoves() MoveList {
	us := p.SideToMove
	ml := make(MoveList, 0, 48)

	for from := A1; from <= H8; from++ {
		pc := p.squares[from]
		if pc == NoPiece || pc.Color() != us {
			continue
		}
		switch pc.Type() {
		case Pawn:
			ml = p.genPawnMoves(ml, from, us)
		case Knight:
			ml = p.genStepMoves(ml, from, us, knightTargets[from])
		case Bishop:
			ml = p.genSliderMoves(ml, from, us, diagonalRays)
		case Rook:
			ml = p.genSliderMoves(ml, from, us, orthogonalRays)
		case Queen:
			ml = p.genSliderMoves(ml, from, us, queenRays)
		case King:
			ml = p.genStepMoves(ml, from, us, kingTargets[from])
			ml = p.genCastling(ml, from, us)
		}
	}
	return ml
}

// GenerateLegalMoves filters the pseudo-legal moves down to those that do
// not leave the mover's king attacked. A move after which the mover has
// no king at all is dropped.
func (p Position) GenerateLegalMoves() MoveList {
	pseudo := p.GeneratePseudoLegalMoves()
	legal := pseudo[:0]
	us := p.SideToMove
	for _, m := range pseudo {
		next := p.Apply(m)
		ksq := next.KingSquare(us)
		if ksq == NoSquare {
			continue
		}
		if !next.IsSquareAttacked(ksq, us.Other()) {
			legal = append(legal, m)
		}
	}
	return legal
}

// GenerateCaptures returns the legal moves that capture, en passant
// included, in generation order.
func (p Position) GenerateCaptures() MoveList {
	var caps MoveList
	for _, m := range p.GenerateLegalMoves() {
		if m.IsCapture(p) {
			caps = append(caps, m)
		}
	}
	return caps
}

func (p Position) isEnemy(sq Square, us Color) bool {
	pc := p.squares[sq]
	return pc != NoPiece && pc.Color() != us
}

func (p Position) genPawnMoves(ml MoveList, from Square, us Color) MoveList {
	fwd := us.Forward()
	promotes := from.RelativeRank(us) == 6

	add := func(to Square) {
		if promotes {
			for _, pt := range promotionOrder {
				ml = append(ml, NewPromotion(from, to, pt))
			}
			return
		}
		ml = append(ml, NewMove(from, to))
	}

	one, ok := from.Offset(0, fwd)
	if !ok {
		return ml
	}
	if p.IsEmpty(one) {
		add(one)
		if from.RelativeRank(us) == 1 {
			if two, _ := one.Offset(0, fwd); p.IsEmpty(two) {
				ml = append(ml, NewMove(from, two))
			}
		}
	}

	for _, df := range []int{-1, 1} {
		to, ok := from.Offset(df, fwd)
		if ok && p.isEnemy(to, us) {
			add(to)
		}
	}

	if ep := p.EnPassant; ep != NoSquare && ep.Rank() == one.Rank() {
		if d := ep.File() - from.File(); d == 1 || d == -1 {
			ml = append(ml, NewMove(from, ep))
		}
	}
	return ml
}

func (p Position) genStepMoves(ml MoveList, from Square, us Color, targets []Square) MoveList {
	for _, to := range targets {
		if p.IsEmpty(to) || p.isEnemy(to, us) {
			ml = append(ml, NewMove(from, to))
		}
	}
	return ml
}

func (p Position) genSliderMoves(ml MoveList, from Square, us Color, rays []direction) MoveList {
	for _, d := range rays {
		cur := from
		for {
			to, ok := cur.Offset(d.df, d.dr)
			if !ok {
				break
			}
			cur = to
			if p.IsEmpty(to) {
				ml = append(ml, NewMove(from, to))
				continue
			}
			if p.isEnemy(to, us) {
				ml = append(ml, NewMove(from, to))
			}
			break
		}
	}
	return ml
}

// genCastling emits king-side then queen-side castling for a king on its
// home square. The squares between king and rook must be empty, and the
// king's start, pass-through and destination squares must not be
// attacked. The rook's own square is not checked.
func (p Position) genCastling(ml MoveList, from Square, us Color) MoveList {
	if from != homeKing[us] {
		return ml
	}
	them := us.Other()
	for _, kingSide := range []bool{true, false} {
		if !p.CastlingRights.CanCastle(us, kingSide) {
			continue
		}
		step, between := 1, []Square{from + 1, from + 2}
		if !kingSide {
			step, between = -1, []Square{from - 1, from - 2, from - 3}
		}
		empty := true
		for _, sq := range between {
			if !p.IsEmpty(sq) {
				empty = false
				break
			}
		}
		if !empty {
			continue
		}
		pass := Square(int(from) + step)
		dest := Square(int(from) + 2*step)
		if p.IsSquareAttacked(from, them) || p.IsSquareAttacked(pass, them) || p.IsSquareAttacked(dest, them) {
			continue
		}
		ml = append(ml, NewMove(from, dest))
	}
	return ml
}

// IsCheckmate reports whether the side to move is in check with no
// legal moves.
func (p Position) IsCheckmate() bool {
	return p.InCheck() && len(p.GenerateLegalMoves()) == 0
}

// IsStalemate reports whether the side to move has no legal moves and is
// not in check.
func (p Position) IsStalemate() bool {
	return !p.InCheck() && len(p.GenerateLegalMoves()) == 0
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		nodes += p.Apply(m).Perft(depth - 1)
	}
	return nodes
}

// Divide returns the perft count below each legal move.
func (p Position) Divide(depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	for _, m := range p.GenerateLegalMoves() {
		out[m] = p.Apply(m).Perft(depth - 1)
	}
	return out
}
