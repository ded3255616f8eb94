package engine

import (
	"github.com/hailam/chessbot/internal/board"
)

// Search constants. Scores are centipawns from White's point of view.
const (
	MateScore = 100000
	Infinity  = 200000
)

// SearchResult is the outcome of one fixed-depth search.
type SearchResult struct {
	BestMove board.Move // NoMove when the root has no legal moves
	Score    int
	PV       []board.Move
	Nodes    uint64
}

// Searcher runs a plain minimax alpha-beta search with a capture-only
// quiescence extension. White maximizes and Black minimizes over the
// same White-relative score. A Searcher is not safe for concurrent use;
// give each goroutine its own.
type Searcher struct {
	nodes uint64
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Nodes returns the nodes visited by the last search, quiescence included.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search examines pos to depth plies followed by at most qDepth plies of
// captures.
func (s *Searcher) Search(pos board.Position, depth, qDepth int) SearchResult {
	s.nodes = 0
	score, best, pv := s.alphaBeta(pos, depth, qDepth, -Infinity, Infinity)
	return SearchResult{
		BestMove: best,
		Score:    score,
		PV:       pv,
		Nodes:    s.nodes,
	}
}

func (s *Searcher) alphaBeta(pos board.Position, depth, qDepth, alpha, beta int) (int, board.Move, []board.Move) {
	s.nodes++

	if depth <= 0 {
		return s.quiescence(pos, qDepth, alpha, beta), board.NoMove, nil
	}

	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			if pos.SideToMove == board.White {
				return -MateScore, board.NoMove, nil
			}
			return MateScore, board.NoMove, nil
		}
		return 0, board.NoMove, nil
	}

	white := pos.SideToMove == board.White
	best := board.NoMove
	var bestPV []board.Move
	bestScore := Infinity
	if white {
		bestScore = -Infinity
	}

	for _, m := range moves {
		score, _, childPV := s.alphaBeta(pos.Apply(m), depth-1, qDepth, alpha, beta)

		if white {
			if score > bestScore {
				bestScore, best = score, m
				bestPV = append([]board.Move{m}, childPV...)
			}
			alpha = max(alpha, bestScore)
		} else {
			if score < bestScore {
				bestScore, best = score, m
				bestPV = append([]board.Move{m}, childPV...)
			}
			beta = min(beta, bestScore)
		}
		if beta <= alpha {
			break
		}
	}
	return bestScore, best, bestPV
}

// quiescence resolves pending captures so leaves are not scored in the
// middle of an exchange. The side to move may always stand pat on the
// static evaluation.
func (s *Searcher) quiescence(pos board.Position, qDepth, alpha, beta int) int {
	s.nodes++

	standPat := Evaluate(pos)
	if qDepth <= 0 {
		return standPat
	}

	if pos.SideToMove == board.White {
		if standPat >= beta {
			return beta
		}
		alpha = max(alpha, standPat)
		for _, m := range orderCaptures(pos) {
			score := s.quiescence(pos.Apply(m), qDepth-1, alpha, beta)
			if score >= beta {
				return beta
			}
			alpha = max(alpha, score)
		}
		return alpha
	}

	if standPat <= alpha {
		return alpha
	}
	beta = min(beta, standPat)
	for _, m := range orderCaptures(pos) {
		score := s.quiescence(pos.Apply(m), qDepth-1, alpha, beta)
		if score <= alpha {
			return alpha
		}
		beta = min(beta, score)
	}
	return beta
}
