package engine

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessbot/internal/board"
)

// Search parameter defaults.
const (
	DefaultDepth  = 3
	DefaultQDepth = 8
)

// SearchLimits bounds one analysis. The zero value searches
// DefaultDepth plies with DefaultQDepth capture plies.
type SearchLimits struct {
	Depth  int // plies; non-positive means DefaultDepth
	QDepth int // capture plies; 0 means DefaultQDepth, NoQuiescence scores leaves statically
}

// NoQuiescence as SearchLimits.QDepth turns the capture extension off.
const NoQuiescence = -1

// Normalize fills in defaults for unset limits and resolves NoQuiescence,
// so the result holds the plies actually searched.
func (l SearchLimits) Normalize() SearchLimits {
	if l.Depth <= 0 {
		l.Depth = DefaultDepth
	}
	switch {
	case l.QDepth == 0:
		l.QDepth = DefaultQDepth
	case l.QDepth < 0:
		l.QDepth = 0
	}
	return l
}

// QDepthLimit converts a user-facing quiescence depth, where 0 means
// static leaves, to a SearchLimits.QDepth value.
func QDepthLimit(plies int) int {
	if plies <= 0 {
		return NoQuiescence
	}
	return plies
}

// DefaultLimits returns the limits used when a caller specifies none.
func DefaultLimits() SearchLimits {
	return SearchLimits{Depth: DefaultDepth, QDepth: DefaultQDepth}
}

// NoMoveNotation is the best move reported when there is no legal move.
const NoMoveNotation = "0000"

// Analysis is an engine's verdict on a position, in move notation.
type Analysis struct {
	BestMove string   // coordinate notation, NoMoveNotation if none
	Score    int      // centipawns, White's point of view
	PV       []string // principal variation, empty when there is no move
	Nodes    uint64
	Depth    int
	Time     time.Duration
}

// Engine turns a position and limits into an analysis.
type Engine interface {
	Analyze(pos board.Position, limits SearchLimits) Analysis
}

// SearchInfo is reported once per completed search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// SearchEngine analyzes with the alpha-beta Searcher. Analyses run one
// at a time per SearchEngine.
type SearchEngine struct {
	searcher *Searcher
	log      zerolog.Logger

	// OnInfo, if set, receives the result of every search.
	OnInfo func(SearchInfo)
}

// NewSearchEngine creates a search engine that logs through log.
func NewSearchEngine(log zerolog.Logger) *SearchEngine {
	return &SearchEngine{
		searcher: NewSearcher(),
		log:      log,
	}
}

// Analyze searches pos and converts the result to notation.
func (e *SearchEngine) Analyze(pos board.Position, limits SearchLimits) Analysis {
	limits = limits.Normalize()

	start := time.Now()
	res := e.searcher.Search(pos, limits.Depth, limits.QDepth)
	elapsed := time.Since(start)

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: limits.Depth,
			Score: res.Score,
			Nodes: res.Nodes,
			Time:  elapsed,
			PV:    res.PV,
		})
	}

	a := Analysis{
		BestMove: NoMoveNotation,
		Score:    res.Score,
		PV:       []string{},
		Nodes:    res.Nodes,
		Depth:    limits.Depth,
		Time:     elapsed,
	}
	if res.BestMove != board.NoMove {
		a.BestMove = res.BestMove.String()
		a.PV = board.MoveList(res.PV).Strings()
	}

	if ev := e.log.Debug(); ev.Enabled() {
		ev.Str("fen", pos.FEN()).
			Int("depth", limits.Depth).
			Int("qdepth", limits.QDepth).
			Str("bestmove", a.BestMove).
			Str("score", ScoreString(a.Score)).
			Uint64("nodes", a.Nodes).
			Dur("elapsed", elapsed).
			Msg("analysis complete")
	}
	return a
}

// Evaluate exposes the static evaluation.
func (e *SearchEngine) Evaluate(pos board.Position) int {
	return Evaluate(pos)
}

// FirstMoveEngine plays the first legal move in generation order without
// searching. It is a reference implementation for tests and tooling.
type FirstMoveEngine struct{}

// Analyze returns the first legal move with a zero score.
func (FirstMoveEngine) Analyze(pos board.Position, limits SearchLimits) Analysis {
	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		return Analysis{BestMove: NoMoveNotation, PV: []string{}}
	}
	best := moves[0].String()
	return Analysis{
		BestMove: best,
		PV:       []string{best},
		Depth:    1,
	}
}

// Kind names an Engine implementation.
type Kind string

const (
	KindSearch Kind = "search"
	KindFirst  Kind = "first"
)

// New builds the engine of the given kind, falling back to a search engine
// for unknown kinds.
func New(kind Kind, log zerolog.Logger) Engine {
	if kind == KindFirst {
		return FirstMoveEngine{}
	}
	return NewSearchEngine(log)
}

// ScoreString formats a White-relative score for people: pawns with two
// decimals, or a mate marker.
func ScoreString(score int) string {
	switch {
	case score >= MateScore:
		return "#+"
	case score <= -MateScore:
		return "#-"
	}
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	cents := strconv.Itoa(score % 100)
	if len(cents) == 1 {
		cents = "0" + cents
	}
	return sign + strconv.Itoa(score/100) + "." + cents
}
