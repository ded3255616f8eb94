package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hailam/chessbot/internal/board"
)

func TestSearchEngineAnalyze(t *testing.T) {
	eng := NewSearchEngine(zerolog.Nop())
	var infos []SearchInfo
	eng.OnInfo = func(info SearchInfo) { infos = append(infos, info) }

	a := eng.Analyze(mustFEN(t, "q3k3/8/8/8/8/8/8/R3K3 w - - 0 1"), SearchLimits{Depth: 3})
	if a.BestMove != "a1a8" {
		t.Errorf("best move = %s, want a1a8", a.BestMove)
	}
	if len(a.PV) == 0 || a.PV[0] != a.BestMove {
		t.Errorf("PV = %v", a.PV)
	}
	if a.Depth != 3 {
		t.Errorf("depth = %d, want 3", a.Depth)
	}
	if len(infos) != 1 || infos[0].Nodes != a.Nodes {
		t.Errorf("OnInfo calls = %+v", infos)
	}
}

func TestSearchEngineNoMoves(t *testing.T) {
	eng := NewSearchEngine(zerolog.Nop())
	a := eng.Analyze(mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1"), SearchLimits{})
	if a.BestMove != NoMoveNotation {
		t.Errorf("best move = %s, want 0000", a.BestMove)
	}
	if len(a.PV) != 0 {
		t.Errorf("PV = %v, want empty", a.PV)
	}
	if a.Score != MateScore {
		t.Errorf("score = %d, want %d", a.Score, MateScore)
	}
}

func TestSearchLimitsNormalize(t *testing.T) {
	tests := []struct {
		in, want SearchLimits
	}{
		{SearchLimits{}, SearchLimits{Depth: 3, QDepth: 8}},
		{SearchLimits{Depth: 1}, SearchLimits{Depth: 1, QDepth: 8}},
		{SearchLimits{Depth: -2, QDepth: NoQuiescence}, SearchLimits{Depth: 3, QDepth: 0}},
		{SearchLimits{Depth: 5, QDepth: -7}, SearchLimits{Depth: 5, QDepth: 0}},
		{SearchLimits{Depth: 5, QDepth: 2}, SearchLimits{Depth: 5, QDepth: 2}},
	}
	for _, tc := range tests {
		if got := tc.in.Normalize(); got != tc.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	if got := DefaultLimits(); got != (SearchLimits{Depth: 3, QDepth: 8}) {
		t.Errorf("DefaultLimits() = %+v", got)
	}
}

func TestQDepthLimit(t *testing.T) {
	tests := []struct{ plies, want int }{
		{0, NoQuiescence},
		{-3, NoQuiescence},
		{1, 1},
		{8, 8},
	}
	for _, tc := range tests {
		if got := QDepthLimit(tc.plies); got != tc.want {
			t.Errorf("QDepthLimit(%d) = %d, want %d", tc.plies, got, tc.want)
		}
	}
}

// A depth-only limit must still resolve captures at the leaves.
func TestAnalyzeDepthOnlyKeepsQuiescence(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/6p1/3Q3r/8/8/4K3 w - - 0 1")

	a := NewSearchEngine(zerolog.Nop()).Analyze(pos, SearchLimits{Depth: 1})
	if a.BestMove == "d4h4" {
		t.Errorf("depth-only analysis played the losing capture d4h4, score %d", a.Score)
	}

	static := NewSearchEngine(zerolog.Nop()).Analyze(pos, SearchLimits{Depth: 1, QDepth: NoQuiescence})
	if static.BestMove != "d4h4" {
		t.Errorf("static-leaf analysis chose %s, want the horizon capture d4h4", static.BestMove)
	}
}

func TestAnalyzeDebugEvent(t *testing.T) {
	pos := mustFEN(t, "q3k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	tests := []struct {
		level zerolog.Level
		want  bool
	}{
		{zerolog.DebugLevel, true},
		{zerolog.InfoLevel, false},
	}
	for _, tc := range tests {
		t.Run(tc.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			NewSearchEngine(zerolog.New(&buf).Level(tc.level)).Analyze(pos, SearchLimits{Depth: 1})
			got := strings.Contains(buf.String(), "analysis complete")
			if got != tc.want {
				t.Errorf("debug event logged = %t, want %t (output %q)", got, tc.want, buf.String())
			}
		})
	}
}

func TestFirstMoveEngine(t *testing.T) {
	var eng Engine = FirstMoveEngine{}

	a := eng.Analyze(board.StartPosition(), SearchLimits{})
	first := board.StartPosition().GenerateLegalMoves()[0].String()
	if a.BestMove != first {
		t.Errorf("best move = %s, want %s", a.BestMove, first)
	}
	if len(a.PV) != 1 || a.PV[0] != first {
		t.Errorf("PV = %v", a.PV)
	}

	stale := eng.Analyze(mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"), SearchLimits{})
	if stale.BestMove != NoMoveNotation || len(stale.PV) != 0 || stale.Score != 0 {
		t.Errorf("stalemate analysis = %+v", stale)
	}
}

func TestNewEngineKind(t *testing.T) {
	if _, ok := New(KindFirst, zerolog.Nop()).(FirstMoveEngine); !ok {
		t.Error("KindFirst did not build a FirstMoveEngine")
	}
	if _, ok := New(KindSearch, zerolog.Nop()).(*SearchEngine); !ok {
		t.Error("KindSearch did not build a SearchEngine")
	}
	if _, ok := New("bogus", zerolog.Nop()).(*SearchEngine); !ok {
		t.Error("unknown kind did not fall back to SearchEngine")
	}
}

func TestScoreString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{105, "1.05"},
		{-250, "-2.50"},
		{MateScore, "#+"},
		{-MateScore, "#-"},
	}
	for _, tc := range tests {
		if got := ScoreString(tc.score); got != tc.want {
			t.Errorf("ScoreString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
