// Package referee compares the engine's analyses against an external UCI
// engine.
package referee

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"

	"github.com/hailam/chessbot/internal/board"
	"github.com/hailam/chessbot/internal/engine"
)

// ErrNoResult is returned when the reference engine reports no score.
var ErrNoResult = errors.New("no results from engine")

// Evaluation is a reference engine's view of a position. Score is from
// White's point of view; when Mate is set it counts moves to mate instead
// of centipawns.
type Evaluation struct {
	BestMove string
	Score    int
	Mate     bool
	Depth    int
}

// Reference is an engine to compare against.
type Reference interface {
	Evaluate(ctx context.Context, fen string, depth int) (Evaluation, error)
	Close() error
}

// UCIOptions configures an external engine process.
type UCIOptions struct {
	Hash    int
	Threads int
}

// UCIReference runs an external engine such as Stockfish.
type UCIReference struct {
	engine *uci.Engine
}

// NewUCIReference starts the engine binary at path.
func NewUCIReference(path string, opts UCIOptions) (*UCIReference, error) {
	eng, err := uci.NewEngine(path)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	err = eng.SetOptions(uci.Options{
		Hash:    opts.Hash,
		Threads: opts.Threads,
		MultiPV: 1,
	})
	if err != nil {
		eng.Close()
		return nil, fmt.Errorf("set options: %w", err)
	}
	return &UCIReference{engine: eng}, nil
}

// Evaluate searches fen to depth. The underlying protocol call cannot be
// interrupted, so ctx is only checked before it starts.
func (r *UCIReference) Evaluate(ctx context.Context, fen string, depth int) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}
	if err := r.engine.SetFEN(fen); err != nil {
		return Evaluation{}, fmt.Errorf("set FEN: %w", err)
	}
	results, err := r.engine.GoDepth(depth, uci.HighestDepthOnly)
	if err != nil {
		return Evaluation{}, fmt.Errorf("go depth %d: %w", depth, err)
	}
	if len(results.Results) == 0 {
		return Evaluation{}, ErrNoResult
	}

	best := results.Results[0]
	for _, res := range results.Results {
		if res.Depth > best.Depth {
			best = res
		}
	}

	// UCI scores are from the side to move.
	score := best.Score
	if strings.Contains(fen, " b ") {
		score = -score
	}
	return Evaluation{
		BestMove: results.BestMove,
		Score:    score,
		Mate:     best.Mate,
		Depth:    best.Depth,
	}, nil
}

// Close stops the engine process.
func (r *UCIReference) Close() error {
	r.engine.Close()
	return nil
}

// Verdict compares both engines on one position.
type Verdict struct {
	FEN      string
	OurMove  string
	OurScore int
	RefMove  string
	RefScore int
	RefMate  bool
	// Gap is |OurScore - RefScore|, meaningful only when neither score
	// is a mate.
	Gap   int
	Agree bool
}

// Referee runs both engines over a list of positions.
type Referee struct {
	Engine    engine.Engine
	Reference Reference
	Limits    engine.SearchLimits
	RefDepth  int
	Log       zerolog.Logger
}

// Compare analyzes every FEN with both engines. It stops at the first
// invalid FEN or reference failure.
func (r *Referee) Compare(ctx context.Context, fens []string) ([]Verdict, error) {
	refDepth := r.RefDepth
	if refDepth <= 0 {
		refDepth = r.Limits.Normalize().Depth
	}

	verdicts := make([]Verdict, 0, len(fens))
	for _, fen := range fens {
		if err := ctx.Err(); err != nil {
			return verdicts, err
		}
		pos, err := board.ParseFEN(fen)
		if err != nil {
			return verdicts, err
		}

		ours := r.Engine.Analyze(pos, r.Limits)
		ref, err := r.Reference.Evaluate(ctx, pos.FEN(), refDepth)
		if err != nil {
			return verdicts, fmt.Errorf("reference on %q: %w", fen, err)
		}

		v := Verdict{
			FEN:      pos.FEN(),
			OurMove:  ours.BestMove,
			OurScore: ours.Score,
			RefMove:  ref.BestMove,
			RefScore: ref.Score,
			RefMate:  ref.Mate,
			Gap:      abs(ours.Score - ref.Score),
			Agree:    ours.BestMove == ref.BestMove,
		}
		r.Log.Debug().
			Str("fen", v.FEN).
			Str("ours", v.OurMove).
			Str("ref", v.RefMove).
			Int("gap", v.Gap).
			Msg("position compared")
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// Agreement returns how many verdicts agree on the move and the mean score
// gap over verdicts without mate scores.
func Agreement(verdicts []Verdict) (agree int, meanGap float64) {
	var gaps, n int
	for _, v := range verdicts {
		if v.Agree {
			agree++
		}
		if v.RefMate || abs(v.OurScore) >= engine.MateScore {
			continue
		}
		gaps += v.Gap
		n++
	}
	if n > 0 {
		meanGap = float64(gaps) / float64(n)
	}
	return agree, meanGap
}

// ReadFENs reads one FEN per line, skipping blank lines and '#' comments.
func ReadFENs(r io.Reader) ([]string, error) {
	var fens []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fens = append(fens, line)
	}
	return fens, scanner.Err()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
