package bench

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessbot/internal/board"
	"github.com/hailam/chessbot/internal/engine"
)

// Result is the outcome of analyzing one Case.
type Result struct {
	ID       string
	FEN      string
	BestMove string // coordinate notation
	BestSAN  string
	Score    int
	Nodes    uint64
	Elapsed  time.Duration
	Solved   bool
}

// Runner analyzes suites in parallel. Each worker builds its own engine
// with NewEngine, so engines are never shared between goroutines.
type Runner struct {
	NewEngine func() engine.Engine
	Limits    engine.SearchLimits
	Workers   int
	Log       zerolog.Logger
}

// Run analyzes every case and returns the results in suite order.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]Result, error) {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(cases))
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range cases {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- i:
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			eng := r.NewEngine()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = r.analyze(eng, cases[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) analyze(eng engine.Engine, c Case) Result {
	a := eng.Analyze(c.Position, r.Limits)

	res := Result{
		ID:       c.ID,
		FEN:      c.Position.FEN(),
		BestMove: a.BestMove,
		Score:    a.Score,
		Nodes:    a.Nodes,
		Elapsed:  a.Time,
	}
	if m, err := board.ParseMove(a.BestMove); err == nil {
		res.BestSAN = m.SAN(c.Position)
		res.Solved = c.Solved(m)
	}

	r.Log.Debug().
		Str("id", res.ID).
		Str("bestmove", res.BestSAN).
		Str("score", engine.ScoreString(res.Score)).
		Bool("solved", res.Solved).
		Msg("case done")
	return res
}

// Summary aggregates a run.
type Summary struct {
	Total   int
	Solved  int
	Nodes   uint64
	Elapsed time.Duration
}

// Summarize totals results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		if r.Solved {
			s.Solved++
		}
		s.Nodes += r.Nodes
		s.Elapsed += r.Elapsed
	}
	return s
}

// NodesPerSecond returns the search speed summed over all cases.
func (s Summary) NodesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Nodes) / s.Elapsed.Seconds()
}
