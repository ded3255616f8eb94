package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/hailam/chessbot/internal/bench"
	"github.com/hailam/chessbot/internal/engine"
	"github.com/hailam/chessbot/internal/logx"
)

func main() {
	suitePath := flag.String("suite", "", "EPD suite (.epd or .epd.zst)")
	depth := flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	qdepth := flag.Int("qdepth", engine.DefaultQDepth, "quiescence search depth (0 for static leaves)")
	engineKind := flag.String("engine", string(engine.KindSearch), "engine: search or first")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel searches")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logx.New(os.Stderr, *logLevel)

	if *suitePath == "" {
		log.Fatal().Msg("-suite is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cases, err := bench.LoadEPD(*suitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading suite")
	}
	log.Info().Int("cases", len(cases)).Int("workers", *workers).Msg("bench started")

	runner := &bench.Runner{
		NewEngine: func() engine.Engine { return engine.New(engine.Kind(*engineKind), log) },
		Limits:    engine.SearchLimits{Depth: *depth, QDepth: engine.QDepthLimit(*qdepth)},
		Workers:   *workers,
		Log:       log,
	}
	results, err := runner.Run(ctx, cases)
	if err != nil {
		log.Fatal().Err(err).Msg("bench failed")
	}

	for _, r := range results {
		mark := " "
		if r.Solved {
			mark = "+"
		}
		fmt.Printf("%s %-20s %-8s %7s %10d %v\n", mark, r.ID, r.BestSAN, engine.ScoreString(r.Score), r.Nodes, r.Elapsed)
	}

	s := bench.Summarize(results)
	fmt.Printf("\nSolved: %d/%d\n", s.Solved, s.Total)
	fmt.Printf("Nodes: %d\n", s.Nodes)
	fmt.Printf("Time: %v\n", s.Elapsed)
	fmt.Printf("NPS: %.0f\n", s.NodesPerSecond())
}
