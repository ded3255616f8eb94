package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hailam/chessbot/internal/engine"
	"github.com/hailam/chessbot/internal/logx"
	"github.com/hailam/chessbot/internal/referee"
)

func main() {
	enginePath := flag.String("reference", "stockfish", "path to a UCI engine binary")
	fenPath := flag.String("fens", "", "file with one FEN per line")
	depth := flag.Int("depth", engine.DefaultDepth, "our search depth in plies")
	qdepth := flag.Int("qdepth", engine.DefaultQDepth, "our quiescence search depth (0 for static leaves)")
	refDepth := flag.Int("ref-depth", 0, "reference search depth (default: -depth)")
	hash := flag.Int("hash", 64, "reference hash size in MB")
	threads := flag.Int("threads", 1, "reference threads")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logx.New(os.Stderr, *logLevel)

	if *fenPath == "" {
		log.Fatal().Msg("-fens is required")
	}
	f, err := os.Open(*fenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening FEN file")
	}
	fens, err := referee.ReadFENs(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("reading FEN file")
	}

	ref, err := referee.NewUCIReference(*enginePath, referee.UCIOptions{Hash: *hash, Threads: *threads})
	if err != nil {
		log.Fatal().Err(err).Str("engine", *enginePath).Msg("starting reference engine")
	}
	defer ref.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := &referee.Referee{
		Engine:    engine.NewSearchEngine(log),
		Reference: ref,
		Limits:    engine.SearchLimits{Depth: *depth, QDepth: engine.QDepthLimit(*qdepth)},
		RefDepth:  *refDepth,
		Log:       log,
	}
	verdicts, err := r.Compare(ctx, fens)
	for _, v := range verdicts {
		refScore := fmt.Sprintf("%d", v.RefScore)
		if v.RefMate {
			refScore = fmt.Sprintf("#%d", v.RefScore)
		}
		fmt.Printf("%-5s ours %-5s %7d  ref %-5s %7s  %s\n", agreeMark(v.Agree), v.OurMove, v.OurScore, v.RefMove, refScore, v.FEN)
	}
	agree, meanGap := referee.Agreement(verdicts)
	fmt.Printf("\nAgree: %d/%d\nMean gap: %.1f cp\n", agree, len(verdicts), meanGap)

	if err != nil {
		log.Error().Err(err).Msg("comparison stopped")
		ref.Close()
		os.Exit(1)
	}
}

func agreeMark(ok bool) string {
	if ok {
		return "same"
	}
	return "diff"
}
