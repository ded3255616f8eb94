package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hailam/chessbot/internal/logx"
	"github.com/hailam/chessbot/internal/replay"
)

func main() {
	pgnPath := flag.String("pgn", "", "PGN file (.pgn or .pgn.zst)")
	maxGames := flag.Int("max-games", 0, "stop after this many games (0 for all)")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logx.New(os.Stderr, *logLevel)

	if *pgnPath == "" {
		log.Fatal().Msg("-pgn is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sum, err := replay.Run(ctx, *pgnPath, replay.Options{MaxGames: *maxGames, Log: log})
	if err != nil {
		log.Error().Err(err).Msg("replay stopped")
	}

	for _, m := range sum.Mismatches {
		fmt.Println(m)
	}
	fmt.Printf("Games: %d\nPlies: %d\nFailed: %d\nTime: %v\n", sum.Games, sum.Plies, sum.Failed, sum.Elapsed)

	if err != nil || sum.Failed > 0 {
		os.Exit(1)
	}
}
