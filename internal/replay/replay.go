// Package replay cross-checks move generation against recorded games.
//
// Every game is replayed with an independent PGN library. At each ply the
// legal move count and check status of both implementations must agree,
// and exactly one of our legal moves must reach the library's next
// position.
package replay

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/freeeve/pgn/v3"
	"github.com/rs/zerolog"

	"github.com/hailam/chessbot/internal/board"
)

// Mismatch kinds.
const (
	KindMoveCount = "move-count"
	KindCheck     = "check"
	KindNoMatch   = "no-match"
	KindAmbiguous = "ambiguous"
	KindRejected  = "rejected"
)

// Mismatch is one disagreement between the two move generators.
type Mismatch struct {
	Game   int
	Ply    int
	FEN    string // position before the ply
	Kind   string
	Detail string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("game %d ply %d [%s] %s: %s", m.Game, m.Ply, m.Kind, m.FEN, m.Detail)
}

// Report is the outcome of replaying one game.
type Report struct {
	Plies      int
	Mismatches []Mismatch
}

// Validator replays games.
type Validator struct {
	Log zerolog.Logger
}

// Game replays game from the standard start position. After a mismatch
// our position is resynchronized from the library's.
func (v Validator) Game(game *pgn.Game) Report {
	var rep Report

	lib := pgn.NewStartingPosition()
	ours := board.StartPosition()

	for ply, mv := range game.Moves {
		fen := ours.FEN()
		add := func(kind, format string, args ...any) {
			rep.Mismatches = append(rep.Mismatches, Mismatch{
				Ply:    ply + 1,
				FEN:    fen,
				Kind:   kind,
				Detail: fmt.Sprintf(format, args...),
			})
		}

		legal := ours.GenerateLegalMoves()
		if n := len(pgn.GenerateLegalMoves(lib)); n != len(legal) {
			add(KindMoveCount, "library %d, ours %d", n, len(legal))
		}
		if lib.IsInCheck() != ours.InCheck() {
			add(KindCheck, "library %t, ours %t", lib.IsInCheck(), ours.InCheck())
		}

		if err := pgn.ApplyMove(lib, mv); err != nil {
			add(KindRejected, "%v", err)
			break
		}
		rep.Plies++

		want := positionKey(lib.ToFEN())
		var matches []board.Move
		for _, m := range legal {
			if positionKey(ours.Apply(m).FEN()) == want {
				matches = append(matches, m)
			}
		}

		switch len(matches) {
		case 1:
			ours = ours.Apply(matches[0])
			continue
		case 0:
			add(KindNoMatch, "no legal move reaches %s", want)
		default:
			add(KindAmbiguous, "moves %v all reach %s", board.MoveList(matches), want)
		}

		next, err := board.ParseFEN(lib.ToFEN())
		if err != nil {
			v.Log.Warn().Err(err).Str("fen", lib.ToFEN()).Msg("cannot resynchronize")
			break
		}
		ours = next
	}
	return rep
}

// positionKey keeps the placement, side to move and castling fields.
func positionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}

// Options bounds a Run.
type Options struct {
	MaxGames int // zero means all games
	Log      zerolog.Logger
}

// Summary totals a Run.
type Summary struct {
	Games      int
	Plies      int
	Failed     int // games with at least one mismatch
	Mismatches []Mismatch
	Elapsed    time.Duration
}

// Run replays every game in the PGN file at path (.pgn or .pgn.zst).
func Run(ctx context.Context, path string, opts Options) (Summary, error) {
	start := time.Now()
	v := Validator{Log: opts.Log}
	var sum Summary

	parser := pgn.Games(path)

	for game := range parser.Games {
		if ctx.Err() != nil || (opts.MaxGames > 0 && sum.Games >= opts.MaxGames) {
			parser.Stop()
			break
		}

		rep := v.Game(game)
		sum.Games++
		sum.Plies += rep.Plies
		if len(rep.Mismatches) > 0 {
			sum.Failed++
			for _, m := range rep.Mismatches {
				m.Game = sum.Games
				sum.Mismatches = append(sum.Mismatches, m)
				opts.Log.Warn().Str("mismatch", m.String()).Msg("move generators disagree")
			}
		}
	}
	sum.Elapsed = time.Since(start)

	if err := parser.Err(); err != nil {
		return sum, err
	}
	opts.Log.Info().
		Str("file", filepath.Base(path)).
		Int("games", sum.Games).
		Int("plies", sum.Plies).
		Int("failed", sum.Failed).
		Dur("elapsed", sum.Elapsed).
		Msg("replay complete")
	return sum, ctx.Err()
}
