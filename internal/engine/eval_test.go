package engine

import (
	"testing"

	"github.com/hailam/chessbot/internal/board"
)

func mustFEN(t *testing.T, fen string) board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}
	return pos
}

func TestEvaluateSymmetry(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"start position", board.StartFEN, 0},
		{"white queen", "4k3/8/8/8/8/8/8/4K2Q w - - 0 1", 900},
		{"black queen", "4k2q/8/8/8/8/8/8/4K3 w - - 0 1", -900},
		{"bare kings", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(mustFEN(t, tc.fen)); got != tc.want {
				t.Errorf("Evaluate = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEvaluateMirrored(t *testing.T) {
	fens := [][2]string{
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
			"r3k2r/pppbbppp/2n2q1P/1P2p3/3pn3/BN2PNP1/P1PPQPB1/R3K2R b KQkq - 0 1"},
		{"4k3/8/8/6p1/3Q3r/8/8/4K3 w - - 0 1",
			"4k3/8/8/3q3R/6P1/8/8/4K3 b - - 0 1"},
	}
	for _, pair := range fens {
		a, b := Evaluate(mustFEN(t, pair[0])), Evaluate(mustFEN(t, pair[1]))
		if a != -b {
			t.Errorf("Evaluate(%s) = %d, mirrored = %d", pair[0], a, b)
		}
	}
}

func TestIsEndgame(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{board.StartFEN, false},
		{"rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1", true},
		{"4k3/8/8/8/8/8/8/4K2Q w - - 0 1", true},
		{"3qk3/pppppppp/8/8/8/8/PPPPPPPP/3QK3 w - - 0 1", false},
	}

	for _, tc := range tests {
		t.Run(tc.fen, func(t *testing.T) {
			if got := IsEndgame(mustFEN(t, tc.fen)); got != tc.want {
				t.Errorf("IsEndgame = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPieceValue(t *testing.T) {
	want := map[board.PieceType]int{
		board.Pawn: 100, board.Knight: 300, board.Bishop: 300,
		board.Rook: 500, board.Queen: 900, board.King: 0, board.NoPieceType: 0,
	}
	for pt, v := range want {
		if got := PieceValue(pt); got != v {
			t.Errorf("PieceValue(%s) = %d, want %d", pt, got, v)
		}
	}
}
