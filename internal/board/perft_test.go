package board

import "testing"

type perftCase struct {
	depth    int
	expected uint64
}

func runPerft(t *testing.T, fen string, cases []perftCase) {
	t.Helper()
	pos := mustFEN(t, fen)
	for _, tc := range cases {
		if testing.Short() && tc.expected > 100000 {
			continue
		}
		t.Run("", func(t *testing.T) {
			if got := pos.Perft(tc.depth); got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, StartFEN, []perftCase{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	})
}

// Kiwipete exercises castling, en passant and promotions together.
func TestPerftKiwipete(t *testing.T) {
	runPerft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []perftCase{
		{1, 48},
		{2, 2039},
		{3, 97862},
	})
}

func TestPerftPosition3(t *testing.T) {
	runPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []perftCase{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	})
}

func TestPerftPosition4(t *testing.T) {
	runPerft(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []perftCase{
		{1, 6},
		{2, 264},
		{3, 9467},
	})
}

func TestPerftPosition5(t *testing.T) {
	runPerft(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []perftCase{
		{1, 44},
		{2, 1486},
		{3, 62379},
	})
}

func TestDivideSumsToPerft(t *testing.T) {
	pos := StartPosition()
	var total uint64
	for _, n := range pos.Divide(3) {
		total += n
	}
	if total != 8902 {
		t.Errorf("divide(3) sums to %d, want 8902", total)
	}
}
