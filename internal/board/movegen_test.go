package board

import (
	"sort"
	"testing"
)

func legalStrings(pos Position) []string {
	out := pos.GenerateLegalMoves().Strings()
	sort.Strings(out)
	return out
}

func hasMove(pos Position, s string) bool {
	for _, m := range pos.GenerateLegalMoves() {
		if m.String() == s {
			return true
		}
	}
	return false
}

func TestCastlingGating(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want bool
	}{
		{"king side available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", true},
		{"queen side available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", true},
		{"king side blocked", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", "e1g1", false},
		{"queen side blocked on b1", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", "e1c1", false},
		{"through attacked f1", "r3k2r/8/8/8/8/5r2/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"destination attacked", "r3k2r/8/8/8/8/6r1/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"king in check", "r3k2r/8/8/8/8/4r3/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"rook square attacked is fine", "r3k2r/8/8/8/8/7r/8/R3K2R w KQkq - 0 1", "e1g1", true},
		{"b1 attacked is fine", "r3k2r/8/8/8/8/1r6/8/R3K2R w KQkq - 0 1", "e1c1", true},
		{"no right", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "e1g1", false},
		{"black king side", "r3k2r/8/8/8/8/8/8/4K3 b kq - 0 1", "e8g8", true},
		{"black queen side", "r3k2r/8/8/8/8/8/8/4K3 b kq - 0 1", "e8c8", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			if got := hasMove(pos, tc.move); got != tc.want {
				t.Errorf("%s legal = %v, want %v (moves: %v)", tc.move, got, tc.want, legalStrings(pos))
			}
		})
	}
}

func TestEnPassantGenerated(t *testing.T) {
	pos := mustFEN(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 1")
	if !hasMove(pos, "e5d6") {
		t.Errorf("e5d6 missing: %v", legalStrings(pos))
	}
	noEP := mustFEN(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq - 0 1")
	if hasMove(noEP, "e5d6") {
		t.Error("e5d6 generated without en passant target")
	}
}

func TestPromotionOrder(t *testing.T) {
	pos := mustFEN(t, "8/P3k3/8/8/8/8/8/4K3 w - - 0 1")
	var promos []string
	for _, m := range pos.GenerateLegalMoves() {
		if m.From() == A7 {
			promos = append(promos, m.String())
		}
	}
	want := []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n"}
	if len(promos) != len(want) {
		t.Fatalf("promotions = %v, want %v", promos, want)
	}
	for i := range want {
		if promos[i] != want[i] {
			t.Errorf("promotion %d = %s, want %s", i, promos[i], want[i])
		}
	}
}

func TestGenerationOrder(t *testing.T) {
	moves := StartPosition().GenerateLegalMoves()
	if len(moves) != 20 {
		t.Fatalf("start position has %d moves, want 20", len(moves))
	}
	if got := moves[0].String(); got != "b1c3" {
		t.Errorf("first move = %s, want b1c3", got)
	}
	for i := 1; i < len(moves); i++ {
		if moves[i].From() < moves[i-1].From() {
			t.Errorf("moves not ordered by origin square: %v", moves)
			break
		}
	}
}

func TestLegalityInvariant(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"4k3/8/8/8/8/8/4r3/4K3 w - - 0 1",
		"4k3/8/8/8/1b6/8/3P4/4K3 w - - 0 1",
	}

	for _, fen := range fens {
		pos := mustFEN(t, fen)
		us := pos.SideToMove
		for _, m := range pos.GenerateLegalMoves() {
			next := pos.Apply(m)
			if next.IsSquareAttacked(next.KingSquare(us), us.Other()) {
				t.Errorf("%s: %s leaves king attacked", fen, m)
			}
		}
	}
}

func TestPinnedPieceCannotMove(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/1b6/8/3P4/4K3 w - - 0 1")
	for _, m := range pos.GenerateLegalMoves() {
		if m.From() == D2 {
			t.Errorf("pinned pawn moved: %s", m)
		}
	}
}

func TestKingInCheckHasMoves(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		t.Fatal("no legal moves while in check with captures available")
	}
	if !hasMove(pos, "e1e2") {
		t.Errorf("e1e2 capture missing: %v", legalStrings(pos))
	}
}

func TestMissingKingDiscardsMoves(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/R7 w - - 0 1")
	if n := len(pos.GeneratePseudoLegalMoves()); n == 0 {
		t.Fatal("expected pseudo-legal rook moves")
	}
	if n := len(pos.GenerateLegalMoves()); n != 0 {
		t.Errorf("kingless side has %d legal moves, want 0", n)
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	mate := mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if !mate.IsCheckmate() {
		t.Error("back rank mate not detected")
	}
	if mate.IsStalemate() {
		t.Error("mate reported as stalemate")
	}

	stale := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !stale.IsStalemate() {
		t.Error("stalemate not detected")
	}
	if stale.IsCheckmate() {
		t.Error("stalemate reported as mate")
	}
}

func TestGenerateCaptures(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/6p1/3Q3r/8/8/4K3 w - - 0 1")
	caps := pos.GenerateCaptures()
	if len(caps) != 1 {
		t.Errorf("captures = %v, want [d4h4]", caps)
	}
	for _, m := range caps {
		if !m.IsCapture(pos) {
			t.Errorf("%s is not a capture", m)
		}
	}
	if !caps.Contains(NewMove(D4, H4)) {
		t.Errorf("d4h4 missing from captures %v", caps)
	}
}
