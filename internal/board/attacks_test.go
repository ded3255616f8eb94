package board

import "testing"

func TestIsSquareAttacked(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		sq   Square
		by   Color
		want bool
	}{
		{"white pawn", "4k3/8/8/8/8/3P4/8/4K3 w - - 0 1", E4, White, true},
		{"white pawn not backwards", "4k3/8/8/8/8/3P4/8/4K3 w - - 0 1", E2, White, false},
		{"black pawn", "4k3/8/3p4/8/8/8/8/4K3 w - - 0 1", C5, Black, true},
		{"black pawn forward only", "4k3/8/3p4/8/8/8/8/4K3 w - - 0 1", D5, Black, false},
		{"knight", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", C3, White, true},
		{"knight wraps not", "4k3/8/8/8/8/8/8/7N w - - 0 1", A2, White, false},
		{"king", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", D2, White, true},
		{"rook open file", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", A7, White, true},
		{"rook blocked", "4k3/8/8/8/P7/8/8/R3K3 w - - 0 1", A7, White, false},
		{"bishop diagonal", "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", H6, White, true},
		{"bishop blocked by enemy", "4k3/8/8/6p1/8/8/8/2B1K3 w - - 0 1", H6, White, false},
		{"queen orthogonal", "3qk3/8/8/8/8/8/8/4K3 w - - 0 1", D1, Black, true},
		{"queen long diagonal", "4k3/8/8/8/8/8/8/q3K3 w - - 0 1", H8, Black, true},
		{"queen diagonal blocked", "4k3/8/8/8/8/2P5/8/q3K3 w - - 0 1", G7, Black, false},
		{"rook does not attack diagonally", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", B2, White, false},
		{"wrong color", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", A7, Black, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			if got := pos.IsSquareAttacked(tc.sq, tc.by); got != tc.want {
				t.Errorf("IsSquareAttacked(%s, %s) = %v, want %v", tc.sq, tc.by, got, tc.want)
			}
		})
	}
}

func TestInCheck(t *testing.T) {
	if StartPosition().InCheck() {
		t.Error("start position in check")
	}
	if !mustFEN(t, "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1").InCheck() {
		t.Error("expected white in check from e2 rook")
	}
	if mustFEN(t, "8/8/8/8/8/8/4r3/8 w - - 0 1").InCheck() {
		t.Error("kingless side reported in check")
	}
}
