package referee

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hailam/chessbot/internal/board"
	"github.com/hailam/chessbot/internal/engine"
)

type fakeReference struct {
	evals  map[string]Evaluation
	depths []int
	err    error
}

func (f *fakeReference) Evaluate(ctx context.Context, fen string, depth int) (Evaluation, error) {
	f.depths = append(f.depths, depth)
	if f.err != nil {
		return Evaluation{}, f.err
	}
	return f.evals[fen], nil
}

func (f *fakeReference) Close() error { return nil }

const (
	freeQueen = "q3k3/8/8/8/8/8/8/R3K3 w - - 0 1"
	quiet     = "4k3/8/8/8/8/8/8/4K3 w - - 0 1"
	backRank  = "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1"
)

func newReferee(ref Reference) *Referee {
	return &Referee{
		Engine:    engine.NewSearchEngine(zerolog.Nop()),
		Reference: ref,
		Limits:    engine.SearchLimits{Depth: 2, QDepth: engine.DefaultQDepth},
		Log:       zerolog.Nop(),
	}
}

func TestCompare(t *testing.T) {
	ref := &fakeReference{evals: map[string]Evaluation{
		freeQueen: {BestMove: "a1a8", Score: 480},
		quiet:     {BestMove: "0000", Score: 10},
		backRank:  {BestMove: "a1a8", Score: 1, Mate: true},
	}}
	verdicts, err := newReferee(ref).Compare(context.Background(), []string{freeQueen, quiet, backRank})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(verdicts) != 3 {
		t.Fatalf("%d verdicts, want 3", len(verdicts))
	}

	v := verdicts[0]
	if !v.Agree || v.OurMove != "a1a8" {
		t.Errorf("free queen verdict = %+v, want agreement on a1a8", v)
	}
	if v.Gap != abs(v.OurScore-480) {
		t.Errorf("gap = %d, want |%d-480|", v.Gap, v.OurScore)
	}
	if v := verdicts[1]; v.Agree || v.Gap != abs(v.OurScore-10) {
		t.Errorf("quiet verdict = %+v", v)
	}
	if !verdicts[2].RefMate || verdicts[2].OurScore != engine.MateScore {
		t.Errorf("back rank verdict = %+v", verdicts[2])
	}

	for i, d := range ref.depths {
		if d != 2 {
			t.Errorf("reference call %d at depth %d, want the search depth 2", i, d)
		}
	}

	agree, meanGap := Agreement(verdicts)
	if agree != 2 {
		t.Errorf("agree = %d, want 2", agree)
	}
	want := float64(verdicts[0].Gap+verdicts[1].Gap) / 2
	if meanGap != want {
		t.Errorf("mean gap = %v, want %v (mates excluded)", meanGap, want)
	}
}

func TestCompareErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := newReferee(&fakeReference{}).Compare(context.Background(), []string{"not a fen"})
	if !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("bad FEN: err = %v, want ErrInvalidFEN", err)
	}

	verdicts, err := newReferee(&fakeReference{err: boom}).Compare(context.Background(), []string{quiet})
	if !errors.Is(err, boom) || len(verdicts) != 0 {
		t.Errorf("reference failure: verdicts %v err %v", verdicts, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newReferee(&fakeReference{}).Compare(ctx, []string{quiet}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: err = %v", err)
	}
}

func TestRefDepthOverride(t *testing.T) {
	ref := &fakeReference{evals: map[string]Evaluation{}}
	r := newReferee(ref)
	r.RefDepth = 12
	if _, err := r.Compare(context.Background(), []string{quiet}); err != nil {
		t.Fatal(err)
	}
	if len(ref.depths) != 1 || ref.depths[0] != 12 {
		t.Errorf("reference depths = %v, want [12]", ref.depths)
	}
}

func TestReadFENs(t *testing.T) {
	fens, err := ReadFENs(strings.NewReader("# suite\n" + quiet + "\n\n  " + freeQueen + "  \n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(fens) != 2 || fens[0] != quiet || fens[1] != freeQueen {
		t.Errorf("fens = %q", fens)
	}
}
