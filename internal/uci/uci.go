// Package uci drives an engine over the Universal Chess Interface
// protocol, plus a few debugging commands.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessbot/internal/board"
	"github.com/hailam/chessbot/internal/engine"
	"github.com/hailam/chessbot/internal/storage"
)

// Option limits advertised to the GUI.
const (
	maxDepth  = 12
	maxQDepth = 16
)

// Config sets up a protocol session.
type Config struct {
	Limits  engine.SearchLimits // zero value means engine.DefaultLimits
	Kind    engine.Kind
	Journal *storage.Storage // optional
	Out     io.Writer        // protocol responses
	Diag    io.Writer        // "info string" diagnostics
	Log     zerolog.Logger
}

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   engine.Engine
	kind     engine.Kind
	limits   engine.SearchLimits
	position board.Position

	journal        *storage.Storage
	journalEnabled bool

	out  io.Writer
	diag io.Writer
	log  zerolog.Logger
}

// New creates a new UCI protocol handler.
func New(cfg Config) *UCI {
	if cfg.Diag == nil {
		cfg.Diag = io.Discard
	}
	if cfg.Limits == (engine.SearchLimits{}) {
		cfg.Limits = engine.DefaultLimits()
	}
	u := &UCI{
		limits:         cfg.Limits,
		position:       board.StartPosition(),
		journal:        cfg.Journal,
		journalEnabled: cfg.Journal != nil,
		out:            cfg.Out,
		diag:           cfg.Diag,
		log:            cfg.Log,
	}
	u.setEngine(cfg.Kind)
	return u
}

// Position returns the current position.
func (u *UCI) Position() board.Position {
	return u.position
}

// Run reads commands from r until "quit" or end of input.
func (u *UCI) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "ucinewgame":
			u.position = board.StartPosition()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches finish before the next command is read.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		case "eval":
			u.handleEval()
		case "journal":
			u.handleJournal()
		default:
			u.log.Debug().Str("cmd", cmd).Msg("unknown command ignored")
		}
	}
	return scanner.Err()
}

func (u *UCI) handleUCI() {
	fmt.Fprintln(u.out, "id name Chessbot")
	fmt.Fprintln(u.out, "id author Chessbot developers")
	fmt.Fprintln(u.out)
	limits := u.limits.Normalize()
	fmt.Fprintf(u.out, "option name Depth type spin default %d min 1 max %d\n", limits.Depth, maxDepth)
	fmt.Fprintf(u.out, "option name QuiescenceDepth type spin default %d min 0 max %d\n", limits.QDepth, maxQDepth)
	fmt.Fprintf(u.out, "option name Engine type combo default %s var %s var %s\n", u.kind, engine.KindSearch, engine.KindFirst)
	fmt.Fprintf(u.out, "option name Journal type check default %t\n", u.journalEnabled)
	fmt.Fprintln(u.out, "uciok")
}

func (u *UCI) setEngine(kind engine.Kind) {
	if kind != engine.KindFirst {
		kind = engine.KindSearch
	}
	u.kind = kind
	u.engine = engine.New(kind, u.log)
	if se, ok := u.engine.(*engine.SearchEngine); ok {
		se.OnInfo = u.logSearch
	}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos [moves e2e4 e7e5 ...]
//   - position fen <six fields> [moves ...]
//
// A FEN shorter than six fields leaves the current position untouched.
// Moves are applied until the first one that is not legal.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos board.Position
	var rest []string

	switch args[0] {
	case "startpos":
		pos = board.StartPosition()
		rest = args[1:]
	case "fen":
		if len(args) < 7 {
			u.warn("Invalid FEN: need 6 fields, got %d", len(args)-1)
			return
		}
		fen := strings.Join(args[1:7], " ")
		parsed, err := board.ParseFEN(fen)
		if err != nil {
			u.warn("Malformed FEN, using what parses: %v", err)
			parsed = board.FromFEN(fen)
		}
		pos = parsed
		rest = args[7:]
	default:
		return
	}

	if len(rest) > 0 && rest[0] == "moves" {
		for _, s := range rest[1:] {
			m, err := matchLegal(pos, s)
			if err != nil {
				u.warn("Invalid move %s: %v", s, err)
				break
			}
			pos = pos.Apply(m)
		}
	}
	u.position = pos
}

var errNotLegal = errors.New("not a legal move")

// matchLegal finds the legal move of pos with the squares written in s.
// A promotion letter must match exactly; without one the first legal
// move between the squares is taken, which is the queen promotion.
func matchLegal(pos board.Position, s string) (board.Move, error) {
	parsed, err := board.ParseMove(s)
	if err != nil {
		return board.NoMove, err
	}
	for _, m := range pos.GenerateLegalMoves() {
		if m.From() != parsed.From() || m.To() != parsed.To() {
			continue
		}
		if parsed.IsPromotion() && m.Promotion() != parsed.Promotion() {
			continue
		}
		return m, nil
	}
	return board.NoMove, errNotLegal
}

// parseGoOptions reads "go depth N". Other parameters are accepted and
// ignored; the search always runs to a fixed depth.
func (u *UCI) parseGoOptions(args []string) engine.SearchLimits {
	limits := u.limits
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			if d, err := strconv.Atoi(args[i+1]); err == nil {
				limits.Depth = d
			}
			i++
		}
	}
	return limits
}

func (u *UCI) handleGo(args []string) {
	limits := u.parseGoOptions(args)
	pos := u.position

	a := u.engine.Analyze(pos, limits)

	if len(a.PV) > 0 {
		u.sendInfo(a)
	}
	fmt.Fprintf(u.out, "bestmove %s\n", a.BestMove)

	u.record(pos, a)
}

func (u *UCI) sendInfo(a engine.Analysis) {
	parts := []string{
		fmt.Sprintf("depth %d", a.Depth),
		fmt.Sprintf("score cp %d", a.Score),
		fmt.Sprintf("nodes %d", a.Nodes),
		fmt.Sprintf("time %d", a.Time.Milliseconds()),
	}
	if a.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(a.Nodes)/a.Time.Seconds())))
	}
	parts = append(parts, "pv "+strings.Join(a.PV, " "))
	fmt.Fprintf(u.out, "info %s\n", strings.Join(parts, " "))
}

func (u *UCI) logSearch(info engine.SearchInfo) {
	u.log.Debug().
		Int("depth", info.Depth).
		Str("score", engine.ScoreString(info.Score)).
		Uint64("nodes", info.Nodes).
		Dur("time", info.Time).
		Strs("pv", board.MovesToSAN(u.position, info.PV)).
		Msg("search finished")
}

func (u *UCI) record(pos board.Position, a engine.Analysis) {
	if !u.journalEnabled || u.journal == nil {
		return
	}
	err := u.journal.RecordAnalysis(storage.AnalysisRecord{
		FEN:      pos.FEN(),
		BestMove: a.BestMove,
		Score:    a.Score,
		PV:       a.PV,
		Depth:    a.Depth,
		Nodes:    a.Nodes,
		Elapsed:  a.Time,
		Engine:   string(u.kind),
	})
	if err != nil {
		u.log.Warn().Err(err).Msg("journal write failed")
	}
}

func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	var target *[]string

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	key := strings.ToLower(strings.Join(name, " "))
	val := strings.Join(value, " ")

	switch key {
	case "depth":
		d, err := strconv.Atoi(val)
		if err != nil || d < 1 || d > maxDepth {
			u.warn("Invalid Depth %q", val)
			return
		}
		u.limits.Depth = d
	case "quiescencedepth":
		q, err := strconv.Atoi(val)
		if err != nil || q < 0 || q > maxQDepth {
			u.warn("Invalid QuiescenceDepth %q", val)
			return
		}
		u.limits.QDepth = engine.QDepthLimit(q)
	case "engine":
		u.setEngine(engine.Kind(strings.ToLower(val)))
	case "journal":
		u.journalEnabled = strings.ToLower(val) == "true"
		if u.journalEnabled && u.journal == nil {
			u.warn("Journal unavailable")
			u.journalEnabled = false
		}
		return
	default:
		u.log.Debug().Str("option", key).Msg("unknown option ignored")
		return
	}
	u.saveOptions()
}

func (u *UCI) saveOptions() {
	if u.journal == nil {
		return
	}
	err := u.journal.SaveOptions(storage.EngineOptions{
		Depth:      u.limits.Normalize().Depth,
		QDepth:     u.limits.Normalize().QDepth,
		EngineKind: string(u.kind),
	})
	if err != nil {
		u.log.Warn().Err(err).Msg("saving options failed")
	}
}

func (u *UCI) handleDisplay() {
	pos := u.position
	fmt.Fprint(u.out, pos.String())
	fmt.Fprintf(u.out, "Fen: %s\n", pos.FEN())

	legal := pos.GenerateLegalMoves()
	sans := make([]string, len(legal))
	for i, m := range legal {
		sans[i] = m.SAN(pos)
	}
	fmt.Fprintf(u.out, "Legal moves (%d): %s\n", len(legal), strings.Join(sans, " "))
	if err := pos.Validate(); err != nil {
		fmt.Fprintf(u.diag, "info string Position warnings: %v\n", strings.ReplaceAll(err.Error(), "\n", "; "))
	}
}

// handlePerft runs a perft test and prints the count below each move.
func (u *UCI) handlePerft(args []string) {
	depth := 4
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}

	start := time.Now()
	div := u.position.Divide(depth)
	elapsed := time.Since(start)

	moves := make([]board.Move, 0, len(div))
	for m := range div {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })

	var nodes uint64
	for _, m := range moves {
		fmt.Fprintf(u.out, "%s: %d\n", m, div[m])
		nodes += div[m]
	}
	fmt.Fprintf(u.out, "\nNodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(u.out, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

func (u *UCI) handleEval() {
	pos := u.position
	score := engine.Evaluate(pos)
	fmt.Fprintf(u.out, "Evaluation: %d cp (%s)\n", score, engine.ScoreString(score))
	fmt.Fprintf(u.out, "Endgame: %t\n", engine.IsEndgame(pos))
}

func (u *UCI) handleJournal() {
	if u.journal == nil {
		fmt.Fprintln(u.out, "Journal: disabled")
		return
	}
	rec, err := u.journal.LookupAnalysis(u.position.FEN())
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Fprintln(u.out, "Journal: no analysis for this position")
	case err != nil:
		u.warn("Journal lookup failed: %v", err)
	default:
		fmt.Fprintf(u.out, "Journal: bestmove %s score cp %d depth %d nodes %d engine %s at %s\n",
			rec.BestMove, rec.Score, rec.Depth, rec.Nodes, rec.Engine, rec.AnalyzedAt.Format(time.RFC3339))
		if len(rec.PV) > 0 {
			fmt.Fprintf(u.out, "Journal pv: %s\n", strings.Join(rec.PV, " "))
		}
	}
	if stats, err := u.journal.LoadStats(); err == nil {
		fmt.Fprintf(u.out, "Journal totals: %d analyses, %d nodes, %.0f nps\n",
			stats.Analyses, stats.TotalNodes, stats.NodesPerSecond())
	}
}

func (u *UCI) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(u.diag, "info string %s\n", msg)
	u.log.Warn().Msg(msg)
}
