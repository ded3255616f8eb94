package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog"

	"github.com/hailam/chessbot/internal/engine"
	"github.com/hailam/chessbot/internal/logx"
	"github.com/hailam/chessbot/internal/storage"
	"github.com/hailam/chessbot/internal/uci"
)

var (
	depth      = flag.Int("depth", engine.DefaultDepth, "default search depth in plies")
	qdepth     = flag.Int("qdepth", engine.DefaultQDepth, "quiescence search depth (0 for static leaves)")
	engineKind = flag.String("engine", string(engine.KindSearch), "engine: search or first")
	journalDir = flag.String("journal", "", "analysis journal directory (empty for the data dir, off to disable)")
	logLevel   = flag.String("log-level", "info", "log level")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	// stdout carries the protocol, so everything else goes to stderr.
	log := logx.New(os.Stderr, *logLevel)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	journal := openJournal(log)
	if journal != nil {
		defer journal.Close()
	}

	limits, kind := settings(journal, log)

	protocol := uci.New(uci.Config{
		Limits:  limits,
		Kind:    kind,
		Journal: journal,
		Out:     os.Stdout,
		Diag:    os.Stderr,
		Log:     log,
	})
	if err := protocol.Run(os.Stdin); err != nil {
		log.Error().Err(err).Msg("reading commands")
	}
}

// openJournal opens the analysis journal. A journal that cannot be opened
// is reported and the engine runs without one.
func openJournal(log zerolog.Logger) *storage.Storage {
	dir := *journalDir
	if dir == "off" {
		return nil
	}
	if dir == "" {
		var err error
		if dir, err = storage.GetJournalDir(); err != nil {
			log.Warn().Err(err).Msg("no data directory, journal disabled")
			return nil
		}
	}
	journal, err := storage.Open(dir, log)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("journal disabled")
		return nil
	}
	return journal
}

// settings merges saved options with the command line. Flags given
// explicitly win over saved options.
func settings(journal *storage.Storage, log zerolog.Logger) (engine.SearchLimits, engine.Kind) {
	limits := engine.SearchLimits{Depth: *depth, QDepth: engine.QDepthLimit(*qdepth)}
	kind := engine.Kind(*engineKind)
	if journal == nil {
		return limits, kind
	}

	saved, err := journal.LoadOptions()
	if err != nil {
		log.Warn().Err(err).Msg("loading saved options")
		return limits, kind
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["depth"] {
		limits.Depth = saved.Depth
	}
	if !set["qdepth"] {
		limits.QDepth = engine.QDepthLimit(saved.QDepth)
	}
	if !set["engine"] {
		kind = engine.Kind(saved.EngineKind)
	}
	return limits, kind
}
