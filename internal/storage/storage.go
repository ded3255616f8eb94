// Package storage keeps the analysis journal: engine options and a record
// of past analyses in a BadgerDB database.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyOptions        = "options"
	keyStats          = "stats"
	analysisKeyPrefix = "analysis/"
)

// ErrNotFound is returned when no analysis is journaled for a position.
var ErrNotFound = errors.New("not found")

// EngineOptions are the engine settings persisted between sessions.
type EngineOptions struct {
	Depth      int    `json:"depth"`
	QDepth     int    `json:"qdepth"`
	EngineKind string `json:"engine"`
}

// DefaultOptions returns the settings used when none were saved.
func DefaultOptions() EngineOptions {
	return EngineOptions{
		Depth:      3,
		QDepth:     8,
		EngineKind: "search",
	}
}

// AnalysisRecord is one journaled analysis.
type AnalysisRecord struct {
	FEN        string        `json:"fen"`
	BestMove   string        `json:"best_move"`
	Score      int           `json:"score"`
	PV         []string      `json:"pv"`
	Depth      int           `json:"depth"`
	Nodes      uint64        `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	Engine     string        `json:"engine"`
	AnalyzedAt time.Time     `json:"analyzed_at"`
}

// JournalStats aggregates over every recorded analysis.
type JournalStats struct {
	Analyses     int           `json:"analyses"`
	TotalNodes   uint64        `json:"total_nodes"`
	TotalTime    time.Duration `json:"total_time"`
	LastAnalyzed time.Time     `json:"last_analyzed"`
}

// NodesPerSecond returns the average search speed over the journal.
func (s JournalStats) NodesPerSecond() float64 {
	if s.TotalTime <= 0 {
		return 0
	}
	return float64(s.TotalNodes) / s.TotalTime.Seconds()
}

// Storage wraps BadgerDB for the journal.
type Storage struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	log     zerolog.Logger
}

// Open opens or creates a journal in dir.
func Open(dir string, log zerolog.Logger) (*Storage, error) {
	return open(badger.DefaultOptions(dir), log)
}

// OpenInMemory opens a journal that lives only as long as the process.
func OpenInMemory(log zerolog.Logger) (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), log)
}

func open(opts badger.Options, log zerolog.Logger) (*Storage, error) {
	opts.Logger = badgerLogger{log: log.With().Str("component", "badger").Logger()}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Storage{db: db, encoder: encoder, decoder: decoder, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

// SaveOptions persists the engine settings.
func (s *Storage) SaveOptions(opts EngineOptions) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
}

// LoadOptions returns the saved settings, or DefaultOptions if none.
func (s *Storage) LoadOptions() (EngineOptions, error) {
	opts := DefaultOptions()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &opts)
		})
	})
	return opts, err
}

// RecordAnalysis journals rec under its FEN, replacing any earlier
// analysis of the same position, and updates the stats.
func (s *Storage) RecordAnalysis(rec AnalysisRecord) error {
	if rec.AnalyzedAt.IsZero() {
		rec.AnalyzedAt = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	packed := s.encoder.EncodeAll(data, nil)

	err = s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.Analyses++
		stats.TotalNodes += rec.Nodes
		stats.TotalTime += rec.Elapsed
		stats.LastAnalyzed = rec.AnalyzedAt

		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(keyStats), statsData); err != nil {
			return err
		}
		return txn.Set(analysisKey(rec.FEN), packed)
	})
	if err != nil {
		return fmt.Errorf("record analysis: %w", err)
	}

	s.log.Debug().Str("fen", rec.FEN).Int("bytes", len(packed)).Msg("analysis journaled")
	return nil
}

// LookupAnalysis returns the journaled analysis of fen, or ErrNotFound.
func (s *Storage) LookupAnalysis(fen string) (AnalysisRecord, error) {
	var rec AnalysisRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(fen))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data, err := s.decoder.DecodeAll(val, nil)
			if err != nil {
				return fmt.Errorf("decompress analysis: %w", err)
			}
			return json.Unmarshal(data, &rec)
		})
	})
	return rec, err
}

// Analyses calls fn for every journaled analysis in key order until fn
// returns false.
func (s *Storage) Analyses(fn func(AnalysisRecord) bool) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(analysisKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec AnalysisRecord
			err := it.Item().Value(func(val []byte) error {
				data, err := s.decoder.DecodeAll(val, nil)
				if err != nil {
					return err
				}
				return json.Unmarshal(data, &rec)
			})
			if err != nil {
				return err
			}
			if !fn(rec) {
				return nil
			}
		}
		return nil
	})
}

// LoadStats returns the journal statistics.
func (s *Storage) LoadStats() (JournalStats, error) {
	var stats JournalStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (JournalStats, error) {
	var stats JournalStats
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stats)
	})
	return stats, err
}

func analysisKey(fen string) []byte {
	return []byte(analysisKeyPrefix + fen)
}

// badgerLogger routes badger's internal logging into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}
