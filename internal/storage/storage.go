package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Storage key prefixes
const (
	keyPerftPrefix = "perft/"
	keyGamePrefix  = "game/"
	keyStats       = "stats"
)

// PerftRecord is a verified node count for one position and depth.
type PerftRecord struct {
	FEN        string        `json:"fen"`
	Depth      int           `json:"depth"`
	Nodes      uint64        `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Result is the outcome of a finished game.
type Result int

const (
	ResultWhiteWins Result = iota
	ResultBlackWins
	ResultDraw
)

func (r Result) String() string {
	switch r {
	case ResultWhiteWins:
		return "1-0"
	case ResultBlackWins:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

// GameRecord stores a finished game.
type GameRecord struct {
	ID       uint64        `json:"id"`
	StartFEN string        `json:"start_fen"`
	Moves    []string      `json:"moves"`
	FinalFEN string        `json:"final_fen"`
	Result   Result        `json:"result"`
	Reason   string        `json:"reason"`
	Duration time.Duration `json:"duration"`
	PlayedAt time.Time     `json:"played_at"`
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed   int           `json:"games_played"`
	WhiteWins     int           `json:"white_wins"`
	BlackWins     int           `json:"black_wins"`
	Draws         int           `json:"draws"`
	TotalPlies    int           `json:"total_plies"`
	LongestGame   int           `json:"longest_game"`
	TotalPlayTime time.Duration `json:"total_play_time"`
}

// DecisiveRate returns the share of games that did not end in a draw, as a percentage (0-100)
func (s *GameStats) DecisiveRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.WhiteWins+s.BlackWins) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
	log zerolog.Logger
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string, log zerolog.Logger) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = newBadgerLogger(log)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte(keyGamePrefix+"seq"), 16)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Debug().Str("dir", dir).Bool("in_memory", dir == "").Msg("storage opened")
	return &Storage{db: db, seq: seq, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.seq.Release(); err != nil {
		s.log.Warn().Err(err).Msg("release game sequence")
	}
	return s.db.Close()
}

// perftKey pads the depth so records iterate shallow depths first.
func perftKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("%s%03d/%s", keyPerftPrefix, depth, fen))
}

// SavePerft stores a perft record, replacing any earlier one for the same
// position and depth.
func (s *Storage) SavePerft(rec PerftRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(rec.FEN, rec.Depth), data)
	})
}

// LoadPerft returns the stored record for fen at depth, if any.
func (s *Storage) LoadPerft(fen string, depth int) (PerftRecord, bool, error) {
	var rec PerftRecord
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, found, err
}

// PerftRecords returns every stored perft record, ordered by depth then FEN.
func (s *Storage) PerftRecords() ([]PerftRecord, error) {
	var recs []PerftRecord
	err := s.scan(keyPerftPrefix, func(val []byte) error {
		var rec PerftRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

// RecordGame stores a finished game, assigns its ID and updates statistics.
func (s *Storage) RecordGame(game *GameRecord) error {
	id, err := s.seq.Next()
	if err != nil {
		return err
	}
	game.ID = id + 1
	if game.PlayedAt.IsZero() {
		game.PlayedAt = time.Now()
	}

	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}

		stats.GamesPlayed++
		stats.TotalPlayTime += game.Duration
		stats.TotalPlies += len(game.Moves)
		if len(game.Moves) > stats.LongestGame {
			stats.LongestGame = len(game.Moves)
		}
		switch game.Result {
		case ResultWhiteWins:
			stats.WhiteWins++
		case ResultBlackWins:
			stats.BlackWins++
		default:
			stats.Draws++
		}

		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(gameKey(game.ID)), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
}

// gameKey zero-pads the ID so games iterate in the order they were played.
func gameKey(id uint64) string {
	s := strconv.FormatUint(id, 10)
	return keyGamePrefix + strings.Repeat("0", 20-len(s)) + s
}

// Games returns every stored game in the order it was recorded.
func (s *Storage) Games() ([]GameRecord, error) {
	var games []GameRecord
	err := s.scan(keyGamePrefix+"0", func(val []byte) error {
		var g GameRecord
		if err := json.Unmarshal(val, &g); err != nil {
			return err
		}
		games = append(games, g)
		return nil
	})
	return games, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*GameStats, error) {
	stats := &GameStats{}
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

func (s *Storage) scan(prefix string, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}
