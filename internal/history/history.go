// Package history keeps a capped, newest-first log of finished hands per
// player, optionally persisted to a JSON file.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/holdem-rooms/internal/fileutil"
	"github.com/lox/holdem-rooms/internal/game"
)

// DefaultLimit is the number of records kept.
const DefaultLimit = 100

// Result is the outcome of a hand for one player.
type Result string

const (
	Win  Result = "win"
	Lose Result = "lose"
	Tie  Result = "tie"
)

// Record is one player's view of a finished hand.
type Record struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	RoomID     string    `json:"roomId,omitempty"`
	HandNumber int       `json:"handNumber"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Result     Result    `json:"result"`
	FinalChips int       `json:"finalChips"`
	ChipChange int       `json:"chipChange"`
	HandRank   string    `json:"handRank,omitempty"`
	Winners    []string  `json:"winners"`
}

// FromSummary builds the record of playerID for a finished hand. It returns
// false when the player was not dealt into the hand.
func FromSummary(s game.HandSummary, roomID, playerID string, at time.Time) (Record, bool) {
	pr, ok := s.Player(playerID)
	if !ok || pr.SatOut {
		return Record{}, false
	}

	rec := Record{
		ID:         uuid.NewString(),
		Timestamp:  at,
		RoomID:     roomID,
		HandNumber: s.HandNumber,
		PlayerID:   pr.PlayerID,
		PlayerName: pr.Name,
		Result:     Lose,
		FinalChips: pr.FinalChips,
		ChipChange: pr.ChipChange(),
	}
	for _, w := range s.Winners {
		rec.Winners = append(rec.Winners, w.Name)
	}
	if s.IsWinner(playerID) {
		rec.Result = Win
		if len(s.Winners) > 1 {
			rec.Result = Tie
		}
	}
	if pr.Hand != nil && !pr.Folded {
		rec.HandRank = pr.Hand.Name()
	}
	return rec, true
}

// Log is a bounded list of records, newest first. It is safe for
// concurrent use.
type Log struct {
	writeMu sync.Mutex // orders snapshots with their file writes
	mu      sync.RWMutex
	path    string
	limit   int
	records []Record
	logger  *log.Logger
}

// NewLog returns an in-memory log.
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit, logger: log.New(io.Discard)}
}

// Open returns a log backed by path, loading existing records. An empty path
// gives an in-memory log; a missing file starts empty.
func Open(path string, limit int, logger *log.Logger) (*Log, error) {
	l := NewLog(limit)
	if logger != nil {
		l.logger = logger.WithPrefix("history")
	}
	l.path = path
	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return l, nil
	case err != nil:
		return nil, fmt.Errorf("read history: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &l.records); err != nil {
			return nil, fmt.Errorf("decode history %s: %w", path, err)
		}
	}
	if len(l.records) > l.limit {
		l.records = l.records[:l.limit]
	}
	l.logger.Debug("Loaded history", "path", path, "records", len(l.records))
	return l, nil
}

// Append adds records to the front of the log, newest last in the argument
// list, trims to the limit and persists when file-backed.
func (l *Log) Append(records ...Record) error {
	if len(records) == 0 {
		return nil
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	l.mu.Lock()
	for _, r := range records {
		l.records = append([]Record{r}, l.records...)
	}
	if len(l.records) > l.limit {
		l.records = l.records[:l.limit]
	}
	snapshot := append([]Record(nil), l.records...)
	l.mu.Unlock()

	if l.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := fileutil.WriteFileAtomic(l.path, data, 0o644); err != nil {
		l.logger.Error("Failed to persist history", "path", l.path, "error", err)
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// Entries returns a copy of the records, newest first.
func (l *Log) Entries() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Record(nil), l.records...)
}

// ForPlayer returns the records of one player, newest first.
func (l *Log) ForPlayer(playerID string) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Record
	for _, r := range l.records {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records held.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Stats totals a set of records.
type Stats struct {
	Hands    int `json:"hands"`
	Wins     int `json:"wins"`
	Ties     int `json:"ties"`
	Losses   int `json:"losses"`
	NetChips int `json:"netChips"`
}

// WinRate is the share of hands won outright.
func (s Stats) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// Summarize counts results and sums chip changes.
func Summarize(records []Record) Stats {
	var s Stats
	for _, r := range records {
		s.Hands++
		s.NetChips += r.ChipChange
		switch r.Result {
		case Win:
			s.Wins++
		case Tie:
			s.Ties++
		default:
			s.Losses++
		}
	}
	return s
}
