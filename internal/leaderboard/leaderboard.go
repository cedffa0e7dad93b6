// Package leaderboard keeps the persisted top scores.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/scoring"
	"github.com/verte-zerg/speedtype/internal/store"
)

// Key is the storage key holding the JSON-encoded board.
const Key = "typingLeaderboard"

// MaxEntries caps the board length.
const MaxEntries = 10

const previewRunes = 30

// Storage reads and overwrites whole values by key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Board is the in-memory leaderboard backed by Storage.
type Board struct {
	storage Storage
	log     *zap.Logger
	entries []model.ScoreRecord
	newID   func() string
}

// New returns an empty board. Call Load to read persisted entries.
func New(storage Storage, log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	return &Board{
		storage: storage,
		log:     log,
		newID:   func() string { return uuid.NewString() },
	}
}

// Load replaces the board with the persisted entries. Missing or malformed
// data yields an empty board.
func (b *Board) Load(ctx context.Context) []model.ScoreRecord {
	b.entries = nil
	data, err := b.storage.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			b.log.Warn("failed to read leaderboard", zap.Error(err))
		}
		return b.Entries()
	}
	entries, err := decode(data)
	if err != nil {
		b.log.Warn("ignoring malformed leaderboard", zap.Error(err))
		return b.Entries()
	}
	b.entries = rank(entries)
	b.log.Debug("leaderboard loaded", zap.Int("entries", len(b.entries)))
	return b.Entries()
}

// decode parses a stored board. Any null or out-of-range element rejects the
// whole blob.
func decode(data []byte) ([]model.ScoreRecord, error) {
	var raw []*model.ScoreRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("leaderboard is not an array")
	}
	entries := make([]model.ScoreRecord, 0, len(raw))
	for i, rec := range raw {
		switch {
		case rec == nil:
			return nil, fmt.Errorf("entry %d is null", i)
		case rec.WPM < 0:
			return nil, fmt.Errorf("entry %d has negative wpm %d", i, rec.WPM)
		case rec.Accuracy < 0 || rec.Accuracy > 100:
			return nil, fmt.Errorf("entry %d has accuracy %v outside [0,100]", i, rec.Accuracy)
		case rec.Time < 0:
			return nil, fmt.Errorf("entry %d has negative time %d", i, rec.Time)
		}
		entries = append(entries, *rec)
	}
	return entries, nil
}

// Entries returns a copy of the current board, best first.
func (b *Board) Entries() []model.ScoreRecord {
	out := make([]model.ScoreRecord, len(b.entries))
	copy(out, b.entries)
	return out
}

// Submit inserts a qualifying result and persists the board. It returns the
// 1-based rank of the new record, or 0 when the result did not qualify or
// fell outside the top entries. The in-memory board is updated even when the
// write fails.
func (b *Board) Submit(ctx context.Context, result scoring.Result, sampleText, dateLabel string, duration int) (int, error) {
	if !scoring.Qualifies(result) {
		return 0, nil
	}
	rec := model.ScoreRecord{
		ID:       b.newID(),
		WPM:      result.WPM,
		Accuracy: result.Accuracy,
		Text:     preview(sampleText),
		Date:     dateLabel,
		Time:     duration,
	}
	b.entries = rank(append(b.entries, rec))

	pos := 0
	for i, e := range b.entries {
		if e.ID == rec.ID {
			pos = i + 1
			break
		}
	}
	b.log.Info("score submitted",
		zap.Int("wpm", rec.WPM),
		zap.Float64("accuracy", rec.Accuracy),
		zap.Int("rank", pos))

	if err := b.save(ctx); err != nil {
		return pos, err
	}
	return pos, nil
}

// Clear empties the board and persists it.
func (b *Board) Clear(ctx context.Context) error {
	b.entries = nil
	return b.save(ctx)
}

func (b *Board) save(ctx context.Context) error {
	entries := b.entries
	if entries == nil {
		entries = []model.ScoreRecord{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}
	if err := b.storage.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}
	return nil
}

// rank sorts entries by WPM then accuracy, both descending, and truncates.
func rank(entries []model.ScoreRecord) []model.ScoreRecord {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WPM == entries[j].WPM {
			return entries[i].Accuracy > entries[j].Accuracy
		}
		return entries[i].WPM > entries[j].WPM
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewRunes {
		runes = runes[:previewRunes]
	}
	return string(runes)
}
