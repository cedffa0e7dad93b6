package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/verte-zerg/speedtype/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "speedtype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestStoreGetMissingKey(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Get(context.Background(), "typingLeaderboard")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorePutOverwrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Put(ctx, "k", []byte(`[1]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Put(ctx, "k", []byte(`[2,3]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := st.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[2,3]` {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestStoreListSessionsLast(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 4; i++ {
		rec := model.SessionRecord{
			EndedAt:   base.Add(time.Duration(i) * time.Minute),
			Duration:  30,
			Elapsed:   20 + i,
			WPM:       40 + i,
			Accuracy:  90.5,
			Reason:    "matched",
			Text:      "The quick brown fox",
			Qualified: i%2 == 0,
		}
		if _, err := st.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	all, err := st.ListSessions(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(all))
	}

	last, err := st.ListSessions(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(last))
	}
	if last[0].WPM != 42 || last[1].WPM != 43 {
		t.Fatalf("expected last two sessions in order, got %+v", last)
	}
	if !last[0].Qualified || last[1].Qualified {
		t.Fatalf("unexpected qualified flags: %+v", last)
	}
	if !last[1].EndedAt.Equal(base.Add(3 * time.Minute)) {
		t.Fatalf("unexpected ended_at: %v", last[1].EndedAt)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "data"))
	ctx := context.Background()

	if _, err := f.Get(ctx, "typingLeaderboard"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := f.Put(ctx, "typingLeaderboard", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := f.Get(ctx, "typingLeaderboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("unexpected value %q", got)
	}
	if want := filepath.Join(dir, "data", "typingLeaderboard.json"); f.Path("typingLeaderboard") != want {
		t.Fatalf("unexpected path %q", f.Path("typingLeaderboard"))
	}
}

func TestFileSanitizesKey(t *testing.T) {
	f := NewFile("/tmp/x")
	if got := f.Path("../evil key"); got != filepath.Join("/tmp/x", "___evil_key.json") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	value := []byte("abc")
	if err := m.Put(ctx, "k", value); err != nil {
		t.Fatalf("put: %v", err)
	}
	value[0] = 'z'
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("expected stored copy, got %q", got)
	}
}
