package client

import (
	"testing"
	"time"

	"marque/socket"
	"marque/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id, title string, createdAt time.Time) store.Bookmark {
	return store.Bookmark{
		ID:        id,
		Owner:     "owner-a",
		URL:       "https://example.com/" + id,
		Title:     title,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func insertEvent(b store.Bookmark) socket.Event {
	return socket.Event{Type: socket.EventInsert, New: &b}
}

func ids(list []store.Bookmark) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}

func TestApplyInsertIsIdempotent(t *testing.T) {
	b := row("1", "X", time.Now())

	once := Apply(nil, insertEvent(b))
	twice := Apply(once, insertEvent(b))

	require.Len(t, twice, 1)
	assert.Equal(t, once, twice)
}

func TestApplyInsertReplacesExistingRowInPlace(t *testing.T) {
	now := time.Now()
	list := []store.Bookmark{row("2", "B", now), row("1", "A", now.Add(-time.Minute))}

	replacement := row("1", "A (renamed)", now.Add(-time.Minute))
	got := Apply(list, insertEvent(replacement))

	require.Len(t, got, 2)
	assert.Equal(t, []string{"2", "1"}, ids(got), "position must be preserved")
	assert.Equal(t, "A (renamed)", got[1].Title)
}

func TestApplyDeleteAbsentRowIsNoop(t *testing.T) {
	list := []store.Bookmark{row("1", "A", time.Now())}

	got := Apply(list, socket.Event{Type: socket.EventDelete, Old: &socket.RowRef{ID: "missing"}})

	assert.Equal(t, list, got)
}

func TestApplyDeleteRemovesRow(t *testing.T) {
	now := time.Now()
	list := []store.Bookmark{row("2", "B", now), row("1", "A", now.Add(-time.Minute))}

	got := Apply(list, socket.Event{Type: socket.EventDelete, Old: &socket.RowRef{ID: "2"}})

	assert.Equal(t, []string{"1"}, ids(got))
}

func TestApplyDeleteResolvesIDFromEitherSlot(t *testing.T) {
	now := time.Now()

	t.Run("id in old", func(t *testing.T) {
		list := []store.Bookmark{row("1", "A", now)}
		got := Apply(list, socket.Event{Type: socket.EventDelete, Old: &socket.RowRef{ID: "1"}})
		assert.Empty(t, got)
	})

	t.Run("id only in new", func(t *testing.T) {
		list := []store.Bookmark{row("1", "A", now)}
		b := row("1", "A", now)
		got := Apply(list, socket.Event{Type: socket.EventDelete, New: &b})
		assert.Empty(t, got)
	})

	t.Run("id in neither slot drops the event", func(t *testing.T) {
		list := []store.Bookmark{row("1", "A", now)}
		got := Apply(list, socket.Event{Type: socket.EventDelete})
		assert.Equal(t, list, got)
	})
}

func TestApplyUpdatePreservesPosition(t *testing.T) {
	now := time.Now()
	list := []store.Bookmark{
		row("3", "C", now),
		row("2", "B", now.Add(-time.Minute)),
		row("1", "A", now.Add(-2*time.Minute)),
	}

	updated := row("2", "B (edited)", now.Add(-time.Minute))
	got := Apply(list, socket.Event{Type: socket.EventUpdate, New: &updated})

	assert.Equal(t, []string{"3", "2", "1"}, ids(got))
	assert.Equal(t, "B (edited)", got[1].Title)
}

func TestApplyUpdateAbsentRowIsNoop(t *testing.T) {
	list := []store.Bookmark{row("1", "A", time.Now())}
	missing := row("9", "Z", time.Now())

	got := Apply(list, socket.Event{Type: socket.EventUpdate, New: &missing})

	assert.Equal(t, list, got)
}

func TestApplyInsertKeepsRecencyOrder(t *testing.T) {
	base := time.Now()
	var list []store.Bookmark
	// Server-side inserts arrive with increasing timestamps.
	for i := 0; i < 5; i++ {
		b := row(string(rune('a'+i)), "T", base.Add(time.Duration(i)*time.Second))
		list = Apply(list, insertEvent(b))
	}

	require.Len(t, list, 5)
	for i := 1; i < len(list); i++ {
		assert.True(t, !list[i-1].CreatedAt.Before(list[i].CreatedAt),
			"list must be ordered by created_at descending")
	}
}

func TestApplyNeverProducesDuplicateIDs(t *testing.T) {
	now := time.Now()
	events := []socket.Event{
		insertEvent(row("1", "A", now)),
		insertEvent(row("2", "B", now.Add(time.Second))),
		insertEvent(row("1", "A again", now)),
		{Type: socket.EventDelete, Old: &socket.RowRef{ID: "2"}},
		insertEvent(row("2", "B back", now.Add(2*time.Second))),
		{Type: socket.EventDelete, Old: &socket.RowRef{ID: "2"}},
		{Type: socket.EventDelete, Old: &socket.RowRef{ID: "2"}},
		insertEvent(row("3", "C", now.Add(3*time.Second))),
	}

	var list []store.Bookmark
	for _, ev := range events {
		list = Apply(list, ev)

		seen := map[string]bool{}
		for _, b := range list {
			require.False(t, seen[b.ID], "duplicate id %s after event %+v", b.ID, ev)
			seen[b.ID] = true
		}
	}
	assert.Equal(t, []string{"3", "1"}, ids(list))
}

func TestSnapshotReplaceThenStaleDelta(t *testing.T) {
	now := time.Now()
	// Snapshot no longer contains row 9.
	snapshot := []store.Bookmark{row("1", "A", now)}

	t.Run("stale delete leaves snapshot unchanged", func(t *testing.T) {
		got := Apply(snapshot, socket.Event{Type: socket.EventDelete, Old: &socket.RowRef{ID: "9"}})
		assert.Equal(t, snapshot, got)
	})

	t.Run("insert for a row missing from the snapshot re-adds it", func(t *testing.T) {
		got := Apply(snapshot, insertEvent(row("9", "Z", now.Add(time.Second))))
		assert.Equal(t, []string{"9", "1"}, ids(got))
	})

	t.Run("update for a row missing from the snapshot is a no-op", func(t *testing.T) {
		missing := row("9", "Z", now)
		got := Apply(snapshot, socket.Event{Type: socket.EventUpdate, New: &missing})
		assert.Equal(t, snapshot, got)
	})
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	list := []store.Bookmark{row("1", "A", now)}

	updated := row("1", "A (edited)", now)
	_ = Apply(list, socket.Event{Type: socket.EventUpdate, New: &updated})

	assert.Equal(t, "A", list[0].Title)
}
