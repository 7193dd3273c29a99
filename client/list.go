package client

import (
	"marque/pkg/logger"
	"marque/socket"
	"marque/store"
)

// Apply reduces one feed event into a new list. It never mutates the input,
// and every operation is idempotent and keyed by row id, so duplicate or
// replayed delivery of the same event cannot corrupt the list.
func Apply(list []store.Bookmark, ev socket.Event) []store.Bookmark {
	switch ev.Type {
	case socket.EventInsert:
		if ev.New == nil {
			logger.Sugar.Warnf("INSERT event without a row, dropping")
			return list
		}
		return applyInsert(list, *ev.New)
	case socket.EventUpdate:
		if ev.New == nil {
			logger.Sugar.Warnf("UPDATE event without a row, dropping")
			return list
		}
		return applyUpdate(list, *ev.New)
	case socket.EventDelete:
		id := deletedID(ev)
		if id == "" {
			logger.Sugar.Warnf("DELETE event carries no row id in old or new, dropping")
			return list
		}
		return applyDelete(list, id)
	default:
		logger.Sugar.Warnf("Unknown feed event type %q, dropping", ev.Type)
		return list
	}
}

// applyInsert prepends a new row (inserts are always most recent, so this
// preserves created_at descending order). A row already present under the
// same id is replaced in place instead of duplicated, which absorbs the
// snapshot/delta race during initialization.
func applyInsert(list []store.Bookmark, row store.Bookmark) []store.Bookmark {
	if i := indexOf(list, row.ID); i >= 0 {
		out := make([]store.Bookmark, len(list))
		copy(out, list)
		out[i] = row
		return out
	}
	out := make([]store.Bookmark, 0, len(list)+1)
	out = append(out, row)
	return append(out, list...)
}

// applyUpdate replaces the matching row in place, preserving its position.
// An update for an absent row is a no-op.
func applyUpdate(list []store.Bookmark, row store.Bookmark) []store.Bookmark {
	i := indexOf(list, row.ID)
	if i < 0 {
		return list
	}
	out := make([]store.Bookmark, len(list))
	copy(out, list)
	out[i] = row
	return out
}

// applyDelete removes the row if present. Absence is not an error: the row
// may already be gone from an earlier duplicate event or a stale snapshot.
func applyDelete(list []store.Bookmark, id string) []store.Bookmark {
	i := indexOf(list, id)
	if i < 0 {
		return list
	}
	out := make([]store.Bookmark, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// deletedID resolves the deleted row's id. Some feed transports have been
// observed delivering it in either slot, so both are checked, old first.
func deletedID(ev socket.Event) string {
	if ev.Old != nil && ev.Old.ID != "" {
		return ev.Old.ID
	}
	if ev.New != nil && ev.New.ID != "" {
		return ev.New.ID
	}
	return ""
}

func indexOf(list []store.Bookmark, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
