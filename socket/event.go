package socket

import "marque/store"

// Feed event kinds, mirroring the store's row-level change notifications.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// RowRef identifies a row in an event that doesn't carry the full record.
type RowRef struct {
	ID string `json:"id"`
}

// Event is the wire shape pushed to every subscribed session of an owner.
// INSERT and UPDATE carry the full row in New; DELETE carries the id in Old.
type Event struct {
	Type string          `json:"eventType"`
	New  *store.Bookmark `json:"new,omitempty"`
	Old  *RowRef         `json:"old,omitempty"`
}

// Message pairs an event with the owner whose sessions should receive it.
type Message struct {
	Owner string `json:"owner"`
	Event Event  `json:"event"`

	// remote marks messages replayed from another instance via the bridge,
	// so they are delivered locally but never re-published.
	remote bool
}

// InsertMessage builds the feed message for a committed insert.
func InsertMessage(b *store.Bookmark) Message {
	return Message{Owner: b.Owner, Event: Event{Type: EventInsert, New: b}}
}

// UpdateMessage builds the feed message for a committed update.
func UpdateMessage(b *store.Bookmark) Message {
	return Message{Owner: b.Owner, Event: Event{Type: EventUpdate, New: b}}
}

// DeleteMessage builds the feed message for a committed delete.
func DeleteMessage(owner, id string) Message {
	return Message{Owner: owner, Event: Event{Type: EventDelete, Old: &RowRef{ID: id}}}
}
