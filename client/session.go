package client

import (
	"context"
	"errors"
	"sync"

	"marque/store"
)

// State tracks one session's lifecycle.
type State int

const (
	// StateUnauthenticated holds no list and no subscription.
	StateUnauthenticated State = iota
	// StateInitializing means the snapshot fetch and feed subscription are
	// both in flight, in no guaranteed order relative to each other.
	StateInitializing
	// StateSynced means the snapshot has landed and deltas keep the list live.
	StateSynced
	// StateError means the snapshot fetch failed. The list is empty but an
	// open feed keeps applying deltas on top of it; no automatic retry.
	StateError
	// StateTornDown means the subscription is released and the list cleared.
	StateTornDown
)

var ErrAlreadyInitialized = errors.New("session already initialized")

// Session keeps one tab's in-memory view of the owner's bookmarks live.
//
// The list changes only when a snapshot or a feed event arrives — a local
// create or delete goes to the server and the list picks the change up from
// the feed echo. That forgoes optimistic updates (a brief visible delay) in
// exchange for never having to undo one.
type Session struct {
	api *API

	mu       sync.Mutex
	list     []store.Bookmark
	state    State
	fetchErr error

	feed     *Feed
	teardown sync.Once
}

func NewSession(api *API) *Session {
	return &Session{api: api, state: StateUnauthenticated}
}

// Initialize opens the feed subscription and kicks off the snapshot fetch.
// The two run independently: a delta may land before the snapshot and be
// discarded by the wholesale snapshot replace, and a delta landing after must
// not duplicate a row the snapshot already contains. Apply guarantees both.
func (s *Session) Initialize(ctx context.Context, feedURL string) error {
	s.mu.Lock()
	if s.state != StateUnauthenticated {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}
	s.state = StateInitializing
	s.mu.Unlock()

	feed, err := SubscribeFeed(feedURL, s.api.Token)
	if err != nil {
		s.mu.Lock()
		s.state = StateUnauthenticated
		s.mu.Unlock()
		return err
	}
	s.feed = feed

	go s.applyEvents()
	go s.fetchSnapshot(ctx)
	return nil
}

func (s *Session) applyEvents() {
	for ev := range s.feed.Events {
		s.mu.Lock()
		if s.state != StateTornDown {
			s.list = Apply(s.list, ev)
		}
		s.mu.Unlock()
	}
}

func (s *Session) fetchSnapshot(ctx context.Context) {
	items, err := s.api.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTornDown {
		// Response landed after teardown; nothing to apply it to.
		return
	}
	if err != nil {
		s.list = []store.Bookmark{}
		s.fetchErr = err
		s.state = StateError
		return
	}
	// Snapshot replace is wholesale: it overwrites any deltas applied while
	// the fetch was in flight.
	s.list = items
	s.state = StateSynced
}

// Create submits a new bookmark. The list is not touched here: the row shows
// up when the feed delivers the insert event.
func (s *Session) Create(ctx context.Context, url, title string) (*store.Bookmark, error) {
	return s.api.Create(ctx, url, title)
}

// Delete removes a bookmark by id. As with Create, the list only changes on
// the feed echo.
func (s *Session) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, id)
}

// Bookmarks returns a copy of the current list, newest first.
func (s *Session) Bookmarks() []store.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Bookmark, len(s.list))
	copy(out, s.list)
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err reports the snapshot fetch failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchErr
}

// Teardown releases the feed subscription and clears the list. Idempotent;
// responses or events arriving afterwards are ignored.
func (s *Session) Teardown() {
	s.teardown.Do(func() {
		s.mu.Lock()
		s.state = StateTornDown
		s.list = nil
		s.mu.Unlock()
		if s.feed != nil {
			s.feed.Close()
		}
	})
}
