package service

import (
	"errors"

	"marque/internal/bookmark/repository"
	"marque/socket"
	"marque/store"

	"github.com/google/uuid"
)

// ErrInvalidInput rejects a create with an empty url or title before any
// store interaction.
var ErrInvalidInput = errors.New("url and title must not be empty")

type BookmarkService struct {
	Repo *repository.BookmarkRepository
	Hub  *socket.Hub
}

func NewBookmarkService(repo *repository.BookmarkRepository, hub *socket.Hub) *BookmarkService {
	return &BookmarkService{Repo: repo, Hub: hub}
}

// Create inserts a row for the owner and publishes exactly one INSERT event
// on the owner's feed. The owner always comes from the verified session.
func (s *BookmarkService) Create(owner, url, title string) (*store.Bookmark, error) {
	if url == "" || title == "" {
		return nil, ErrInvalidInput
	}

	b, err := s.Repo.Insert(uuid.NewString(), owner, url, title)
	if err != nil {
		return nil, err
	}

	s.Hub.Broadcast <- socket.InsertMessage(b)
	return b, nil
}

// Delete removes the row scoped by id and owner. It succeeds even when no
// row matched; a DELETE event is published only when one actually did.
func (s *BookmarkService) Delete(owner, id string) error {
	affected, err := s.Repo.DeleteByOwner(id, owner)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.Hub.Broadcast <- socket.DeleteMessage(owner, id)
	}
	return nil
}

// List returns the owner's bookmarks, newest first.
func (s *BookmarkService) List(owner string) ([]store.Bookmark, error) {
	return s.Repo.ListByOwner(owner)
}
