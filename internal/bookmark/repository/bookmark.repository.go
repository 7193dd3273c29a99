package repository

import (
	"database/sql"

	"marque/pkg/logger"
	"marque/store"
)

type BookmarkRepository struct {
	DB *sql.DB
}

func NewBookmarkRepository(db *sql.DB) *BookmarkRepository {
	return &BookmarkRepository{DB: db}
}

// Insert persists a new row and returns it with the store-assigned timestamps.
func (r *BookmarkRepository) Insert(id, owner, url, title string) (*store.Bookmark, error) {
	b := &store.Bookmark{ID: id, Owner: owner, URL: url, Title: title}
	err := r.DB.QueryRow(
		`INSERT INTO bookmarks (id, owner, url, title) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`,
		id, owner, url, title,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert bookmark for owner %s: %v", owner, err)
		return nil, err
	}
	return b, nil
}

// DeleteByOwner removes a row scoped by both id and owner, so a caller can
// never delete another owner's row even with a valid id. The returned count
// is zero when nothing matched, which is not an error.
func (r *BookmarkRepository) DeleteByOwner(id, owner string) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM bookmarks WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete bookmark %s for owner %s: %v", id, owner, err)
		return 0, err
	}
	return result.RowsAffected()
}

// ListByOwner returns all of an owner's rows, newest first.
func (r *BookmarkRepository) ListByOwner(owner string) ([]store.Bookmark, error) {
	rows, err := r.DB.Query(
		`SELECT id, owner, url, title, created_at, updated_at FROM bookmarks WHERE owner = $1 ORDER BY created_at DESC`,
		owner,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to list bookmarks for owner %s: %v", owner, err)
		return nil, err
	}
	defer rows.Close()

	bookmarks := []store.Bookmark{}
	for rows.Next() {
		var b store.Bookmark
		if err := rows.Scan(&b.ID, &b.Owner, &b.URL, &b.Title, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
