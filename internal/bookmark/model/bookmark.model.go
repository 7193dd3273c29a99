package model

type CreateBookmarkRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type DeleteBookmarkResponse struct {
	Deleted bool `json:"deleted"`
}
