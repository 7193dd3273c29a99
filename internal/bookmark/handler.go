package bookmark

import (
	"encoding/json"
	"errors"
	"net/http"

	"marque/internal/bookmark/model"
	"marque/internal/bookmark/service"
	"marque/middleware"
	"marque/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *service.BookmarkService
}

func NewHandler(service *service.BookmarkService) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.Owner(r)

	bookmarks, err := h.Service.List(owner)
	if err != nil {
		logger.Sugar.Errorf("Error fetching bookmarks: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookmarks)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.Owner(r)

	var req model.CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b, err := h.Service.Create(owner, req.URL, req.Title)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Sugar.Errorf("Handler: Failed to create bookmark: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.Owner(r)
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(owner, id); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete bookmark %s: %v", id, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	// Success regardless of prior existence: delete confirms absence,
	// not that a row was removed.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.DeleteBookmarkResponse{Deleted: true})
}
