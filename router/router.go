package router

import (
	"database/sql"
	"net/http"

	bookmarkHandler "marque/internal/bookmark"
	"marque/internal/bookmark/repository"
	"marque/internal/bookmark/service"
	"marque/middleware"
	"marque/socket"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func Setup(db *sql.DB, hub *socket.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	repo := repository.NewBookmarkRepository(db)
	svc := service.NewBookmarkService(repo, hub)
	h := bookmarkHandler.NewHandler(svc)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		// Change Feed subscription, filtered to the authenticated owner.
		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			socket.ServeWs(hub, w, req, middleware.Owner(req))
		})

		r.Get("/bookmarks", h.List)
		r.Post("/bookmarks", h.Create)
		r.Delete("/bookmarks/{id}", h.Delete)
	})

	return r
}
