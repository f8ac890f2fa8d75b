package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

const livePath = "/ws/live"

// Router returns the API routes. Everything except /healthz requires a known
// acting user.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger(h.Log))
	r.HandleFunc("/healthz", health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(requireActor(h.Users))

	api.HandleFunc("/users", h.users).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.categories).Methods(http.MethodGet)
	api.HandleFunc("/categories/counts", h.categoryCounts).Methods(http.MethodGet)

	api.HandleFunc("/notes", h.createNote).Methods(http.MethodPost)
	api.HandleFunc("/notes", h.listNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", h.getNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", h.updateNote).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}/delete", h.softDelete).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}/restore", h.restore).Methods(http.MethodPost)

	api.HandleFunc("/notes/{id}/history", h.history).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/history/modifiers", h.modifiers).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/history/count", h.historyCount).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/editions", h.editions).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/editions/max", h.maxEdition).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/editions/{n}", h.edition).Methods(http.MethodGet)

	api.HandleFunc("/recycle-bin", h.recycleBin).Methods(http.MethodGet)
	api.HandleFunc("/recycle-bin/purge", h.purge).Methods(http.MethodPost)
	api.HandleFunc("/recycle-bin/{id}", h.destroy).Methods(http.MethodDelete)

	r.Handle(livePath, requireActor(h.Users)(http.HandlerFunc(h.live))).Methods(http.MethodGet)

	return r
}
