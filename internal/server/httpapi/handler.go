// Package httpapi exposes the note services over a JSON REST API and a
// websocket feed of live projections.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/identity"
	"github.com/dmitrijs2005/avisos/internal/logging"
	"github.com/dmitrijs2005/avisos/internal/models"
	"github.com/dmitrijs2005/avisos/internal/repositories/history"
	"github.com/dmitrijs2005/avisos/internal/repositories/notes"
	"github.com/dmitrijs2005/avisos/internal/services"
	"github.com/dmitrijs2005/avisos/internal/timex"
)

// Deps are the services the API is served from.
type Deps struct {
	Notes     *services.NoteService
	Lifecycle *services.LifecycleService
	Query     *services.QueryService
	Users     *identity.Provider
	Clock     timex.Clock
	Log       logging.Logger

	WSWriteTimeout time.Duration
	WSPingInterval time.Duration
}

type Handler struct {
	Deps
	validate *validator.Validate
	upgrader websocket.Upgrader

	// live streams end when liveCtx is cancelled
	liveCtx    context.Context
	stopStream context.CancelFunc
}

func NewHandler(d Deps) *Handler {
	if d.Clock == nil {
		d.Clock = timex.SystemClock
	}
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	if d.WSWriteTimeout <= 0 {
		d.WSWriteTimeout = 10 * time.Second
	}
	if d.WSPingInterval <= 0 {
		d.WSPingInterval = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		Deps:     d,
		validate: newValidator(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		liveCtx:    ctx,
		stopStream: cancel,
	}
}

// CloseLive ends every open live stream.
func (h *Handler) CloseLive() { h.stopStream() }

func actor(r *http.Request) string {
	a, _ := identity.Actor(r.Context())
	return a
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError(key, "must be a positive integer")
	}
	return id, nil
}

// pathEdition parses an edition number; 0 groups legacy entries.
func pathEdition(r *http.Request) (int64, error) {
	n, err := strconv.ParseInt(mux.Vars(r)["n"], 10, 64)
	if err != nil || n < 0 {
		return 0, common.NewValidationError("n", "must be a non-negative integer")
	}
	return n, nil
}

// parseMillis accepts epoch milliseconds or an RFC 3339 timestamp.
func parseMillis(field, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &ms, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, common.NewValidationError(field, "must be epoch milliseconds or RFC 3339")
	}
	ms := t.UnixMilli()
	return &ms, nil
}

func parseDeletionType(raw string) (*models.DeletionType, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := models.ParseDeletionType(raw)
	if err != nil {
		return nil, common.NewValidationError("type", err.Error())
	}
	return &t, nil
}

// historyQuery reads the history filters; userKey names the modifier
// parameter. Known users match in canonical form, anything else verbatim.
func (h *Handler) historyQuery(q map[string][]string, userKey string) (history.Query, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	var hq history.Query
	if u := get(userKey); u != "" {
		if canon, err := h.Users.Resolve(u); err == nil {
			u = canon
		}
		hq.ModifiedBy = &u
	}
	var err error
	if hq.From, err = parseMillis("from", get("from")); err != nil {
		return hq, err
	}
	if hq.To, err = parseMillis("to", get("to")); err != nil {
		return hq, err
	}
	return hq, nil
}

func listFilter(r *http.Request) notes.ListFilter {
	q := r.URL.Query()
	return notes.ListFilter{Category: q.Get("category"), Subcategory: q.Get("subcategory")}
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.Categories)
}

func (h *Handler) categoryCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Query.CategoryCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Notes.Create(r.Context(), req.draft(), actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	ns, err := h.Query.ListNotes(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.Query.GetNote(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req noteRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Notes.Update(r.Context(), id, req.draft(), actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) softDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req deleteRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := h.Lifecycle.SoftDelete(r.Context(), id, models.DeletionType(req.DeletionType))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.Lifecycle.Restore(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) recycleBin(w http.ResponseWriter, r *http.Request) {
	t, err := parseDeletionType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	ns, err := h.Query.RecycleBin(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (h *Handler) destroy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Lifecycle.PermanentlyDelete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	n, err := h.Lifecycle.PurgeExpired(r.Context(), h.Clock())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purgeResponse{Removed: n})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := h.historyQuery(r.URL.Query(), "user")
	if err != nil {
		writeError(w, err)
		return
	}
	es, err := h.Query.History(r.Context(), id, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, es)
}

func (h *Handler) modifiers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.Query.Modifiers(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) historyCount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.Query.HistoryCount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) editions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	es, err := h.Query.Editions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, es)
}

func (h *Handler) maxEdition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.Query.MaxEdition(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"max_edition": n})
}

func (h *Handler) edition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := pathEdition(r)
	if err != nil {
		writeError(w, err)
		return
	}
	d, err := h.Query.Edition(r.Context(), id, n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) users(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Users.Users())
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
