package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/avisos/internal/common"
	"github.com/dmitrijs2005/avisos/internal/live"
	"github.com/dmitrijs2005/avisos/internal/repositories/notes"
)

// Projection names accepted by the live feed.
const (
	projNotes      = "notes"
	projCounts     = "counts"
	projRecycleBin = "recycle-bin"
	projHistory    = "history"
	projEditions   = "editions"
)

// frame is one websocket message of the live feed.
type frame struct {
	Projection string `json:"projection"`
	Version    uint64 `json:"version"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

type feed struct {
	C     <-chan frame
	close func()
}

// pipe adapts a typed projection to untyped frames.
func pipe[T any](ctx context.Context, name string, p *live.Projection[T]) feed {
	out := make(chan frame)
	go func() {
		defer close(out)
		for s := range p.C {
			f := frame{Projection: name, Version: s.Version, Data: s.Value}
			if s.Err != nil {
				f.Data, f.Error = nil, s.Err.Error()
			}
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return feed{C: out, close: p.Close}
}

// openFeed validates the query and returns a starter for the requested
// projection, so bad requests are rejected before the upgrade.
func (h *Handler) openFeed(q url.Values) (func(context.Context) feed, error) {
	name := q.Get("projection")
	switch name {
	case projNotes:
		f := notes.ListFilter{Category: q.Get("category"), Subcategory: q.Get("subcategory")}
		return func(ctx context.Context) feed {
			return pipe(ctx, name, h.Query.WatchNotes(ctx, f))
		}, nil
	case projCounts:
		return func(ctx context.Context) feed {
			return pipe(ctx, name, h.Query.WatchCategoryCounts(ctx))
		}, nil
	case projRecycleBin:
		t, err := parseDeletionType(q.Get("type"))
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) feed {
			return pipe(ctx, name, h.Query.WatchRecycleBin(ctx, t))
		}, nil
	case projHistory, projEditions:
		id, err := queryID(q.Get("note_id"))
		if err != nil {
			return nil, err
		}
		if name == projEditions {
			return func(ctx context.Context) feed {
				return pipe(ctx, name, h.Query.WatchEditions(ctx, id))
			}, nil
		}
		// "user" names the websocket caller, not a history filter
		hq, err := h.historyQuery(q, "modified_by")
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) feed {
			return pipe(ctx, name, h.Query.WatchHistory(ctx, id, hq))
		}, nil
	}
	return nil, common.NewValidationError("projection",
		"must be one of notes, counts, recycle-bin, history, editions")
}

func queryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("note_id", "must be a positive integer")
	}
	return id, nil
}

// live streams a projection over a websocket until the client goes away or
// the server shuts down.
func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	start, err := h.openFeed(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(h.liveCtx, cancel)
	defer stop()

	f := start(ctx)
	defer f.close()

	pongWait := h.WSPingInterval * 10 / 9
	go func() {
		defer cancel()
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.WSPingInterval)
	defer ticker.Stop()

	a := actor(r)
	h.Log.Debug(ctx, "live feed opened", "actor", a, "query", r.URL.RawQuery)
	defer h.Log.Debug(context.WithoutCancel(ctx), "live feed closed", "actor", a)

	for {
		select {
		case fr, ok := <-f.C:
			if !ok {
				h.closeConn(conn)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(h.WSWriteTimeout))
			if err := conn.WriteJSON(fr); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.WSWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			h.closeConn(conn)
			return
		}
	}
}

func (h *Handler) closeConn(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.WSWriteTimeout))
}
