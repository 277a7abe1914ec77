package cluster

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/coder/websocket"

	"github.com/marben/adaptive_mandel/render"
)

// Mux routes the member endpoint /ws and a JSON progress page /status.
func (c *Coordinator) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", c.handleJoin)
	mux.HandleFunc("/status", c.handleStatus)
	return mux
}

// NewServer returns the http server members connect to.
func NewServer(addr string, c *Coordinator) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           c.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// handleJoin upgrades a member connection and passes it to the irpc
// server. Connections beyond the configured workers are refused before
// the upgrade.
func (c *Coordinator) handleJoin(w http.ResponseWriter, r *http.Request) {
	if !c.reserve() {
		http.Error(w, ErrFull.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		c.release()
		render.Logger().Warn("websocket accept", "remote", r.RemoteAddr, "err", err)
		return
	}
	// a merge result is a single message
	conn.SetReadLimit(readLimit(c.cfg.Width, c.cfg.Height))
	if !c.ln.handoff(r.Context(), conn) {
		c.release()
	}
}

func (c *Coordinator) handleStatus(w http.ResponseWriter, _ *http.Request) {
	b, err := sonic.Marshal(c.Status())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}
