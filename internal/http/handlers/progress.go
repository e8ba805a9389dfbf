package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	progressWriteWait  = 10 * time.Second
	progressPingPeriod = 30 * time.Second
)

var progressUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Cross-origin policy is enforced by the CORS middleware in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Progress upgrades to a WebSocket and streams typed events for the subject,
// or for one job when ?job_id is given. A snapshot event is sent first so a
// late subscriber sees the current running state.
func (a *App) Progress(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	key := userID
	if jobID := r.URL.Query().Get("job_id"); jobID != "" {
		key = jobID
	}

	conn, err := progressUpgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("progress upgrade failed")
		return
	}

	sub := a.Hub.Subscribe(key, a.Pipeline.Snapshot(r.Context(), userID))
	defer func() {
		a.Hub.Unsubscribe(sub)
		_ = conn.Close()
	}()

	// Reader exists only to observe the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(progressPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream closed"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
