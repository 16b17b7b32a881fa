package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"window_advisor/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = time.Minute
	maxIntervalMilli = 60_000
)

// wsEnvelope is the frame written to stream clients.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The route sits behind operatorMiddleware, so any origin holding a valid
// token may connect.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stateStream remembers the last snapshot sent so unchanged state is not
// re-sent on every poll.
type stateStream struct {
	conn *websocket.Conn
	last *models.AppState
}

// @Summary      Stream advisor state
// @Description  WebSocket. Sends a "state" frame on connect and whenever the state changes. Token via Authorization header or access_token query.
// @Tags         state
// @Param        interval     query  string  false  "Poll interval, e.g. 2s (max 1m)"
// @Param        interval_ms  query  int     false  "Poll interval in milliseconds"
// @Param        access_token query  string  false  "JWT when headers cannot be set"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	poll := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		poll.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	stream := &stateStream{conn: conn}
	if err := h.pushIfChanged(ctx, stream); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-poll.C:
			if err := h.pushIfChanged(ctx, stream); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// startReader drains incoming frames so control messages are handled and
// closes done when the peer goes away.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// pushIfChanged loads the state and writes it when it differs from the last
// frame sent on this stream.
func (h *Handler) pushIfChanged(ctx context.Context, s *stateStream) error {
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_state_failed", "err", err)
		}
		return err
	}
	if s.last != nil && sameState(*s.last, st) {
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(wsEnvelope{Type: "state", Data: st}); err != nil {
		return err
	}
	s.last = &st
	return nil
}

func sameState(a, b models.AppState) bool {
	if a.WindowState != b.WindowState || a.Mode != b.Mode || a.LastNotificationType != b.LastNotificationType {
		return false
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return false
	}
	switch {
	case a.LastNotificationTime == nil && b.LastNotificationTime == nil:
		return true
	case a.LastNotificationTime == nil || b.LastNotificationTime == nil:
		return false
	default:
		return a.LastNotificationTime.Equal(*b.LastNotificationTime)
	}
}
