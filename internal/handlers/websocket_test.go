package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"window_advisor/internal/models"
	"window_advisor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=2m", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=120000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

func TestSameState(t *testing.T) {
	ts := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	a := models.AppState{WindowState: "open", Mode: "cooling", LastNotificationType: "none", UpdatedAt: ts}
	b := a
	if !sameState(a, b) {
		t.Fatal("identical states reported different")
	}
	b.LastNotificationTime = &ts
	if sameState(a, b) {
		t.Fatal("nil vs set notification time reported equal")
	}
	b = a
	b.WindowState = "closed"
	if sameState(a, b) {
		t.Fatal("different window reported equal")
	}
}

// --- websocket integration tests ---

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialWS(t *testing.T, s *service.Service, query url.Values) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(NewHandler(s, nil, nil).InitRoutes())
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_RequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(NewHandler(&service.Service{Authorization: &mockAuth{parseErr: errors.New("bad")}}, nil, nil).InitRoutes())
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err == nil {
		t.Fatal("expected handshake failure without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestWebSocket_StreamsInitialAndChangedState(t *testing.T) {
	mon := &mockMonitoring{state: models.AppState{
		ID:          1,
		WindowState: models.WindowOpen,
		Mode:        models.ModeCooling,
		UpdatedAt:   time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}}
	s := &service.Service{Monitoring: mon, Authorization: &mockAuth{parseUser: "operator"}}
	conn := dialWS(t, s, url.Values{"interval_ms": {"20"}, "access_token": {"tok"}})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "state" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var st models.AppState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.WindowState != models.WindowOpen {
		t.Fatalf("unexpected state: %+v", st)
	}

	// nothing changes for a few ticks, so nothing is sent
	_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if err := conn.ReadJSON(&env); err == nil {
		t.Fatalf("unexpected frame for unchanged state: %+v", env)
	}
}

func TestWebSocket_PushesOnChange(t *testing.T) {
	base := models.AppState{
		ID:          1,
		WindowState: models.WindowOpen,
		Mode:        models.ModeCooling,
		UpdatedAt:   time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	mon := &mockMonitoring{state: base}
	s := &service.Service{Monitoring: mon, Authorization: &mockAuth{parseUser: "operator"}}
	conn := dialWS(t, s, url.Values{"interval_ms": {"20"}, "access_token": {"tok"}})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}

	changed := base
	changed.WindowState = models.WindowClosed
	changed.UpdatedAt = base.UpdatedAt.Add(time.Minute)
	mon.setState(changed)

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read change: %v", err)
	}
	var st models.AppState
	_ = json.Unmarshal(env.Data, &st)
	if st.WindowState != models.WindowClosed {
		t.Fatalf("expected closed window, got %+v", st)
	}
}

func TestWebSocket_InitialGetStateError_Closes(t *testing.T) {
	mon := &mockMonitoring{err: errors.New("boom")}
	s := &service.Service{Monitoring: mon, Authorization: &mockAuth{parseUser: "operator"}}
	conn := dialWS(t, s, url.Values{"access_token": {"tok"}})

	// The server should close immediately after failing initial GetState
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
