package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergysphere/backend/internal/auth"
)

func newSocketTestServer(t *testing.T, pingInterval time.Duration) (*httptest.Server, *Registry, *auth.TokenManager, *Server) {
	t.Helper()
	registry := NewRegistry()
	tokens := auth.NewTokenManager("socket-test-secret", time.Hour)
	srv := NewServer(registry, tokens, pingInterval)
	t.Cleanup(srv.Close)

	e := echo.New()
	e.GET("/ws", srv.Handle)
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)
	return ts, registry, tokens, srv
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSocketQueryTokenAuth(t *testing.T) {
	ts, registry, tokens, _ := newSocketTestServer(t, time.Minute)

	token, err := tokens.Issue("alice")
	require.NoError(t, err)

	ws, resp, err := websocket.DefaultDialer.Dial(wsURL(ts)+"?token="+token, nil)
	require.NoError(t, err)
	defer ws.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	waitFor(t, func() bool { return registry.NumConnections() == 1 })
	assert.Equal(t, 1, registry.NumUsers())
}

func TestSocketInvalidTokenClosedWithPolicyViolation(t *testing.T) {
	ts, registry, _, _ := newSocketTestServer(t, time.Minute)

	ws, _, err := websocket.DefaultDialer.Dial(wsURL(ts)+"?token=garbage", nil)
	require.NoError(t, err)
	defer ws.Close()

	_, _, err = ws.ReadMessage()
	require.Error(t, err)
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, 0, registry.NumConnections())
}

func TestSocketAuthenticateHandshake(t *testing.T) {
	ts, registry, tokens, _ := newSocketTestServer(t, time.Minute)

	token, err := tokens.Issue("bob")
	require.NoError(t, err)

	// Connect without credentials, then authenticate with the first frame.
	ws, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer ws.Close()
	assert.Equal(t, 0, registry.NumConnections())

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "authenticate", "token": token}))

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)

	var ack map[string]string
	require.NoError(t, json.Unmarshal(data, &ack))
	assert.Equal(t, "authenticated", ack["type"])
	assert.Equal(t, "bob", ack["userId"])
	assert.Equal(t, 1, registry.NumConnections())
}

func TestSocketMalformedFrameIsIgnored(t *testing.T) {
	ts, registry, tokens, _ := newSocketTestServer(t, time.Minute)

	token, err := tokens.Issue("carol")
	require.NoError(t, err)
	ws, _, err := websocket.DefaultDialer.Dial(wsURL(ts)+"?token="+token, nil)
	require.NoError(t, err)
	defer ws.Close()
	waitFor(t, func() bool { return registry.NumConnections() == 1 })

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))

	// The connection survives the garbage frame.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, registry.NumConnections())
}

func TestSocketDeliveryToTwoTabs(t *testing.T) {
	ts, registry, tokens, _ := newSocketTestServer(t, time.Minute)

	token, err := tokens.Issue("dana")
	require.NoError(t, err)

	tab1, _, err := websocket.DefaultDialer.Dial(wsURL(ts)+"?token="+token, nil)
	require.NoError(t, err)
	defer tab1.Close()
	tab2, _, err := websocket.DefaultDialer.Dial(wsURL(ts)+"?token="+token, nil)
	require.NoError(t, err)
	defer tab2.Close()
	waitFor(t, func() bool { return registry.NumConnections() == 2 })

	n := NewNotifier(registry, &fakeResolver{})
	report := n.NotifyUser("dana", &Message{Type: TypeTaskCreated, TaskID: "t1"})
	require.Len(t, report, 2)
	assert.True(t, report.Delivered())

	for _, tab := range []*websocket.Conn{tab1, tab2} {
		tab.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := tab.ReadMessage()
		require.NoError(t, err)
		var got Message
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, TypeTaskCreated, got.Type)
		assert.Equal(t, "t1", got.TaskID)
	}
}

func TestSocketUnresponsivePeerTerminated(t *testing.T) {
	ts, registry, tokens, _ := newSocketTestServer(t, 20*time.Millisecond)

	token, err := tokens.Issue("frank")
	require.NoError(t, err)
	ws, _, err := websocket.DefaultDialer.Dial(wsURL(ts)+"?token="+token, nil)
	require.NoError(t, err)
	defer ws.Close()
	waitFor(t, func() bool { return registry.NumConnections() == 1 })

	// A client that never reads never answers pings; the next ping
	// finds the previous pong missing and the server drops it.
	waitFor(t, func() bool { return registry.NumConnections() == 0 })
	assert.Equal(t, 0, registry.NumUsers())
}

func TestSocketDisconnectUnregisters(t *testing.T) {
	ts, registry, tokens, _ := newSocketTestServer(t, time.Minute)

	token, err := tokens.Issue("eve")
	require.NoError(t, err)
	ws, _, err := websocket.DefaultDialer.Dial(wsURL(ts)+"?token="+token, nil)
	require.NoError(t, err)
	waitFor(t, func() bool { return registry.NumConnections() == 1 })

	ws.Close()
	waitFor(t, func() bool { return registry.NumConnections() == 0 })
	assert.Equal(t, 0, registry.NumUsers())
}
