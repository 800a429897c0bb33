package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/auth"
	"github.com/synergysphere/backend/internal/logger"
)

// closePolicyViolation mirrors the close code the original server used for
// authentication failures.
const closePolicyViolation = websocket.ClosePolicyViolation

// socketConn adapts a gorilla connection to the Conn interface. Gorilla
// permits a single concurrent writer, so writes hold a mutex.
type socketConn struct {
	ws *websocket.Conn

	writeMu sync.Mutex
	stateMu sync.Mutex
	closed  bool
	alive   bool
}

func newSocketConn(ws *websocket.Conn) *socketConn {
	c := &socketConn{ws: ws, alive: true}
	ws.SetPongHandler(func(string) error {
		c.stateMu.Lock()
		c.alive = true
		c.stateMu.Unlock()
		return nil
	})
	return c
}

func (c *socketConn) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *socketConn) Open() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return !c.closed
}

func (c *socketConn) markClosed() {
	c.stateMu.Lock()
	c.closed = true
	c.stateMu.Unlock()
}

// ping sends a control ping; returns false when the previous ping went
// unanswered, meaning the peer should be terminated.
func (c *socketConn) ping() bool {
	c.stateMu.Lock()
	if !c.alive {
		c.stateMu.Unlock()
		return false
	}
	c.alive = false
	c.stateMu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
	return true
}

func (c *socketConn) terminate() {
	c.markClosed()
	c.ws.Close()
}

func (c *socketConn) closeWithPolicy(reason string) {
	c.writeMu.Lock()
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(closePolicyViolation, reason),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	c.terminate()
}

// clientMessage is the only inbound frame the server understands: the
// explicit authenticate handshake used when the connect URL carried no token.
type clientMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Server owns the WebSocket endpoint: it authenticates connections,
// registers them, and runs the liveness probe.
type Server struct {
	registry *Registry
	tokens   *auth.TokenManager
	upgrader websocket.Upgrader

	pingInterval time.Duration
	done         chan struct{}
	closeOnce    sync.Once

	mu    sync.Mutex
	conns map[*socketConn]struct{}
}

func NewServer(registry *Registry, tokens *auth.TokenManager, pingInterval time.Duration) *Server {
	s := &Server{
		registry: registry,
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			// The browser origin is enforced by the CORS layer; the
			// socket itself is gated by the bearer token.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		pingInterval: pingInterval,
		done:         make(chan struct{}),
		conns:        make(map[*socketConn]struct{}),
	}
	go s.pingLoop()
	return s
}

// Handle upgrades the request and serves the connection until it closes.
func (s *Server) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	conn := newSocketConn(ws)

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	userID := ""
	if token := auth.BearerToken(c.Request()); token != "" {
		userID, err = s.tokens.Verify(token)
		if err != nil {
			logger.WarnLog(ctx, "ws: authentication failed: %v", err)
			conn.closeWithPolicy("Invalid token")
			s.drop(conn)
			return nil
		}
		s.registry.Register(userID, conn)
		logger.InfoLog(ctx, "ws: user %s connected", userID)
	}

	s.readLoop(conn, userID)
	return nil
}

// readLoop consumes inbound frames until the connection dies. An upgraded
// but unauthenticated connection may still authenticate with its first
// message.
func (s *Server) readLoop(conn *socketConn, userID string) {
	ctx := context.Background()
	defer func() {
		conn.markClosed()
		s.drop(conn)
		if userID != "" {
			logger.InfoLog(ctx, "ws: user %s disconnected", userID)
		}
	}()

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// Malformed frames are logged and ignored; the connection
			// stays open.
			logger.WarnLog(ctx, "ws: discarding malformed message: %v", err)
			continue
		}

		if msg.Type == "authenticate" && userID == "" {
			id, err := s.tokens.Verify(msg.Token)
			if err != nil {
				logger.WarnLog(ctx, "ws: authenticate handshake rejected: %v", err)
				conn.closeWithPolicy("Invalid token")
				return
			}
			userID = id
			s.registry.Register(userID, conn)
			ack, _ := json.Marshal(map[string]string{"type": "authenticated", "userId": userID})
			conn.Send(ack)
			logger.InfoLog(ctx, "ws: user %s authenticated", userID)
		}
	}
}

func (s *Server) drop(conn *socketConn) {
	s.registry.Unregister(conn)
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// pingLoop probes every connection on a fixed interval and terminates the
// ones that missed the previous pong. This is the only mitigation against
// stuck transports; individual sends carry no timeout.
func (s *Server) pingLoop() {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			conns := make([]*socketConn, 0, len(s.conns))
			for c := range s.conns {
				conns = append(conns, c)
			}
			s.mu.Unlock()

			for _, c := range conns {
				if !c.ping() {
					c.terminate()
					s.drop(c)
				}
			}
		}
	}
}

// Close stops the ping loop and terminates every connection.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	conns := make([]*socketConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.terminate()
		s.drop(c)
	}
}
