package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/user/planningpoker/internal/app"
	"github.com/user/planningpoker/internal/config"
	"github.com/user/planningpoker/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller upgrades inbound connections and drives their event loop.
type Controller struct {
	Orch *app.Orchestrator
	Cfg  *config.Config
}

func NewController(orch *app.Orchestrator, cfg *config.Config) *Controller {
	return &Controller{Orch: orch, Cfg: cfg}
}

// wsConn is the transport endpoint (WebSocket).
// It implements core.SignalConnection.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// client is the per-connection state. room is set after a successful
// join so the read loop can always drop its subscription on exit, even
// when a newer connection has superseded this one in the registry.
type client struct {
	sid  core.SessionID
	conn *wsConn
	room *core.Room
}

func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	sid := core.SessionID(uuid.NewString())
	cl := &client{
		sid:  sid,
		conn: &wsConn{conn: ws, send: make(chan core.Frame, ctl.Cfg.SendBuffer)},
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	go ctl.writePump(ctx, cl)
	go ctl.readPump(ctx, cl)
}
