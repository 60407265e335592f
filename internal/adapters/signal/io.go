package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/user/planningpoker/internal/core"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, cl *client) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Msg("writePump ctx done")
			return
		case <-ticker.C:
			_ = cl.conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case data, ok := <-cl.conn.send:
			if !ok {
				log.Warn().Str("module", "signal").Str("sid", string(cl.sid)).Msg("writePump channel closed")
				return
			}
			if err := cl.conn.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := cl.conn.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump reads events until the connection drops, then resolves the
// disconnect through the registry and drops the fan-out subscription.
func (ctl *Controller) readPump(ctx context.Context, cl *client) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Msg("readPump closing")
		ctl.Orch.Disconnect(cl.sid)
		if cl.room != nil {
			cl.room.Unsubscribe(cl.sid)
		}
		cl.conn.Close()
	}()

	cl.conn.conn.SetReadLimit(ctl.Cfg.ReadLimit)

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := cl.conn.conn.ReadMessage()
			if err != nil {
				return
			}
			ctl.dispatch(cl, data)
		}
	}
}

func (ctl *Controller) dispatch(cl *client, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(cl.conn, "Malformed event")
		return
	}

	switch env.Type {
	case "join-room":
		ctl.handleJoin(cl, data)
	case "submit-estimate":
		ctl.handleSubmit(cl, data)
	case "reveal-estimates":
		ctl.handleReveal(cl, data)
	case "reset-estimates":
		ctl.handleReset(cl, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// sendError notifies the originating connection only; errors are never
// broadcast.
func (ctl *Controller) sendError(c *wsConn, msg string) {
	ctl.sendJSON(c, core.ErrorEvent{Type: core.EventError, Message: msg})
}
