package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/user/planningpoker/internal/core"
	"github.com/user/planningpoker/internal/domain"
)

func (ctl *Controller) handleJoin(cl *client, data []byte) {
	var p joinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-room payload")
		ctl.sendError(cl.conn, "Malformed join-room payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		ctl.sendError(cl.conn, "Room ID, user name and user ID are required")
		return
	}

	room, err := ctl.Orch.Join(cl.sid, cl.conn, domain.RoomID(p.RoomID), p.UserID, p.UserName)
	if err != nil {
		ctl.sendError(cl.conn, "Room not found")
		return
	}
	// Orch.Join already unsubscribed any prior room this connection was
	// in, so overwriting the reference loses nothing.
	cl.room = room

	log.Info().Str("module", "signal").Str("sid", string(cl.sid)).
		Str("room", p.RoomID).Str("user", p.UserName).Msg("join")
}

func (ctl *Controller) handleSubmit(cl *client, data []byte) {
	var p submitEstimatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		if errors.Is(err, domain.ErrInvalidEstimate) {
			ctl.sendError(cl.conn, "Invalid estimate value")
			return
		}
		log.Error().Err(err).Str("module", "signal").Msg("bad submit-estimate payload")
		ctl.sendError(cl.conn, "Malformed submit-estimate payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		ctl.sendError(cl.conn, "Room ID, user ID and estimate are required")
		return
	}

	err := ctl.Orch.SubmitEstimate(domain.RoomID(p.RoomID), p.UserID, *p.Estimate)
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		ctl.sendError(cl.conn, "Room not found")
	case errors.Is(err, core.ErrRoundRevealed):
		// Late vote after reveal: dropped without a reply, the round's
		// published results are already out.
		log.Debug().Str("module", "signal").Str("sid", string(cl.sid)).Msg("estimate after reveal dropped")
	case errors.Is(err, core.ErrUnknownMember):
		log.Warn().Str("module", "signal").Str("sid", string(cl.sid)).
			Str("user", p.UserID).Msg("estimate from non-member dropped")
	}
}

func (ctl *Controller) handleReveal(cl *client, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad reveal-estimates payload")
		ctl.sendError(cl.conn, "Malformed reveal-estimates payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		ctl.sendError(cl.conn, "Room ID is required")
		return
	}
	if err := ctl.Orch.Reveal(domain.RoomID(p.RoomID)); err != nil {
		ctl.sendError(cl.conn, "Room not found")
	}
}

func (ctl *Controller) handleReset(cl *client, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad reset-estimates payload")
		ctl.sendError(cl.conn, "Malformed reset-estimates payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		ctl.sendError(cl.conn, "Room ID is required")
		return
	}
	if err := ctl.Orch.Reset(domain.RoomID(p.RoomID)); err != nil {
		ctl.sendError(cl.conn, "Room not found")
	}
}
