package app

import (
	"github.com/rs/zerolog/log"

	"github.com/user/planningpoker/internal/core"
	"github.com/user/planningpoker/internal/domain"
)

// Orchestrator routes inbound events to the owning room. Room lookup
// failures surface as core.ErrRoomNotFound and never mutate anything;
// the adapter reports them to the originating connection only.
type Orchestrator struct {
	Registry  *Registry
	Rooms     *core.Store
	Analytics *AnalyticsStore
}

// Join binds the connection to the member and applies the roster
// update; the room broadcasts the resulting state to everyone,
// including the joiner. The bind itself runs inside the room's
// critical section (see core.Binder). A connection that was already
// bound to a different room or member implicitly leaves that prior
// membership first.
func (o *Orchestrator) Join(sid core.SessionID, conn core.SignalConnection, roomID domain.RoomID, memberID, name string) (*core.Room, error) {
	room, ok := o.Rooms.GetRoom(roomID)
	if !ok {
		return nil, core.ErrRoomNotFound
	}
	if prevRoomID, prevMemberID, bound := o.Registry.Resolve(sid); bound &&
		(prevRoomID != roomID || prevMemberID != memberID) {
		o.Registry.Unbind(sid)
		if prev, ok := o.Rooms.GetRoom(prevRoomID); ok {
			prev.Leave(sid)
		}
		log.Info().Str("module", "app.orchestrator").Str("sid", string(sid)).
			Str("room", string(prevRoomID)).Str("member", prevMemberID).Msg("left prior room on rejoin")
	}
	room.Join(sid, memberID, name, conn, o.Registry)
	return room, nil
}

func (o *Orchestrator) SubmitEstimate(roomID domain.RoomID, memberID string, est domain.Estimate) error {
	room, ok := o.Rooms.GetRoom(roomID)
	if !ok {
		return core.ErrRoomNotFound
	}
	return room.SubmitEstimate(memberID, est)
}

// Reveal is idempotent; analytics only advance on the actual
// collecting-to-revealed transition, not on re-broadcasts.
func (o *Orchestrator) Reveal(roomID domain.RoomID) error {
	room, ok := o.Rooms.GetRoom(roomID)
	if !ok {
		return core.ErrRoomNotFound
	}
	res := room.Reveal()
	if res.Transitioned {
		o.Analytics.RecordReveal(roomID, res.Consensus)
	}
	return nil
}

func (o *Orchestrator) Reset(roomID domain.RoomID) error {
	room, ok := o.Rooms.GetRoom(roomID)
	if !ok {
		return core.ErrRoomNotFound
	}
	room.Reset()
	return nil
}

// Disconnect resolves the dropped connection through the registry.
// Unresolvable sids (closed before joining, or superseded by a newer
// connection for the same member) are a no-op.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	roomID, _, ok := o.Registry.Resolve(sid)
	if !ok {
		log.Debug().Str("module", "app.orchestrator").Str("sid", string(sid)).Msg("disconnect for unbound session")
		return
	}
	o.Registry.Unbind(sid)
	if room, ok := o.Rooms.GetRoom(roomID); ok {
		room.Leave(sid)
	}
}
