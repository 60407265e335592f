package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/user/planningpoker/internal/core"
	"github.com/user/planningpoker/internal/domain"
)

type binding struct {
	RoomID   domain.RoomID
	MemberID string
}

// Registry binds live connections to (room, member) pairs, with a
// reverse index so a dropped connection resolves in O(1) instead of a
// scan over all rooms.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]binding
	members  map[binding]core.SessionID
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]binding),
		members:  make(map[binding]core.SessionID),
	}
}

// Bind registers sid as the live connection for a member. At most one
// connection may be bound per member: a new binding supersedes the old
// one, whose sid becomes unresolvable (the orphan is not closed).
func (r *Registry) Bind(sid core.SessionID, roomID domain.RoomID, memberID string) {
	b := binding{RoomID: roomID, MemberID: memberID}

	r.mu.Lock()
	defer r.mu.Unlock()

	// A connection switching identities abandons its previous pair; the
	// reverse entry must go with it, or a later Bind for that pair
	// would supersede through the stale entry and destroy this
	// connection's live binding.
	if prev, ok := r.sessions[sid]; ok && prev != b && r.members[prev] == sid {
		delete(r.members, prev)
	}

	if old, ok := r.members[b]; ok && old != sid {
		delete(r.sessions, old)
		log.Info().Str("module", "app.registry").Str("sid", string(old)).
			Str("member", memberID).Msg("superseded stale binding")
	}
	r.sessions[sid] = b
	r.members[b] = sid

	log.Info().Str("module", "app.registry").Str("sid", string(sid)).
		Str("room", string(roomID)).Str("member", memberID).Msg("bound session")
}

// Resolve returns the (room, member) pair bound to sid, if any.
func (r *Registry) Resolve(sid core.SessionID) (domain.RoomID, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.sessions[sid]
	return b.RoomID, b.MemberID, ok
}

// Unbind clears sid's mapping. A superseded or never-bound sid is a
// no-op, including for the member reverse index.
func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.sessions[sid]
	if !ok {
		return
	}
	delete(r.sessions, sid)
	if r.members[b] == sid {
		delete(r.members, b)
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbound session")
}
