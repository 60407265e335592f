package core

import "github.com/user/planningpoker/internal/domain"

// Frame is a marshaled outbound event.
type Frame []byte

// SessionID identifies a live connection.
type SessionID string

// Binder records which connection is live for a member. Rooms invoke
// it inside their critical section, so under concurrent joins for the
// same member the registry's winner and the member's ConnectionID
// winner are always the same connection.
type Binder interface {
	Bind(sid SessionID, roomID domain.RoomID, memberID string)
}

// SignalConnection abstracts the messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
