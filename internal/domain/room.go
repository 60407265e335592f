package domain

import "time"

type (
	RoomID     string
	RoundState string
)

const (
	RoundCollecting RoundState = "collecting"
	RoundRevealed   RoundState = "revealed"
)

// Room is pure session state, no transport or locking here.
// Synchronization is owned by the core room service.
type Room struct {
	ID          RoomID
	Name        string
	CreatorName string
	// Members keeps insertion order: first joined, first listed.
	Members []*Member
	// Estimates is keyed by member ID and survives disconnects;
	// entries are only dropped in bulk by a round reset.
	Estimates map[string]Estimate
	Round     RoundState
	CreatedAt time.Time
}
