package core

import "github.com/user/planningpoker/internal/domain"

// Wire event types, matching what clients subscribe to.
const (
	EventRoomUpdated       = "room-updated"
	EventEstimateSubmitted = "estimate-submitted"
	EventEstimatesRevealed = "estimates-revealed"
	EventEstimatesReset    = "estimates-reset"
	EventError             = "error"
)

// RoomUpdated is broadcast after a join or a disconnect.
// Estimates is empty unless the round is revealed.
type RoomUpdated struct {
	Type      string                     `json:"type"`
	Members   []domain.Member            `json:"members"`
	Estimates map[string]domain.Estimate `json:"estimates"`
}

// EstimateSubmitted carries the roster and the vote count, never the values.
type EstimateSubmitted struct {
	Type          string          `json:"type"`
	UserID        string          `json:"userId"`
	Members       []domain.Member `json:"members"`
	EstimateCount int             `json:"estimateCount"`
}

type EstimatesRevealed struct {
	Type       string                     `json:"type"`
	Estimates  map[string]domain.Estimate `json:"estimates"`
	Members    []domain.Member            `json:"members"`
	Average    string                     `json:"average"`
	Consensus  bool                       `json:"consensus"`
	TotalVotes int                        `json:"totalVotes"`
}

type EstimatesReset struct {
	Type    string          `json:"type"`
	Members []domain.Member `json:"members"`
}

// ErrorEvent goes to the originating connection only, never broadcast.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
