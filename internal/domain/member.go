// Package domain contains entities without logic, just meta-data.
package domain

// MemberStatus is derived state. Transitions are driven only by
// join/submit/reveal/reset/disconnect, never set directly by clients.
type MemberStatus string

const (
	StatusThinking MemberStatus = "Thinking"
	StatusVoted    MemberStatus = "Voted"
	StatusReady    MemberStatus = "Ready"
	StatusSkipped  MemberStatus = "Skipped"
	StatusOffline  MemberStatus = "Offline"
)

// Member is a named participant bound to a room for its lifetime.
// ConnectionID is a weak lookup key, not ownership; the session
// registry is the authority on which connection is live.
type Member struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ConnectionID string       `json:"-"`
	Status       MemberStatus `json:"status"`
	Online       bool         `json:"online"`
}
