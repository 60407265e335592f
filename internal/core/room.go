package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/user/planningpoker/internal/domain"
)

var (
	// ErrRoundRevealed marks a submission that arrived after reveal.
	// Callers drop these silently: no mutation, no broadcast.
	ErrRoundRevealed = errors.New("round already revealed")
	ErrUnknownMember = errors.New("member never joined this room")
)

// Room is the per-room state machine. Every mutation and its broadcast
// run as one critical section, so all subscribers observe the same
// event order and no two connections ever see divergent state.
type Room struct {
	mu    sync.Mutex
	state *domain.Room
	subs  map[SessionID]SignalConnection
}

func NewRoom(state *domain.Room) *Room {
	return &Room{
		state: state,
		subs:  make(map[SessionID]SignalConnection),
	}
}

// ID is immutable after creation, safe without the lock.
func (r *Room) ID() domain.RoomID { return r.state.ID }

// Join appends a new member or rebinds an existing one (reconnect) and
// subscribes the connection. A reconnect keeps Voted status when an
// estimate for the current round exists, so it never looks like an
// un-vote to the rest of the room. The registry bind happens in here,
// under the room lock: when two connections join as the same member at
// once, the one that wins the registry is the one whose ConnectionID
// sticks, so its later disconnect always finds its member.
func (r *Room) Join(sid SessionID, memberID, name string, conn SignalConnection, reg Binder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg != nil {
		reg.Bind(sid, r.state.ID, memberID)
	}
	r.subs[sid] = conn

	m := r.memberLocked(memberID)
	if m == nil {
		m = &domain.Member{ID: memberID, Name: name, Status: domain.StatusThinking}
		r.state.Members = append(r.state.Members, m)
	} else if _, voted := r.state.Estimates[memberID]; voted {
		m.Status = domain.StatusVoted
	} else {
		m.Status = domain.StatusThinking
	}
	m.ConnectionID = string(sid)
	m.Online = true

	log.Info().Str("module", "core.room").Str("room", string(r.state.ID)).
		Str("member", memberID).Str("sid", string(sid)).Msg("member joined")

	r.publishLocked(RoomUpdated{
		Type:      EventRoomUpdated,
		Members:   r.membersLocked(),
		Estimates: r.visibleEstimatesLocked(),
	})
}

// Leave handles a dropped connection. Only the currently bound
// connection may flip its member offline; a superseded connection is
// just unsubscribed without touching the member.
func (r *Room) Leave(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.subs, sid)

	for _, m := range r.state.Members {
		if m.ConnectionID != string(sid) {
			continue
		}
		m.ConnectionID = ""
		m.Online = false
		m.Status = domain.StatusOffline

		log.Info().Str("module", "core.room").Str("room", string(r.state.ID)).
			Str("member", m.ID).Msg("member offline")

		r.publishLocked(RoomUpdated{
			Type:      EventRoomUpdated,
			Members:   r.membersLocked(),
			Estimates: r.visibleEstimatesLocked(),
		})
		return
	}
}

// Unsubscribe drops a connection from the fan-out set without any
// member bookkeeping. Safe to call for connections that never joined.
func (r *Room) Unsubscribe(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, sid)
}

// SubmitEstimate records a vote for the current round, overwriting any
// prior value from the same member. Values stay hidden until reveal;
// only the roster and the running count go out.
func (r *Room) SubmitEstimate(memberID string, est domain.Estimate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Round == domain.RoundRevealed {
		return ErrRoundRevealed
	}
	m := r.memberLocked(memberID)
	if m == nil {
		return ErrUnknownMember
	}

	r.state.Estimates[memberID] = est
	m.Status = domain.StatusVoted

	r.publishLocked(EstimateSubmitted{
		Type:          EventEstimateSubmitted,
		UserID:        memberID,
		Members:       r.membersLocked(),
		EstimateCount: len(r.state.Estimates),
	})
	return nil
}

// RevealResult is what a reveal computed; Transitioned is false for an
// idempotent re-reveal, which only re-broadcasts the current results.
type RevealResult struct {
	Transitioned bool
	Average      string
	Consensus    bool
	TotalVotes   int
}

// Reveal transitions the round to revealed and publishes all estimates
// with the computed average and consensus. The "unsure" marker is
// excluded from both; it still counts toward total votes.
func (r *Room) Reveal() RevealResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	transitioned := r.state.Round != domain.RoundRevealed
	r.state.Round = domain.RoundRevealed

	var numeric []int
	for _, est := range r.state.Estimates {
		if !est.Unsure {
			numeric = append(numeric, est.Points)
		}
	}

	average := "0.0"
	if len(numeric) > 0 {
		sum := 0
		for _, v := range numeric {
			sum += v
		}
		average = fmt.Sprintf("%.1f", float64(sum)/float64(len(numeric)))
	}

	consensus := len(numeric) > 0
	for _, v := range numeric {
		if v != numeric[0] {
			consensus = false
			break
		}
	}

	res := RevealResult{
		Transitioned: transitioned,
		Average:      average,
		Consensus:    consensus,
		TotalVotes:   len(r.state.Estimates),
	}

	log.Info().Str("module", "core.room").Str("room", string(r.state.ID)).
		Str("average", average).Bool("consensus", consensus).
		Int("total_votes", res.TotalVotes).Msg("estimates revealed")

	r.publishLocked(EstimatesRevealed{
		Type:       EventEstimatesRevealed,
		Estimates:  r.estimatesLocked(),
		Members:    r.membersLocked(),
		Average:    average,
		Consensus:  consensus,
		TotalVotes: res.TotalVotes,
	})
	return res
}

// Reset clears the round. Online members go back to Thinking; offline
// members stay Offline so a disconnect is never masked by a reset.
func (r *Room) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Estimates = make(map[string]domain.Estimate)
	r.state.Round = domain.RoundCollecting
	for _, m := range r.state.Members {
		if m.Online {
			m.Status = domain.StatusThinking
		}
	}

	log.Info().Str("module", "core.room").Str("room", string(r.state.ID)).Msg("estimates reset")

	r.publishLocked(EstimatesReset{
		Type:    EventEstimatesReset,
		Members: r.membersLocked(),
	})
}

// RoomSnapshot is a read-only view for the REST API.
type RoomSnapshot struct {
	ID        domain.RoomID              `json:"id"`
	Name      string                     `json:"name"`
	Creator   string                     `json:"creator"`
	Members   []domain.Member            `json:"members"`
	Estimates map[string]domain.Estimate `json:"estimates"`
	Revealed  bool                       `json:"revealed"`
	CreatedAt time.Time                  `json:"createdAt"`
}

func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RoomSnapshot{
		ID:        r.state.ID,
		Name:      r.state.Name,
		Creator:   r.state.CreatorName,
		Members:   r.membersLocked(),
		Estimates: r.visibleEstimatesLocked(),
		Revealed:  r.state.Round == domain.RoundRevealed,
		CreatedAt: r.state.CreatedAt,
	}
}

func (r *Room) memberLocked(id string) *domain.Member {
	for _, m := range r.state.Members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *Room) membersLocked() []domain.Member {
	out := make([]domain.Member, 0, len(r.state.Members))
	for _, m := range r.state.Members {
		out = append(out, *m)
	}
	return out
}

func (r *Room) estimatesLocked() map[string]domain.Estimate {
	out := make(map[string]domain.Estimate, len(r.state.Estimates))
	for id, est := range r.state.Estimates {
		out[id] = est
	}
	return out
}

// visibleEstimatesLocked hides values until the round is revealed.
func (r *Room) visibleEstimatesLocked() map[string]domain.Estimate {
	if r.state.Round != domain.RoundRevealed {
		return map[string]domain.Estimate{}
	}
	return r.estimatesLocked()
}

// publishLocked fans the event out to every subscribed connection.
// Push and forget: a stalling connection drops the frame rather than
// blocking the room; a fresh join always re-synchronizes full state.
func (r *Room) publishLocked(event any) {
	frame, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Str("room", string(r.state.ID)).Msg("marshal event")
		return
	}

	sent, dropped := 0, 0
	for _, conn := range r.subs {
		if err := conn.TrySend(Frame(frame)); err != nil {
			dropped++
			continue
		}
		sent++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.state.ID)).
		Int("sent_to", sent).Int("dropped", dropped).Msg("broadcast")
}
