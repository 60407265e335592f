package core

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/user/planningpoker/internal/domain"
)

var ErrRoomNotFound = errors.New("room not found")

// Store owns the process-lifetime map of live rooms. Only map
// insertion/lookup is guarded here; room contents synchronize
// themselves.
type Store struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*Room
}

func NewStore() *Store {
	return &Store{rooms: make(map[domain.RoomID]*Room)}
}

// CreateRoom allocates a short random identifier so concurrently
// created rooms never collide, and an empty collecting round.
func (s *Store) CreateRoom(name, creatorName string) *Room {
	id := domain.RoomID(uuid.NewString()[:8])
	room := NewRoom(&domain.Room{
		ID:          id,
		Name:        name,
		CreatorName: creatorName,
		Members:     []*domain.Member{},
		Estimates:   make(map[string]domain.Estimate),
		Round:       domain.RoundCollecting,
		CreatedAt:   time.Now(),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[id] = room

	log.Info().Str("module", "core.store").Str("room", string(id)).Str("name", name).Msg("room created")
	return room
}

func (s *Store) GetRoom(id domain.RoomID) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}
