package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/planningpoker/internal/app"
	"github.com/user/planningpoker/internal/core"
	"github.com/user/planningpoker/internal/domain"
)

// RoomHandler serves the request/response surface around the core:
// room creation and lookup, story insights, analytics, health.
// None of it mutates round state.
type RoomHandler struct {
	store     *core.Store
	analytics *app.AnalyticsStore
}

func NewRoomHandler(store *core.Store, analytics *app.AnalyticsStore) *RoomHandler {
	return &RoomHandler{store: store, analytics: analytics}
}

func (h *RoomHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type createRoomRequest struct {
	RoomName    string `json:"roomName" binding:"required"`
	CreatorName string `json:"creatorName" binding:"required"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room name and creator name are required"})
		return
	}

	room := h.store.CreateRoom(req.RoomName, req.CreatorName)
	h.analytics.Init(room.ID())

	c.JSON(http.StatusOK, gin.H{
		"roomId": room.ID(),
		"room":   room.Snapshot(),
	})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, ok := h.store.GetRoom(domain.RoomID(c.Param("roomId")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room.Snapshot()})
}

type insightRequest struct {
	RoomID           string `json:"roomId"`
	StoryDescription string `json:"storyDescription"`
}

func (h *RoomHandler) AIInsight(c *gin.Context) {
	var req insightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"insight": app.GenerateInsight(req.StoryDescription)})
}

func (h *RoomHandler) GetAnalytics(c *gin.Context) {
	report, ok := h.analytics.Report(domain.RoomID(c.Param("roomId")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analytics not found for this room"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": report})
}
