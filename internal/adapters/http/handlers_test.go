package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/planningpoker/internal/app"
	"github.com/user/planningpoker/internal/config"
	"github.com/user/planningpoker/internal/core"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Mode:       "test",
		StaticPath: t.TempDir(),
		ReadLimit:  4096,
		PingPeriod: time.Minute,
		SendBuffer: 8,
	}
	orch := &app.Orchestrator{
		Registry:  app.NewRegistry(),
		Rooms:     core.NewStore(),
		Analytics: app.NewAnalyticsStore(),
	}
	return SetupRouter(context.Background(), cfg, orch)
}

func doJSON(r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), "timestamp")
}

func TestCreateRoom(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/rooms", `{"roomName":"Sprint 12","creatorName":"Alice"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RoomID string `json:"roomId"`
		Room   struct {
			Name     string `json:"name"`
			Creator  string `json:"creator"`
			Revealed bool   `json:"revealed"`
		} `json:"room"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.RoomID, 8)
	assert.Equal(t, "Sprint 12", resp.Room.Name)
	assert.Equal(t, "Alice", resp.Room.Creator)
	assert.False(t, resp.Room.Revealed)

	// The room is immediately retrievable and has an analytics record.
	w = doJSON(r, http.MethodGet, "/api/rooms/"+resp.RoomID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/analytics/"+resp.RoomID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "accuracyTrend")
}

func TestCreateRoomMissingFields(t *testing.T) {
	r := setupTestRouter(t)

	for _, body := range []string{`{}`, `{"roomName":"Sprint 12"}`, `{"creatorName":"Alice"}`, `not json`} {
		w := doJSON(r, http.MethodPost, "/api/rooms", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Contains(t, w.Body.String(), "Room name and creator name are required")
	}
}

func TestGetRoomNotFound(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/rooms/nope1234", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Room not found")
}

func TestAIInsight(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/ai-insight", `{"roomId":"abc12345","storyDescription":"Checkout flow"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Insight app.Insight `json:"insight"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Positive(t, resp.Insight.SuggestedEstimate)
	assert.GreaterOrEqual(t, resp.Insight.Confidence, 75)
	assert.Len(t, resp.Insight.SimilarStories, 3)
}

func TestAIInsightMalformedBody(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/ai-insight", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsNotFound(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/analytics/nope1234", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Analytics not found for this room")
}
