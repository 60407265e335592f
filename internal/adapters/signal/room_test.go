package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/planningpoker/internal/app"
	"github.com/user/planningpoker/internal/config"
	"github.com/user/planningpoker/internal/core"
)

// dispatch and the handlers only touch the send channel side of
// wsConn, so events can be driven without a live socket.

func newTestController() *Controller {
	cfg := &config.Config{
		Mode:       "test",
		ReadLimit:  4096,
		PingPeriod: time.Minute,
		SendBuffer: 16,
	}
	orch := &app.Orchestrator{
		Registry:  app.NewRegistry(),
		Rooms:     core.NewStore(),
		Analytics: app.NewAnalyticsStore(),
	}
	return NewController(orch, cfg)
}

func newTestClient(sid string) *client {
	return &client{
		sid:  core.SessionID(sid),
		conn: &wsConn{send: make(chan core.Frame, 16)},
	}
}

func recv(t *testing.T, cl *client) map[string]any {
	t.Helper()
	select {
	case frame := <-cl.conn.send:
		var ev map[string]any
		require.NoError(t, json.Unmarshal(frame, &ev))
		return ev
	default:
		t.Fatal("expected a queued frame")
		return nil
	}
}

func assertNoFrame(t *testing.T, cl *client) {
	t.Helper()
	select {
	case frame := <-cl.conn.send:
		t.Fatalf("unexpected frame: %s", frame)
	default:
	}
}

func TestDispatchMalformedJSON(t *testing.T) {
	ctl := newTestController()
	cl := newTestClient("sid-1")

	ctl.dispatch(cl, []byte(`{not json`))

	ev := recv(t, cl)
	assert.Equal(t, core.EventError, ev["type"])
	assert.Equal(t, "Malformed event", ev["message"])
}

func TestDispatchUnknownTypeIgnored(t *testing.T) {
	ctl := newTestController()
	cl := newTestClient("sid-1")

	ctl.dispatch(cl, []byte(`{"type":"make-coffee"}`))
	assertNoFrame(t, cl)
}

func TestJoinMissingFields(t *testing.T) {
	ctl := newTestController()
	cl := newTestClient("sid-1")

	ctl.dispatch(cl, []byte(`{"type":"join-room","roomId":"abc12345"}`))

	ev := recv(t, cl)
	assert.Equal(t, core.EventError, ev["type"])
	assert.Contains(t, ev["message"], "required")
	assert.Nil(t, cl.room)
}

func TestJoinUnknownRoom(t *testing.T) {
	ctl := newTestController()
	cl := newTestClient("sid-1")

	ctl.dispatch(cl, []byte(`{"type":"join-room","roomId":"nope1234","userName":"Alice","userId":"user-a"}`))

	ev := recv(t, cl)
	assert.Equal(t, core.EventError, ev["type"])
	assert.Equal(t, "Room not found", ev["message"])
}

func TestRoundFlowOverDispatch(t *testing.T) {
	ctl := newTestController()
	room := ctl.Orch.Rooms.CreateRoom("Sprint 12", "Alice")
	cl := newTestClient("sid-1")

	ctl.dispatch(cl, []byte(`{"type":"join-room","roomId":"`+string(room.ID())+`","userName":"Alice","userId":"user-a"}`))
	require.NotNil(t, cl.room)
	ev := recv(t, cl)
	assert.Equal(t, core.EventRoomUpdated, ev["type"])

	ctl.dispatch(cl, []byte(`{"type":"submit-estimate","roomId":"`+string(room.ID())+`","userId":"user-a","estimate":5}`))
	ev = recv(t, cl)
	assert.Equal(t, core.EventEstimateSubmitted, ev["type"])
	assert.Equal(t, float64(1), ev["estimateCount"])

	ctl.dispatch(cl, []byte(`{"type":"reveal-estimates","roomId":"`+string(room.ID())+`"}`))
	ev = recv(t, cl)
	assert.Equal(t, core.EventEstimatesRevealed, ev["type"])
	assert.Equal(t, "5.0", ev["average"])
	assert.Equal(t, true, ev["consensus"])

	// A late vote after reveal is dropped without any reply.
	ctl.dispatch(cl, []byte(`{"type":"submit-estimate","roomId":"`+string(room.ID())+`","userId":"user-a","estimate":8}`))
	assertNoFrame(t, cl)

	ctl.dispatch(cl, []byte(`{"type":"reset-estimates","roomId":"`+string(room.ID())+`"}`))
	ev = recv(t, cl)
	assert.Equal(t, core.EventEstimatesReset, ev["type"])
}

func TestRejoinSwitchesRooms(t *testing.T) {
	ctl := newTestController()
	roomA := ctl.Orch.Rooms.CreateRoom("Sprint 12", "Alice")
	roomB := ctl.Orch.Rooms.CreateRoom("Sprint 13", "Alice")
	cl := newTestClient("sid-1")

	ctl.dispatch(cl, []byte(`{"type":"join-room","roomId":"`+string(roomA.ID())+`","userName":"Alice","userId":"user-a"}`))
	recv(t, cl)

	ctl.dispatch(cl, []byte(`{"type":"join-room","roomId":"`+string(roomB.ID())+`","userName":"Alice","userId":"user-a"}`))
	require.Equal(t, roomB, cl.room)
	ev := recv(t, cl)
	assert.Equal(t, core.EventRoomUpdated, ev["type"])

	// The first room no longer reaches this connection.
	require.NoError(t, ctl.Orch.Reveal(roomA.ID()))
	assertNoFrame(t, cl)

	snapA := roomA.Snapshot()
	require.Len(t, snapA.Members, 1)
	assert.False(t, snapA.Members[0].Online)
}

func TestSubmitOffScaleValue(t *testing.T) {
	ctl := newTestController()
	room := ctl.Orch.Rooms.CreateRoom("Sprint 12", "Alice")
	cl := newTestClient("sid-1")

	ctl.dispatch(cl, []byte(`{"type":"join-room","roomId":"`+string(room.ID())+`","userName":"Alice","userId":"user-a"}`))
	recv(t, cl)

	ctl.dispatch(cl, []byte(`{"type":"submit-estimate","roomId":"`+string(room.ID())+`","userId":"user-a","estimate":4}`))
	ev := recv(t, cl)
	assert.Equal(t, core.EventError, ev["type"])
	assert.Equal(t, "Invalid estimate value", ev["message"])
}

func TestSubmitUnsureEstimate(t *testing.T) {
	ctl := newTestController()
	room := ctl.Orch.Rooms.CreateRoom("Sprint 12", "Alice")
	cl := newTestClient("sid-1")

	ctl.dispatch(cl, []byte(`{"type":"join-room","roomId":"`+string(room.ID())+`","userName":"Alice","userId":"user-a"}`))
	recv(t, cl)

	ctl.dispatch(cl, []byte(`{"type":"submit-estimate","roomId":"`+string(room.ID())+`","userId":"user-a","estimate":"?"}`))
	ev := recv(t, cl)
	assert.Equal(t, core.EventEstimateSubmitted, ev["type"])

	ctl.dispatch(cl, []byte(`{"type":"reveal-estimates","roomId":"`+string(room.ID())+`"}`))
	ev = recv(t, cl)
	assert.Equal(t, "0.0", ev["average"])
	assert.Equal(t, false, ev["consensus"])
	assert.Equal(t, float64(1), ev["totalVotes"])
}
