package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(wsEvent{Event: event, Data: raw}))
}

// readEvent skips unrelated events until the wanted one arrives.
func readEvent(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		var evt wsEvent
		err := conn.ReadJSON(&evt)
		require.NoError(t, err, "waiting for %s", want)
		if evt.Event == want {
			return evt.Data
		}
		if time.Now().After(deadline) {
			t.Fatalf("did not receive %s in time", want)
		}
	}
}

func TestChatWS_PrivateRoomFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	alice := registerUser(t, r, "alice", "pass1234", "Alice")
	bob := registerUser(t, r, "bob", "pass1234", "Bob")
	roomID := service.PrivateRoomID(alice.User.ID, bob.User.ID)

	aliceConn := dialWS(t, srv, alice.AccessToken)
	sendEvent(t, aliceConn, "joinRoom", map[string]string{"roomId": roomID})
	var history []service.ChatMessageDTO
	require.NoError(t, json.Unmarshal(readEvent(t, aliceConn, "chatHistory"), &history))
	assert.Empty(t, history)
	readEvent(t, aliceConn, "joinRoomSuccess")

	bobConn := dialWS(t, srv, bob.AccessToken)
	sendEvent(t, bobConn, "joinRoom", map[string]string{"roomId": roomID})
	readEvent(t, bobConn, "joinRoomSuccess")

	// The member already in the room is told about the arrival.
	var sys struct {
		RoomID  string `json:"roomId"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(readEvent(t, aliceConn, "systemMessage"), &sys))
	assert.Equal(t, roomID, sys.RoomID)
	assert.Contains(t, sys.Message, "Bob")

	sendEvent(t, aliceConn, "chatMessage", map[string]string{"roomId": roomID, "message": "hi"})

	var got service.ChatMessageDTO
	require.NoError(t, json.Unmarshal(readEvent(t, bobConn, "chatMessage"), &got))
	assert.Equal(t, roomID, got.RoomID)
	assert.Equal(t, "hi", got.Message)
	assert.Equal(t, "Alice", got.Username)
	assert.Equal(t, alice.User.ID, got.UserID)

	// The sender receives their own message too.
	require.NoError(t, json.Unmarshal(readEvent(t, aliceConn, "chatMessage"), &got))
	assert.Equal(t, "hi", got.Message)

	// A later join replays the conversation.
	lateConn := dialWS(t, srv, bob.AccessToken)
	sendEvent(t, lateConn, "joinRoom", map[string]string{"roomId": roomID})
	require.NoError(t, json.Unmarshal(readEvent(t, lateConn, "chatHistory"), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].Message)
	assert.Equal(t, "Alice", history[0].Username)
}

func TestChatWS_LeaveNotifiesRemaining(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	alice := registerUser(t, r, "alice", "pass1234", "Alice")
	bob := registerUser(t, r, "bob", "pass1234", "Bob")
	roomID := service.PrivateRoomID(alice.User.ID, bob.User.ID)

	aliceConn := dialWS(t, srv, alice.AccessToken)
	sendEvent(t, aliceConn, "joinRoom", map[string]string{"roomId": roomID})
	readEvent(t, aliceConn, "joinRoomSuccess")

	bobConn := dialWS(t, srv, bob.AccessToken)
	sendEvent(t, bobConn, "joinRoom", map[string]string{"roomId": roomID})
	readEvent(t, bobConn, "joinRoomSuccess")

	var sys struct {
		RoomID  string `json:"roomId"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(readEvent(t, aliceConn, "systemMessage"), &sys))
	assert.Contains(t, sys.Message, "입장") // bob's arrival notice

	// Explicit leave: the remaining member is told who left, the leaver
	// gets the confirmation.
	sendEvent(t, bobConn, "leaveRoom", map[string]string{"roomId": roomID})
	var confirm struct {
		RoomID string `json:"roomId"`
	}
	require.NoError(t, json.Unmarshal(readEvent(t, bobConn, "leaveRoomSuccess"), &confirm))
	assert.Equal(t, roomID, confirm.RoomID)

	require.NoError(t, json.Unmarshal(readEvent(t, aliceConn, "systemMessage"), &sys))
	assert.Equal(t, roomID, sys.RoomID)
	assert.Contains(t, sys.Message, "Bob")
	assert.Contains(t, sys.Message, "퇴장")

	// Abrupt close: bob rejoins, then drops the connection without leaveRoom.
	bobConn = dialWS(t, srv, bob.AccessToken)
	sendEvent(t, bobConn, "joinRoom", map[string]string{"roomId": roomID})
	readEvent(t, bobConn, "joinRoomSuccess")
	require.NoError(t, json.Unmarshal(readEvent(t, aliceConn, "systemMessage"), &sys))
	assert.Contains(t, sys.Message, "입장") // bob's re-join notice

	require.NoError(t, bobConn.Close())

	require.NoError(t, json.Unmarshal(readEvent(t, aliceConn, "systemMessage"), &sys))
	assert.Equal(t, roomID, sys.RoomID)
	assert.Contains(t, sys.Message, "Bob")
	assert.Contains(t, sys.Message, "퇴장")
}

func TestChatWS_AnonymousFallback(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	// A garbage token downgrades to anonymous instead of rejecting the handshake.
	conn := dialWS(t, srv, "not-a-valid-token")
	sendEvent(t, conn, "joinRoom", map[string]string{"roomId": "general"})
	readEvent(t, conn, "joinRoomSuccess")

	sendEvent(t, conn, "chatMessage", map[string]string{"roomId": "general", "message": "hello"})
	var got service.ChatMessageDTO
	require.NoError(t, json.Unmarshal(readEvent(t, conn, "chatMessage"), &got))
	assert.EqualValues(t, 0, got.UserID)
	assert.Equal(t, service.AnonymousName, got.Username)
}

func TestChatWS_ErrorEventKeepsConnection(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv, "")
	sendEvent(t, conn, "timeTravel", map[string]string{})
	var errData struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(readEvent(t, conn, "error"), &errData))
	assert.NotEmpty(t, errData.Message)

	// Invalid room ids are reported the same way.
	sendEvent(t, conn, "joinRoom", map[string]string{"roomId": strings.Repeat("x", 51)})
	readEvent(t, conn, "error")

	// The connection survives both failures.
	sendEvent(t, conn, "joinRoom", map[string]string{"roomId": "general"})
	readEvent(t, conn, "joinRoomSuccess")
}
