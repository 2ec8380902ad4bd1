package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/auth"
	"github.com/6ReactTeamproject/nest-sub000/internal/config"
	"github.com/6ReactTeamproject/nest-sub000/internal/metrics"
	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client 는 websocket 연결 하나다. 신원은 연결 시점에 한 번 확정된다.
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	identity Identity
	chatSvc  *service.ChatService
}

// Event 는 채팅 소켓 위의 공용 봉투다.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomData struct {
	RoomID string `json:"roomId"`
}

type chatMessageData struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// Serve 는 websocket 핸드셰이크와 신원 결정을 처리한다.
// 토큰이 없거나 틀려도 연결을 거절하지 않고 익명으로 강등한다.
func Serve(h *Hub, gdb *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := resolveIdentity(c, gdb, cfg)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := &Client{
			id:       uuid.NewString(),
			hub:      h,
			conn:     conn,
			send:     make(chan []byte, 256),
			identity: identity,
			chatSvc:  service.NewChatService(gdb),
		}
		h.Registry().Put(client.id, identity)
		metrics.WsConnections.Inc()
		log.Debug().Str("conn_id", client.id).Uint("user_id", identity.UserID).Msg("ws connect")

		go client.writePump()
		client.readPump()
	}
}

// resolveIdentity 는 auth 쿼리/헤더의 토큰을 검증한다. 어떤 실패든 익명으로 끝난다.
func resolveIdentity(c *gin.Context, gdb *gorm.DB, cfg config.Config) Identity {
	token := c.Query("token")
	if token == "" {
		token = auth.BearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		return Anonymous()
	}
	claims, err := auth.ParseAccessToken(token, cfg.JWTSecret)
	if err != nil {
		return Anonymous()
	}
	var user models.User
	if err := gdb.First(&user, claims.UserID).Error; err != nil {
		return Anonymous()
	}
	return Identity{UserID: user.ID, Username: user.Name}
}

func (c *Client) readPump() {
	defer c.disconnect()
	c.conn.SetReadLimit(1 << 20) // 1MB
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			c.sendError("invalid payload")
			continue
		}
		// 핸들러 오류는 보낸 연결에만 error 이벤트로 전달되고 연결은 유지된다.
		if err := c.dispatch(evt); err != nil {
			c.sendError(err.Error())
		}
	}
}

func (c *Client) dispatch(evt Event) error {
	switch evt.Event {
	case "joinRoom":
		var d joinRoomData
		if err := json.Unmarshal(evt.Data, &d); err != nil {
			return fmt.Errorf("invalid joinRoom payload")
		}
		return c.handleJoin(d.RoomID)
	case "leaveRoom":
		var d joinRoomData
		if err := json.Unmarshal(evt.Data, &d); err != nil {
			return fmt.Errorf("invalid leaveRoom payload")
		}
		return c.handleLeave(d.RoomID)
	case "chatMessage":
		var d chatMessageData
		if err := json.Unmarshal(evt.Data, &d); err != nil {
			return fmt.Errorf("invalid chatMessage payload")
		}
		return c.handleChatMessage(d.RoomID, d.Message)
	default:
		return fmt.Errorf("unknown event %q", evt.Event)
	}
}

// handleJoin 은 검증 → 그룹 합류 → 히스토리 재생 → (사설 방) 입장 알림 순서다.
func (c *Client) handleJoin(roomID string) error {
	if err := service.ValidateRoomID(roomID); err != nil {
		return err
	}
	c.hub.Join(roomID, c)
	if err := c.chatSvc.RecordParticipant(roomID, c.identity.UserID); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("record participant")
	}
	history, err := c.chatSvc.History(roomID, service.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load history")
	}
	c.sendEvent("chatHistory", history)
	if !service.IsPublicRoom(roomID) {
		c.notifyRoom(roomID, fmt.Sprintf("%s님이 입장했습니다.", c.identity.Username))
	}
	c.sendEvent("joinRoomSuccess", gin.H{"roomId": roomID, "message": fmt.Sprintf("%s 방에 입장했습니다.", roomID)})
	return nil
}

// handleLeave 는 사설 방이면 제거 전에 남은 인원에게 퇴장을 알린다.
func (c *Client) handleLeave(roomID string) error {
	if err := service.ValidateRoomID(roomID); err != nil {
		return err
	}
	if !service.IsPublicRoom(roomID) {
		c.notifyRoom(roomID, fmt.Sprintf("%s님이 퇴장했습니다.", c.identity.Username))
	}
	c.hub.Leave(roomID, c)
	c.sendEvent("leaveRoomSuccess", gin.H{"roomId": roomID, "message": fmt.Sprintf("%s 방에서 나갔습니다.", roomID)})
	return nil
}

func (c *Client) handleChatMessage(roomID, text string) error {
	dto, err := c.chatSvc.SaveMessage(roomID, c.identity.UserID, c.identity.Username, text)
	if err != nil {
		return err
	}
	payload, err := marshalEvent("chatMessage", dto)
	if err != nil {
		return fmt.Errorf("failed to encode message")
	}
	metrics.WsMessagesTotal.Inc()
	// 보낸 사람을 포함한 방 전원에게 전달한다.
	c.hub.Broadcast(roomID, payload)
	return nil
}

// disconnect 는 연결 종료 시 사설 방들에 퇴장을 알리고 레지스트리에서 지운다.
func (c *Client) disconnect() {
	joined := c.hub.RemoveClient(c)
	for _, roomID := range joined {
		if service.IsPublicRoom(roomID) {
			continue
		}
		payload, err := marshalEvent("systemMessage", gin.H{
			"roomId":  roomID,
			"message": fmt.Sprintf("%s님이 퇴장했습니다.", c.identity.Username),
			"time":    time.Now(),
		})
		if err == nil {
			c.hub.Broadcast(roomID, payload)
		}
	}
	c.hub.Registry().Remove(c.id)
	metrics.WsConnections.Dec()
	close(c.send)
	_ = c.conn.Close()
	log.Debug().Str("conn_id", c.id).Msg("ws disconnect")
}

// notifyRoom 은 자신을 제외한 방 인원에게 systemMessage 를 보낸다.
func (c *Client) notifyRoom(roomID, message string) {
	payload, err := marshalEvent("systemMessage", gin.H{
		"roomId":  roomID,
		"message": message,
		"time":    time.Now(),
	})
	if err != nil {
		return
	}
	c.hub.BroadcastExcept(roomID, payload, c)
}

func marshalEvent(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: event, Data: raw})
}

func (c *Client) sendEvent(event string, data interface{}) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) sendError(message string) {
	c.sendEvent("error", gin.H{"message": message})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			_ = w.Close()
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
