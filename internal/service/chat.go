package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// MaxRoomIDLen / MaxChatMessageLen 은 조인/전송 입력 검증 한도다.
	MaxRoomIDLen      = 50
	MaxChatMessageLen = 1000

	// AnonymousName 은 인증에 실패한 채팅 세션의 표시 이름이다.
	AnonymousName = "익명"

	// PrivateRoomPrefix 가 붙은 방은 1:1 채팅으로 취급한다.
	PrivateRoomPrefix = "private-"
	privateRoomName   = "1:1 채팅"

	// HistoryLimit 은 조인 시 재생하는 최근 메시지 수다.
	HistoryLimit = 100
)

// 공개 방은 고정 집합이다. 그 외 모든 방은 암묵적으로 사설 방이다.
var publicRooms = map[string]struct{}{
	"general": {},
	"travel":  {},
	"food":    {},
}

// IsPublicRoom 은 roomID 가 고정 공개 방인지 알려준다.
func IsPublicRoom(roomID string) bool {
	_, ok := publicRooms[roomID]
	return ok
}

// PrivateRoomID 는 두 사용자 id 로 결정적인 1:1 방 id 를 만든다.
// 양쪽이 악수 없이 같은 값을 계산할 수 있도록 작은 id 가 앞에 온다.
func PrivateRoomID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s%d-%d", PrivateRoomPrefix, a, b)
}

// ValidateRoomID 는 빈 값과 50자 초과를 거른다.
func ValidateRoomID(roomID string) error {
	if roomID == "" {
		return fmt.Errorf("%w: room id is empty", ErrBadRequest)
	}
	if len(roomID) > MaxRoomIDLen {
		return fmt.Errorf("%w: room id longer than %d", ErrBadRequest, MaxRoomIDLen)
	}
	return nil
}

// ChatService 는 채팅 메시지 영속화와 히스토리 재생을 담당한다.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

type ChatMessageDTO struct {
	ID       uint      `json:"id"`
	RoomID   string    `json:"roomId"`
	UserID   uint      `json:"userId"`
	Username string    `json:"username"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

// EnsureRoom 은 방 행이 없으면 만든다. 같은 id 로 여러 번 불러도 행은 하나다.
func (s *ChatService) EnsureRoom(roomID string, creatorID uint) error {
	name := roomID
	if strings.HasPrefix(roomID, PrivateRoomPrefix) {
		name = privateRoomName
	}
	room := models.ChatRoom{RoomID: roomID, Name: name, CreatorID: creatorID}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}},
		DoNothing: true,
	}).Create(&room).Error
}

// RecordParticipant 는 인증 사용자의 참여를 upsert 한다. 익명(0)은 기록하지 않는다.
func (s *ChatService) RecordParticipant(roomID string, userID uint) error {
	if userID == 0 {
		return nil
	}
	p := models.ChatParticipant{RoomID: roomID, UserID: userID}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&p).Error
}

// SaveMessage 는 입력을 검증하고 방을 지연 생성한 뒤 메시지를 저장한다.
func (s *ChatService) SaveMessage(roomID string, userID uint, username, text string) (*ChatMessageDTO, error) {
	if err := ValidateRoomID(roomID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrBadRequest)
	}
	if len([]rune(text)) > MaxChatMessageLen {
		return nil, fmt.Errorf("%w: message longer than %d", ErrBadRequest, MaxChatMessageLen)
	}
	if err := s.EnsureRoom(roomID, userID); err != nil {
		return nil, err
	}
	if err := s.RecordParticipant(roomID, userID); err != nil {
		return nil, err
	}
	msg := models.ChatMessage{RoomID: roomID, UserID: userID, Content: text}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &ChatMessageDTO{
		ID: msg.ID, RoomID: msg.RoomID, UserID: msg.UserID,
		Username: username, Message: msg.Content, Time: msg.CreatedAt,
	}, nil
}

// History 는 최근 limit 개 메시지를 오래된 순으로, 보낸 사람 표시 이름과 함께 돌려준다.
func (s *ChatService) History(roomID string, limit int) ([]ChatMessageDTO, error) {
	if err := ValidateRoomID(roomID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = HistoryLimit
	}
	var msgs []models.ChatMessage
	if err := s.db.Where("room_id = ?", roomID).Order("id desc").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	names, err := s.resolveNames(msgs)
	if err != nil {
		return nil, err
	}
	out := make([]ChatMessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ChatMessageDTO{
			ID: m.ID, RoomID: m.RoomID, UserID: m.UserID,
			Username: names[m.UserID], Message: m.Content, Time: m.CreatedAt,
		})
	}
	return out, nil
}

// resolveNames 는 메시지에 등장한 사용자들의 표시 이름을 한 번에 조회한다.
// 익명(0)과 탈퇴한 사용자는 익명 이름으로 표시한다.
func (s *ChatService) resolveNames(msgs []models.ChatMessage) (map[uint]string, error) {
	seen := make(map[uint]struct{}, len(msgs))
	userIDs := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		if m.UserID == 0 {
			continue
		}
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		userIDs = append(userIDs, m.UserID)
	}

	names := make(map[uint]string, len(userIDs)+1)
	names[0] = AnonymousName
	if len(userIDs) > 0 {
		var users []models.User
		if err := s.db.Select("id", "name").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}
	for _, id := range userIDs {
		if names[id] == "" {
			names[id] = AnonymousName
		}
	}
	return names, nil
}
