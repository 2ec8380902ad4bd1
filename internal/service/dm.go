package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"gorm.io/gorm"
)

// DMService 는 1:1 쪽지를 담당한다. 조회/수정/삭제 모두 발신자나 수신자만 가능하다.
type DMService struct {
	db *gorm.DB
}

func NewDMService(db *gorm.DB) *DMService {
	return &DMService{db: db}
}

type DirectMessageDTO struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"senderId"`
	ReceiverID uint      `json:"receiverId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toDMDTO(m models.DirectMessage) DirectMessageDTO {
	return DirectMessageDTO{
		ID: m.ID, SenderID: m.SenderID, ReceiverID: m.ReceiverID,
		Title: m.Title, Content: m.Content, IsRead: m.IsRead, CreatedAt: m.CreatedAt,
	}
}

func isParticipant(m models.DirectMessage, userID uint) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// List 는 요청자가 주고받은 쪽지만 돌려준다.
func (s *DMService) List(actingUserID uint) ([]DirectMessageDTO, error) {
	var msgs []models.DirectMessage
	if err := s.db.Where("sender_id = ? OR receiver_id = ?", actingUserID, actingUserID).
		Order("id desc").Find(&msgs).Error; err != nil {
		return nil, err
	}
	out := make([]DirectMessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toDMDTO(m))
	}
	return out, nil
}

func (s *DMService) GetOne(id, actingUserID uint) (*DirectMessageDTO, error) {
	var msg models.DirectMessage
	if err := s.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: message %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !isParticipant(msg, actingUserID) {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}
	dto := toDMDTO(msg)
	return &dto, nil
}

type DirectMessageInput struct {
	ReceiverID uint   `json:"receiverId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

func (s *DMService) Create(in DirectMessageInput, senderID uint) (*DirectMessageDTO, error) {
	var receiver models.User
	if err := s.db.First(&receiver, in.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: receiver %d", ErrNotFound, in.ReceiverID)
		}
		return nil, err
	}
	msg := models.DirectMessage{SenderID: senderID, ReceiverID: in.ReceiverID, Title: in.Title, Content: in.Content}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	dto := toDMDTO(msg)
	return &dto, nil
}

type DirectMessageUpdate struct {
	IsRead *bool `json:"isRead"`
}

// Update 는 읽음 표시 용도다. 발신자/수신자 외에는 Forbidden.
func (s *DMService) Update(id uint, upd DirectMessageUpdate, actingUserID uint) (*DirectMessageDTO, error) {
	var msg models.DirectMessage
	if err := s.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: message %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !isParticipant(msg, actingUserID) {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}
	if upd.IsRead != nil {
		msg.IsRead = *upd.IsRead
		if err := s.db.Model(&models.DirectMessage{}).Where("id = ?", id).
			Update("is_read", msg.IsRead).Error; err != nil {
			return nil, err
		}
	}
	dto := toDMDTO(msg)
	return &dto, nil
}

func (s *DMService) Remove(id, actingUserID uint) error {
	var msg models.DirectMessage
	if err := s.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: message %d", ErrNotFound, id)
		}
		return err
	}
	if !isParticipant(msg, actingUserID) {
		return fmt.Errorf("%w: not a participant", ErrForbidden)
	}
	return s.db.Delete(&models.DirectMessage{}, id).Error
}
