package models

import "time"

// User 는 로그인 계정이자 게시글/댓글/쪽지의 소유자이다.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	LoginID      string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"size:64;not null"`
	AvatarURL    string `gorm:"size:255"`
	ProfileURL   string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken 은 사용자당 하나만 유지한다. 로그인/회원가입 시 기존 행을 지운다.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

type Post struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:200;not null"`
	Content   string `gorm:"type:text;not null"`
	UserID    uint   `gorm:"index;not null"`
	Views     uint   `gorm:"not null;default:0"`
	ImagePath string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment 의 ParentID 는 같은 게시글의 댓글만 가리킬 수 있다(1단계 대댓글).
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"index;not null"`
	UserID    uint   `gorm:"index;not null"`
	ParentID  *uint  `gorm:"index"`
	Content   string `gorm:"type:text;not null"`
	Likes     uint   `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentLike 는 (comment_id, user_id) 유니크로 한 사용자당 한 번만 좋아요를 허용한다.
type CommentLike struct {
	ID        uint `gorm:"primaryKey"`
	CommentID uint `gorm:"not null;index;uniqueIndex:uk_comment_like"`
	UserID    uint `gorm:"not null;index;uniqueIndex:uk_comment_like"`
	CreatedAt time.Time
}

// DirectMessage 는 1:1 쪽지. IsRead 는 수신자가 읽음 처리할 때만 바뀐다.
type DirectMessage struct {
	ID         uint   `gorm:"primaryKey"`
	SenderID   uint   `gorm:"index;not null"`
	ReceiverID uint   `gorm:"index;not null"`
	Title      string `gorm:"size:200;not null"`
	Content    string `gorm:"type:text;not null"`
	IsRead     bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
}

// Member 는 사용자당 하나뿐인 교류 프로필이다.
type Member struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"uniqueIndex;not null"`
	Nickname     string `gorm:"size:64;not null"`
	Country      string `gorm:"size:64"`
	University   string `gorm:"size:128"`
	Introduction string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Semester 는 교환/어학연수 학기 기록이다.
type Semester struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	Country     string `gorm:"size:64;not null"`
	University  string `gorm:"size:128"`
	Term        string `gorm:"size:32"`
	StartDate   *time.Time
	EndDate     *time.Time
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChatRoom 은 첫 메시지 시점에 지연 생성된다. RoomID 는 외부에 노출되는 문자열 식별자.
type ChatRoom struct {
	ID          uint   `gorm:"primaryKey"`
	RoomID      string `gorm:"uniqueIndex;size:64;not null"`
	Name        string `gorm:"size:128;not null"`
	Description string `gorm:"size:255"`
	CreatorID   uint   `gorm:"not null"`
	CreatedAt   time.Time
}

// ChatMessage 의 UserID 0 은 익명 세션을 뜻한다.
type ChatMessage struct {
	ID        uint   `gorm:"primaryKey"`
	RoomID    string `gorm:"index:idx_chat_msg_room;size:64;not null"`
	UserID    uint   `gorm:"index;not null;default:0"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// ChatParticipant 는 인증된 사용자의 방 참여 이력만 기록한다.
type ChatParticipant struct {
	ID        uint   `gorm:"primaryKey"`
	RoomID    string `gorm:"size:64;not null;index;uniqueIndex:uk_chat_participant"`
	UserID    uint   `gorm:"not null;index;uniqueIndex:uk_chat_participant"`
	CreatedAt time.Time
}
