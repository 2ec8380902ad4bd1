package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/auth"
	"github.com/6ReactTeamproject/nest-sub000/internal/config"
	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"gorm.io/gorm"
)

// DefaultAvatarURL 은 회원가입 시 아바타를 따로 주지 않았을 때 쓰인다.
const DefaultAvatarURL = "/uploads/default-avatar.png"

// UserService 는 계정 생성/인증과 사용자 리소스 조회를 담당한다.
type UserService struct {
	db  *gorm.DB
	cfg config.Config
}

func NewUserService(db *gorm.DB, cfg config.Config) *UserService {
	return &UserService{db: db, cfg: cfg}
}

// UserDTO 는 비밀번호 해시를 제외한 공개 사용자 정보다.
type UserDTO struct {
	ID         uint   `json:"id"`
	LoginID    string `json:"loginId"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

func toUserDTO(u models.User) UserDTO {
	return UserDTO{ID: u.ID, LoginID: u.LoginID, Name: u.Name, AvatarURL: u.AvatarURL, ProfileURL: u.ProfileURL}
}

// AuthResult 는 회원가입/로그인 성공 시 돌려주는 토큰 쌍과 사용자 정보다.
type AuthResult struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	User         UserDTO `json:"user"`
}

// Register 는 loginId 중복을 확인하고 새 계정과 토큰 쌍을 만든다.
func (s *UserService) Register(loginID, password, name string) (*AuthResult, error) {
	loginID = strings.TrimSpace(loginID)
	var count int64
	if err := s.db.Model(&models.User{}).Where("login_id = ?", loginID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: login id taken", ErrConflict)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{LoginID: loginID, PasswordHash: hash, Name: name, AvatarURL: DefaultAvatarURL}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// Login 은 자격 증명을 확인하고 refresh token 을 새로 교체한다.
func (s *UserService) Login(loginID, password string) (*AuthResult, error) {
	var user models.User
	if err := s.db.Where("login_id = ?", loginID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return s.issueTokens(user)
}

func (s *UserService) issueTokens(user models.User) (*AuthResult, error) {
	at, err := auth.GenerateAccessToken(user.ID, user.LoginID, s.cfg.JWTSecret, s.cfg.AccessTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	rt, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	exp := time.Now().Add(s.cfg.RefreshTokenTTL)
	if err := auth.SaveRefreshToken(s.db, user.ID, rt, exp); err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: at, RefreshToken: rt, User: toUserDTO(user)}, nil
}

// RefreshResult 는 토큰 갱신 결과. refresh token 은 로그인 때만 회전하므로 여기에 없다.
type RefreshResult struct {
	AccessToken string `json:"accessToken"`
}

// Refresh 는 opaque refresh token 을 조회해 access token 만 새로 발급한다.
// 만료된 토큰 행은 조회 중에 삭제된다.
func (s *UserService) Refresh(refreshToken string) (*RefreshResult, error) {
	rec, err := auth.ValidateRefreshToken(s.db, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refresh token not found", ErrUnauthorized)
		}
		if errors.Is(err, auth.ErrRefreshTokenExpired) {
			return nil, fmt.Errorf("%w: refresh token expired", ErrUnauthorized)
		}
		return nil, err
	}
	var user models.User
	if err := s.db.First(&user, rec.UserID).Error; err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
	}
	at, err := auth.GenerateAccessToken(user.ID, user.LoginID, s.cfg.JWTSecret, s.cfg.AccessTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{AccessToken: at}, nil
}

// Logout 은 refresh token 행을 지운다. 없어도 성공으로 본다.
func (s *UserService) Logout(refreshToken string) error {
	return auth.DeleteRefreshToken(s.db, refreshToken)
}

// CheckLoginID 는 loginId 사용 가능 여부를 돌려준다.
func (s *UserService) CheckLoginID(loginID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("login_id = ?", loginID).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// List 는 전체 사용자 공개 프로필을 돌려준다.
func (s *UserService) List() ([]UserDTO, error) {
	var users []models.User
	if err := s.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return out, nil
}

func (s *UserService) GetOne(id uint) (*UserDTO, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// UserUpdate 는 사용자 본인이 고칠 수 있는 필드만 담는다.
type UserUpdate struct {
	Name       *string `json:"name"`
	AvatarURL  *string `json:"avatarUrl"`
	ProfileURL *string `json:"profileUrl"`
}

// Update 는 본인 계정만 수정할 수 있다.
func (s *UserService) Update(id uint, upd UserUpdate, actingUserID uint) (*UserDTO, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	if user.ID != actingUserID {
		return nil, fmt.Errorf("%w: not the account owner", ErrForbidden)
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = *upd.AvatarURL
	}
	if upd.ProfileURL != nil {
		user.ProfileURL = *upd.ProfileURL
	}
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}
