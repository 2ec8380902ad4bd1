package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"gorm.io/gorm"
)

// MemberService 는 사용자당 하나뿐인 교류 프로필을 담당한다.
type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

type MemberDTO struct {
	ID           uint   `json:"id"`
	UserID       uint   `json:"userId"`
	Nickname     string `json:"nickname"`
	Country      string `json:"country,omitempty"`
	University   string `json:"university,omitempty"`
	Introduction string `json:"introduction,omitempty"`
}

func toMemberDTO(m models.Member) MemberDTO {
	return MemberDTO{ID: m.ID, UserID: m.UserID, Nickname: m.Nickname, Country: m.Country, University: m.University, Introduction: m.Introduction}
}

func (s *MemberService) List() ([]MemberDTO, error) {
	var members []models.Member
	if err := s.db.Order("id asc").Find(&members).Error; err != nil {
		return nil, err
	}
	out := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberDTO(m))
	}
	return out, nil
}

func (s *MemberService) GetOne(id uint) (*MemberDTO, error) {
	var member models.Member
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: member %d", ErrNotFound, id)
		}
		return nil, err
	}
	dto := toMemberDTO(member)
	return &dto, nil
}

type MemberInput struct {
	Nickname     string `json:"nickname"`
	Country      string `json:"country"`
	University   string `json:"university"`
	Introduction string `json:"introduction"`
}

// Create 는 이미 프로필이 있으면 Conflict 를 돌려준다.
func (s *MemberService) Create(in MemberInput, userID uint) (*MemberDTO, error) {
	var count int64
	if err := s.db.Model(&models.Member{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: member profile already exists", ErrConflict)
	}
	member := models.Member{UserID: userID, Nickname: in.Nickname, Country: in.Country, University: in.University, Introduction: in.Introduction}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}
	dto := toMemberDTO(member)
	return &dto, nil
}

type MemberUpdate struct {
	Nickname     *string `json:"nickname"`
	Country      *string `json:"country"`
	University   *string `json:"university"`
	Introduction *string `json:"introduction"`
}

func (s *MemberService) Update(id uint, upd MemberUpdate, actingUserID uint) (*MemberDTO, error) {
	var member models.Member
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: member %d", ErrNotFound, id)
		}
		return nil, err
	}
	if member.UserID != actingUserID {
		return nil, fmt.Errorf("%w: not the profile owner", ErrForbidden)
	}
	if upd.Nickname != nil {
		member.Nickname = *upd.Nickname
	}
	if upd.Country != nil {
		member.Country = *upd.Country
	}
	if upd.University != nil {
		member.University = *upd.University
	}
	if upd.Introduction != nil {
		member.Introduction = *upd.Introduction
	}
	if err := s.db.Save(&member).Error; err != nil {
		return nil, err
	}
	dto := toMemberDTO(member)
	return &dto, nil
}

func (s *MemberService) Remove(id, actingUserID uint) error {
	var member models.Member
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: member %d", ErrNotFound, id)
		}
		return err
	}
	if member.UserID != actingUserID {
		return fmt.Errorf("%w: not the profile owner", ErrForbidden)
	}
	return s.db.Delete(&models.Member{}, id).Error
}

// SemesterService 는 학기 기록 CRUD 를 담당한다.
type SemesterService struct {
	db *gorm.DB
}

func NewSemesterService(db *gorm.DB) *SemesterService {
	return &SemesterService{db: db}
}

type SemesterDTO struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"userId"`
	Country     string     `json:"country"`
	University  string     `json:"university,omitempty"`
	Term        string     `json:"term,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description,omitempty"`
}

func toSemesterDTO(m models.Semester) SemesterDTO {
	return SemesterDTO{
		ID: m.ID, UserID: m.UserID, Country: m.Country, University: m.University,
		Term: m.Term, StartDate: m.StartDate, EndDate: m.EndDate, Description: m.Description,
	}
}

func (s *SemesterService) List() ([]SemesterDTO, error) {
	var rows []models.Semester
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]SemesterDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, toSemesterDTO(m))
	}
	return out, nil
}

func (s *SemesterService) GetOne(id uint) (*SemesterDTO, error) {
	var row models.Semester
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: semester %d", ErrNotFound, id)
		}
		return nil, err
	}
	dto := toSemesterDTO(row)
	return &dto, nil
}

type SemesterInput struct {
	Country     string     `json:"country"`
	University  string     `json:"university"`
	Term        string     `json:"term"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description string     `json:"description"`
}

func (s *SemesterService) Create(in SemesterInput, userID uint) (*SemesterDTO, error) {
	row := models.Semester{
		UserID: userID, Country: in.Country, University: in.University,
		Term: in.Term, StartDate: in.StartDate, EndDate: in.EndDate, Description: in.Description,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	dto := toSemesterDTO(row)
	return &dto, nil
}

type SemesterUpdate struct {
	Country     *string    `json:"country"`
	University  *string    `json:"university"`
	Term        *string    `json:"term"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description *string    `json:"description"`
}

func (s *SemesterService) Update(id uint, upd SemesterUpdate, actingUserID uint) (*SemesterDTO, error) {
	var row models.Semester
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: semester %d", ErrNotFound, id)
		}
		return nil, err
	}
	if row.UserID != actingUserID {
		return nil, fmt.Errorf("%w: not the semester owner", ErrForbidden)
	}
	if upd.Country != nil {
		row.Country = *upd.Country
	}
	if upd.University != nil {
		row.University = *upd.University
	}
	if upd.Term != nil {
		row.Term = *upd.Term
	}
	if upd.StartDate != nil {
		row.StartDate = upd.StartDate
	}
	if upd.EndDate != nil {
		row.EndDate = upd.EndDate
	}
	if upd.Description != nil {
		row.Description = *upd.Description
	}
	if err := s.db.Save(&row).Error; err != nil {
		return nil, err
	}
	dto := toSemesterDTO(row)
	return &dto, nil
}

func (s *SemesterService) Remove(id, actingUserID uint) error {
	var row models.Semester
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: semester %d", ErrNotFound, id)
		}
		return err
	}
	if row.UserID != actingUserID {
		return fmt.Errorf("%w: not the semester owner", ErrForbidden)
	}
	return s.db.Delete(&models.Semester{}, id).Error
}
