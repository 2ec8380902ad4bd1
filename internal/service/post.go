package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PostService 는 게시글 CRUD 와 검색, 조회수 증가를 담당한다.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

type PostDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    uint      `json:"userId"`
	Views     uint      `json:"views"`
	ImagePath string    `json:"imagePath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPostDTO(p models.Post) PostDTO {
	return PostDTO{ID: p.ID, Title: p.Title, Content: p.Content, UserID: p.UserID, Views: p.Views, ImagePath: p.ImagePath, CreatedAt: p.CreatedAt}
}

// List 는 최신 글부터 돌려준다.
func (s *PostService) List() ([]PostDTO, error) {
	var posts []models.Post
	if err := s.db.Order("id desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostDTO(p))
	}
	return out, nil
}

// Search 는 제목/본문에서 키워드를 찾는다.
func (s *PostService) Search(keyword string) ([]PostDTO, error) {
	pattern := "%" + keyword + "%"
	var posts []models.Post
	if err := s.db.Where("title LIKE ? OR content LIKE ?", pattern, pattern).Order("id desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostDTO(p))
	}
	return out, nil
}

// GetOne 은 상세 조회다. 조회수 증가는 실패해도 응답을 막지 않는다.
func (s *PostService) GetOne(id uint) (*PostDTO, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}
	if err := s.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		log.Warn().Err(err).Uint("post_id", id).Msg("bump post views")
	} else {
		post.Views++
	}
	dto := toPostDTO(post)
	return &dto, nil
}

type PostInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImagePath string `json:"imagePath"`
}

func (s *PostService) Create(in PostInput, userID uint) (*PostDTO, error) {
	post := models.Post{Title: in.Title, Content: in.Content, ImagePath: in.ImagePath, UserID: userID}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	dto := toPostDTO(post)
	return &dto, nil
}

type PostUpdate struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	ImagePath *string `json:"imagePath"`
}

// Update 는 작성자 본인만 허용한다.
func (s *PostService) Update(id uint, upd PostUpdate, actingUserID uint) (*PostDTO, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}
	if post.UserID != actingUserID {
		return nil, fmt.Errorf("%w: not the post owner", ErrForbidden)
	}
	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Content != nil {
		post.Content = *upd.Content
	}
	if upd.ImagePath != nil {
		post.ImagePath = *upd.ImagePath
	}
	if err := s.db.Save(&post).Error; err != nil {
		return nil, err
	}
	dto := toPostDTO(post)
	return &dto, nil
}

// Remove 는 글과 딸린 댓글을 함께 지운다.
func (s *PostService) Remove(id uint, actingUserID uint) error {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return err
	}
	if post.UserID != actingUserID {
		return fmt.Errorf("%w: not the post owner", ErrForbidden)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
