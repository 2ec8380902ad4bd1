package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"gorm.io/gorm"
)

// CommentService 는 댓글 CRUD 와 좋아요 토글을 담당한다.
// 좋아요는 comment_likes 조인 테이블이 기준이고 Likes 카운터는 파생 값이다.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

type CommentDTO struct {
	ID           uint      `json:"id"`
	PostID       uint      `json:"postId"`
	UserID       uint      `json:"userId"`
	ParentID     *uint     `json:"parentId,omitempty"`
	Content      string    `json:"content"`
	Likes        uint      `json:"likes"`
	LikedUserIDs []uint    `json:"likedUserIds"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *CommentService) toDTO(c models.Comment) (CommentDTO, error) {
	liked, err := s.likedUserIDs(c.ID)
	if err != nil {
		return CommentDTO{}, err
	}
	return CommentDTO{
		ID: c.ID, PostID: c.PostID, UserID: c.UserID, ParentID: c.ParentID,
		Content: c.Content, Likes: c.Likes, LikedUserIDs: liked, CreatedAt: c.CreatedAt,
	}, nil
}

// likedUserIDs 는 항상 nil 이 아닌 슬라이스를 돌려준다. 응답에서 빈 배열로 직렬화된다.
func (s *CommentService) likedUserIDs(commentID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := s.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).
		Order("user_id asc").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *CommentService) toDTOs(comments []models.Comment) ([]CommentDTO, error) {
	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		dto, err := s.toDTO(c)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// List 는 postID 가 0 이면 전체, 아니면 해당 글의 댓글만 돌려준다.
func (s *CommentService) List(postID uint) ([]CommentDTO, error) {
	q := s.db.Order("id asc")
	if postID > 0 {
		q = q.Where("post_id = ?", postID)
	}
	var comments []models.Comment
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return s.toDTOs(comments)
}

func (s *CommentService) Search(keyword string) ([]CommentDTO, error) {
	var comments []models.Comment
	if err := s.db.Where("content LIKE ?", "%"+keyword+"%").Order("id asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return s.toDTOs(comments)
}

func (s *CommentService) GetOne(id uint) (*CommentDTO, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return nil, err
	}
	dto, err := s.toDTO(comment)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

type CommentInput struct {
	PostID   uint   `json:"postId"`
	ParentID *uint  `json:"parentId"`
	Content  string `json:"content"`
}

// Create 는 대댓글의 부모가 같은 글의 댓글인지 검증한다.
func (s *CommentService) Create(in CommentInput, userID uint) (*CommentDTO, error) {
	var post models.Post
	if err := s.db.First(&post, in.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, in.PostID)
		}
		return nil, err
	}
	if in.ParentID != nil {
		var parent models.Comment
		if err := s.db.First(&parent, *in.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: parent comment %d", ErrBadRequest, *in.ParentID)
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", ErrBadRequest)
		}
	}
	comment := models.Comment{PostID: in.PostID, ParentID: in.ParentID, Content: in.Content, UserID: userID}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	dto, err := s.toDTO(comment)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

type CommentUpdate struct {
	Content *string `json:"content"`
}

func (s *CommentService) Update(id uint, upd CommentUpdate, actingUserID uint) (*CommentDTO, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return nil, err
	}
	if comment.UserID != actingUserID {
		return nil, fmt.Errorf("%w: not the comment owner", ErrForbidden)
	}
	if upd.Content != nil {
		comment.Content = *upd.Content
	}
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	dto, err := s.toDTO(comment)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *CommentService) Remove(id uint, actingUserID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return err
	}
	if comment.UserID != actingUserID {
		return fmt.Errorf("%w: not the comment owner", ErrForbidden)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}

// ToggleLike 는 멱등 토글이다. 같은 사용자가 두 번 누르면 원상태로 돌아온다.
// 카운터는 0 아래로 내려가지 않는다.
func (s *CommentService) ToggleLike(commentID, userID uint) (*CommentDTO, error) {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var like models.CommentLike
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&like).Error
		switch {
		case err == nil:
			if err := tx.Delete(&models.CommentLike{}, like.ID).Error; err != nil {
				return err
			}
			return tx.Model(&models.Comment{}).Where("id = ? AND likes > 0", commentID).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.CommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Comment{}).Where("id = ?", commentID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return s.GetOne(commentID)
}
