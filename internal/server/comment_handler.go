package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/6ReactTeamproject/nest-sub000/internal/auth"
	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// CommentHandler 는 댓글 엔드포인트를 담당한다.
type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// List 는 postId 쿼리가 있으면 해당 글의 댓글만 돌려준다.
func (h *CommentHandler) List(c *gin.Context) {
	var postID uint
	if v := c.Query("postId"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(c, http.StatusBadRequest, "invalid postId")
			return
		}
		postID = uint(n)
	}
	comments, err := h.svc.List(postID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		fail(c, http.StatusBadRequest, "keyword is required")
		return
	}
	comments, err := h.svc.Search(keyword)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) GetOne(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	comment, err := h.svc.GetOne(id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req service.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.PostID == 0 || strings.TrimSpace(req.Content) == "" {
		fail(c, http.StatusBadRequest, "postId and content are required")
		return
	}
	comment, err := h.svc.Create(req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	var req service.CommentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	comment, err := h.svc.Update(id, req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Remove(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	if err := h.svc.Remove(id, auth.GetUserID(c)); err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ToggleLike 는 멱등 좋아요 토글이다. 갱신된 댓글을 돌려준다.
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	comment, err := h.svc.ToggleLike(id, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}
