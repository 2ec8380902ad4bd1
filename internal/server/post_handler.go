package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/6ReactTeamproject/nest-sub000/internal/auth"
	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// pathID 는 :id 경로 파라미터를 읽는다. 0 이면 실패 응답까지 끝낸 상태다.
func pathID(c *gin.Context) uint {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid id")
		return 0
	}
	return uint(id)
}

// PostHandler 는 게시판 엔드포인트를 담당한다.
type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.svc.List()
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		fail(c, http.StatusBadRequest, "keyword is required")
		return
	}
	posts, err := h.svc.Search(keyword)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetOne 은 상세 조회이며 조회수를 1 올린다.
func (h *PostHandler) GetOne(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	post, err := h.svc.GetOne(id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req service.PostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Content == "" {
		fail(c, http.StatusBadRequest, "title and content are required")
		return
	}
	if len(req.Title) > 200 {
		fail(c, http.StatusBadRequest, "title too long")
		return
	}
	post, err := h.svc.Create(req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	var req service.PostUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	post, err := h.svc.Update(id, req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Remove(c *gin.Context) {
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
