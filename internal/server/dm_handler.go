package server

import (
	"net/http"
	"strings"

	"github.com/6ReactTeamproject/nest-sub000/internal/auth"
	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// DMHandler 는 쪽지 엔드포인트를 담당한다. 모든 경로가 인증을 요구한다.
type DMHandler struct {
	svc *service.DMService
}

func NewDMHandler(svc *service.DMService) *DMHandler {
	return &DMHandler{svc: svc}
}

func (h *DMHandler) List(c *gin.Context) {
	msgs, err := h.svc.List(auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *DMHandler) GetOne(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	msg, err := h.svc.GetOne(id, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *DMHandler) Create(c *gin.Context) {
	var req service.DirectMessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ReceiverID == 0 || strings.TrimSpace(req.Title) == "" || req.Content == "" {
		fail(c, http.StatusBadRequest, "receiverId, title and content are required")
		return
	}
	msg, err := h.svc.Create(req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Update 는 읽음 표시에만 쓰인다.
func (h *DMHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	var req service.DirectMessageUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	msg, err := h.svc.Update(id, req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *DMHandler) Remove(c *gin.Context) {
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
