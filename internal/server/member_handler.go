package server

import (
	"net/http"
	"strings"

	"github.com/6ReactTeamproject/nest-sub000/internal/auth"
	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// MemberHandler 는 교류 프로필 엔드포인트를 담당한다.
type MemberHandler struct {
	svc *service.MemberService
}

func NewMemberHandler(svc *service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.svc.List()
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *MemberHandler) GetOne(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	member, err := h.svc.GetOne(id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) Create(c *gin.Context) {
	var req service.MemberInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Nickname) == "" {
		fail(c, http.StatusBadRequest, "nickname is required")
		return
	}
	member, err := h.svc.Create(req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	var req service.MemberUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	member, err := h.svc.Update(id, req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) Remove(c *gin.Context) {
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

// SemesterHandler 는 학기 기록 엔드포인트를 담당한다.
type SemesterHandler struct {
	svc *service.SemesterService
}

func NewSemesterHandler(svc *service.SemesterService) *SemesterHandler {
	return &SemesterHandler{svc: svc}
}

func (h *SemesterHandler) List(c *gin.Context) {
	rows, err := h.svc.List()
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SemesterHandler) GetOne(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	row, err := h.svc.GetOne(id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *SemesterHandler) Create(c *gin.Context) {
	var req service.SemesterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Country) == "" {
		fail(c, http.StatusBadRequest, "country is required")
		return
	}
	row, err := h.svc.Create(req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *SemesterHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	var req service.SemesterUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	row, err := h.svc.Update(id, req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *SemesterHandler) Remove(c *gin.Context) {
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

// UserHandler 는 공개 사용자 조회와 본인 계정 수정 엔드포인트를 담당한다.
type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List()
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetOne(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	user, err := h.svc.GetOne(id)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		return
	}
	var req service.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.svc.Update(id, req, auth.GetUserID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
