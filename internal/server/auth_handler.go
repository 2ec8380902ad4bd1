package server

import (
	"net/http"
	"strings"

	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler 는 /auth 아래의 계정/토큰 엔드포인트를 담당한다.
type AuthHandler struct {
	userSvc *service.UserService
}

func NewAuthHandler(userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

// Register 는 loginId/password/name 을 받아 계정과 토큰 쌍을 만든다.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		LoginID  string `json:"loginId"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	req.LoginID = strings.TrimSpace(req.LoginID)
	req.Name = strings.TrimSpace(req.Name)
	if req.LoginID == "" || req.Password == "" || req.Name == "" {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.LoginID) < 2 || len(req.LoginID) > 64 {
		fail(c, http.StatusBadRequest, "invalid login id")
		return
	}
	if len(req.Password) < 4 || len(req.Password) > 128 {
		fail(c, http.StatusBadRequest, "invalid password")
		return
	}
	result, err := h.userSvc.Register(req.LoginID, req.Password, req.Name)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		LoginID  string `json:"loginId"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	req.LoginID = strings.TrimSpace(req.LoginID)
	if req.LoginID == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.userSvc.Login(req.LoginID, req.Password)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Refresh 는 access token 만 새로 발급한다. refresh token 은 로그인 때만 회전한다.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.userSvc.Refresh(req.RefreshToken)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Logout 은 멱등이다. 토큰이 이미 없어도 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.userSvc.Logout(req.RefreshToken); err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// CheckID 는 loginId 사용 가능 여부를 알려준다.
func (h *AuthHandler) CheckID(c *gin.Context) {
	loginID := strings.TrimSpace(c.Query("loginId"))
	if loginID == "" {
		fail(c, http.StatusBadRequest, "loginId is required")
		return
	}
	available, err := h.userSvc.CheckLoginID(loginID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loginId": loginID, "available": available})
}
