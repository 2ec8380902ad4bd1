package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// fail 은 모든 실패 응답을 공용 봉투 {statusCode, timestamp, path, message} 로 내보낸다.
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"path":       c.Request.URL.Path,
		"message":    message,
	})
}

// failFromErr 는 service 오류 분류를 HTTP 상태 코드로 옮긴다.
// 분류 밖의 오류는 내부를 드러내지 않는 500 으로 떨어진다.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		fail(c, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}
