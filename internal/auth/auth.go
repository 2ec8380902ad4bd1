package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/config"
	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrRefreshTokenExpired 는 저장된 refresh token 이 수명을 넘긴 경우를 뜻한다.
// 검증 과정에서 만료 행은 즉시 삭제되므로 재시도는 not found 로 떨어진다.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

type Claims struct {
	UserID  uint   `json:"userId"`
	LoginID string `json:"loginId"`
	jwt.RegisteredClaims
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func GenerateAccessToken(userID uint, loginID, secret string, ttlMinutes int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		LoginID: loginID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseAccessToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SaveRefreshToken 은 해당 사용자의 기존 토큰을 지우고 새 토큰을 저장한다.
// 사용자당 활성 refresh token 은 항상 하나다.
func SaveRefreshToken(db *gorm.DB, userID uint, token string, expiresAt time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		rt := models.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
		return tx.Create(&rt).Error
	})
}

// ValidateRefreshToken 은 토큰 행을 찾는다. 만료된 행은 지우고 만료 에러를 돌려준다.
func ValidateRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := db.Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	if time.Now().After(rt.ExpiresAt) {
		_ = db.Delete(&models.RefreshToken{}, rt.ID).Error
		return nil, ErrRefreshTokenExpired
	}
	return &rt, nil
}

// DeleteRefreshToken 은 로그아웃 용. 행이 없어도 에러가 아니다.
func DeleteRefreshToken(db *gorm.DB, token string) error {
	return db.Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

// BearerToken 은 Authorization 헤더에서 토큰만 꺼낸다. 없으면 빈 문자열.
func BearerToken(authz string) string {
	if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}

// AuthMiddleware 는 쓰기 API 에 붙는 Bearer 토큰 검증 미들웨어.
func AuthMiddleware(cfg config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c, "missing bearer token")
			return
		}
		claims, err := ParseAccessToken(token, cfg.JWTSecret)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}
		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			unauthorized(c, "user not found")
			return
		}
		c.Set("userID", user.ID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"statusCode": http.StatusUnauthorized,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"path":       c.Request.URL.Path,
		"message":    msg,
	})
}

func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok2 := v.(uint); ok2 {
			return id
		}
	}
	return 0
}
