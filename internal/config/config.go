package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultRefreshTokenTTL 은 REFRESH_TOKEN_TTL 이 없거나 못 읽을 때 쓰는 값이다.
const DefaultRefreshTokenTTL = 7 * 24 * time.Hour

type Config struct {
	Port                  string
	DatabaseDSN           string
	JWTSecret             string
	Env                   string
	AccessTokenTTLMinutes int
	RefreshTokenTTL       time.Duration
	UploadDir             string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load 는 .env(있으면)와 환경 변수에서 설정을 읽는다.
func Load() Config {
	_ = godotenv.Load()

	accessTTL, err := strconv.Atoi(getenv("ACCESS_TOKEN_TTL_MINUTES", "15"))
	if err != nil || accessTTL <= 0 {
		accessTTL = 15
	}
	return Config{
		Port:                  getenv("APP_PORT", "8080"),
		DatabaseDSN:           getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=community port=5432 sslmode=disable TimeZone=UTC"),
		JWTSecret:             getenv("JWT_SECRET", "dev-secret-change-me"),
		Env:                   getenv("APP_ENV", "dev"),
		AccessTokenTTLMinutes: accessTTL,
		RefreshTokenTTL:       ParseTTL(os.Getenv("REFRESH_TOKEN_TTL"), DefaultRefreshTokenTTL),
		UploadDir:             getenv("UPLOAD_DIR", "uploads"),
	}
}

// ParseTTL 은 "7d", "24h", "15m" 꼴의 수명 문자열을 해석한다.
// 비어 있거나 해석할 수 없으면 def 를 돌려준다.
func ParseTTL(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return def
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return def
	}
	switch unit {
	case 'd':
		return time.Duration(n) * 24 * time.Hour
	case 'h':
		return time.Duration(n) * time.Hour
	case 'm':
		return time.Duration(n) * time.Minute
	default:
		return def
	}
}

// Validate 는 기동 전에 치명적인 설정 오류를 걸러낸다.
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is empty")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: database dsn is empty")
	}
	if cfg.Env != "dev" && cfg.JWTSecret == "dev-secret-change-me" {
		return errors.New("config: default jwt secret outside dev")
	}
	return nil
}
