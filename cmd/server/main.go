package main

import (
	"github.com/6ReactTeamproject/nest-sub000/internal/config"
	"github.com/6ReactTeamproject/nest-sub000/internal/db"
	clog "github.com/6ReactTeamproject/nest-sub000/internal/log"
	"github.com/6ReactTeamproject/nest-sub000/internal/server"
	"github.com/6ReactTeamproject/nest-sub000/internal/ws"

	"github.com/rs/zerolog/log"
)

func main() {
	// 설정 로드 → 로그 초기화 → DB 연결/마이그레이션 → Gin 기동.
	cfg := config.Load()
	clog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validate")
	}

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	hub := ws.NewHub()
	r := server.SetupRouter(cfg, gdb, hub)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server start")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
