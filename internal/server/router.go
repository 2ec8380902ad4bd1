package server

import (
	"net/http"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/auth"
	"github.com/6ReactTeamproject/nest-sub000/internal/config"
	"github.com/6ReactTeamproject/nest-sub000/internal/metrics"
	"github.com/6ReactTeamproject/nest-sub000/internal/mw"
	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/6ReactTeamproject/nest-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter 는 미들웨어, REST API, websocket 엔드포인트를 한 곳에서 묶는다.
// 읽기 경로는 공개이고 쓰기 경로는 Bearer 토큰을 요구한다(쪽지는 전부 인증).
func SetupRouter(cfg config.Config, gdb *gorm.DB, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userSvc := service.NewUserService(gdb, cfg)
	authH := NewAuthHandler(userSvc)
	userH := NewUserHandler(userSvc)
	postH := NewPostHandler(service.NewPostService(gdb))
	commentH := NewCommentHandler(service.NewCommentService(gdb))
	dmH := NewDMHandler(service.NewDMService(gdb))
	memberH := NewMemberHandler(service.NewMemberService(gdb))
	semesterH := NewSemesterHandler(service.NewSemesterService(gdb))
	uploadH := NewUploadHandler(cfg.UploadDir)

	authed := auth.AuthMiddleware(cfg, gdb)

	ag := r.Group("/auth")
	{
		ag.POST("/register", authH.Register)
		ag.POST("/login", authH.Login)
		ag.POST("/refresh", authH.Refresh)
		ag.POST("/logout", authH.Logout)
		ag.GET("/check-id", authH.CheckID)
	}

	pg := r.Group("/posts")
	{
		pg.GET("/all", postH.List)
		pg.GET("/search", postH.Search)
		pg.GET("/:id", postH.GetOne)
		pg.POST("", authed, postH.Create)
		pg.PATCH("/:id", authed, postH.Update)
		pg.DELETE("/:id", authed, postH.Remove)
	}

	cg := r.Group("/comments")
	{
		cg.GET("/all", commentH.List)
		cg.GET("/search", commentH.Search)
		cg.GET("/:id", commentH.GetOne)
		cg.POST("", authed, commentH.Create)
		cg.PATCH("/:id", authed, commentH.Update)
		cg.DELETE("/:id", authed, commentH.Remove)
		cg.POST("/:id/like", authed, commentH.ToggleLike)
	}

	// 쪽지는 목록 조회까지 본인 것만 보이므로 전부 인증이 필요하다.
	mg := r.Group("/messages", authed)
	{
		mg.GET("/all", dmH.List)
		mg.GET("/:id", dmH.GetOne)
		mg.POST("", dmH.Create)
		mg.PATCH("/:id", dmH.Update)
		mg.DELETE("/:id", dmH.Remove)
	}

	bg := r.Group("/members")
	{
		bg.GET("/all", memberH.List)
		bg.GET("/:id", memberH.GetOne)
		bg.POST("", authed, memberH.Create)
		bg.PATCH("/:id", authed, memberH.Update)
		bg.DELETE("/:id", authed, memberH.Remove)
	}

	sg := r.Group("/semester")
	{
		sg.GET("/all", semesterH.List)
		sg.GET("/:id", semesterH.GetOne)
		sg.POST("", authed, semesterH.Create)
		sg.PATCH("/:id", authed, semesterH.Update)
		sg.DELETE("/:id", authed, semesterH.Remove)
	}

	ug := r.Group("/user")
	{
		ug.GET("/all", userH.List)
		ug.GET("/:id", userH.GetOne)
		ug.PATCH("/:id", authed, userH.Update)
	}

	r.POST("/upload/image", authed, uploadH.Image)
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/ws", ws.Serve(hub, gdb, cfg))

	return r
}
