package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/sshamanello/reelflow/infrastructure/configuration"
	httpHandler "github.com/sshamanello/reelflow/interfaces/http"
	"github.com/sshamanello/reelflow/interfaces/middleware"
)

func InitiateRouter(
	oauthHandler httpHandler.IOAuthHandler,
	tiktokHandler httpHandler.ITikTokHandler,
	youtubeHandler httpHandler.IYouTubeHandler,
	libraryHandler httpHandler.ILibraryHandler,
	cfg *configuration.Config,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{configuration.DefaultOrigin}
	}
	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return lo.Contains(origins, "*") || lo.Contains(origins, origin)
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := router.Group("api")
	api.Use(middleware.Session(cfg.Session.CookieName))

	api.POST("/oauth/exchange", oauthHandler.Exchange)
	api.POST("/oauth/logout", oauthHandler.Logout)
	api.GET("/me", oauthHandler.Me)

	tiktok := api.Group("/tiktok")
	{
		// legacy aliases kept for older frontend builds
		tiktok.POST("/exchange", oauthHandler.Exchange)
		tiktok.GET("/me", oauthHandler.Me)

		tiktok.POST("/upload", tiktokHandler.Upload)
		tiktok.POST("/publish", tiktokHandler.Publish)
		tiktok.GET("/creator_info", tiktokHandler.CreatorInfo)
	}

	api.POST("/youtube/upload", youtubeHandler.Upload)

	api.GET("/projects", libraryHandler.Projects)
	api.POST("/projects", libraryHandler.CreateProject)
	api.GET("/videos", libraryHandler.Videos)
	api.POST("/videos", libraryHandler.SaveVideo)
	api.DELETE("/videos/:id", libraryHandler.DeleteVideo)
	api.GET("/stats", libraryHandler.Stats)

	return router
}
