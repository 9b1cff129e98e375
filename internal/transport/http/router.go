package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"promptcraft/internal/middleware"
	"promptcraft/internal/transport/ws"
)

type RouterDeps struct {
	Auth         *AuthHandler
	Gamification *GamificationHandler
	Content      *ContentHandler
	Admin        *AdminHandler
	WS           *ws.Handler
	Limiter      *middleware.RateLimiter
	Validator    middleware.AccessValidator
	AdminAPIKey  string
	CORSOrigins  []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.DefaultConfig()
	if len(deps.CORSOrigins) == 1 && deps.CORSOrigins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = deps.CORSOrigins
		config.AllowCredentials = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Admin-Key"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", deps.WS.Handle)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", deps.Limiter.Limit("register", 5, time.Minute), deps.Auth.Register)
			auth.POST("/login", deps.Limiter.Limit("login", 10, time.Minute), deps.Auth.Login)
			auth.POST("/refresh", deps.Auth.Refresh)
			auth.POST("/logout", deps.Auth.Logout)
		}

		user := api.Group("")
		user.Use(middleware.Auth(deps.Validator))
		{
			user.GET("/user/profile", deps.Auth.Profile)

			gam := user.Group("/gamification")
			{
				gam.GET("/stats", deps.Gamification.Stats)
				gam.GET("/xp/history", deps.Gamification.History)
				gam.GET("/badges", deps.Gamification.Badges)
				gam.GET("/streak", deps.Gamification.Streak)
				gam.POST("/streak/freeze", deps.Gamification.UseFreeze)
				gam.POST("/streak/freeze/purchase", deps.Gamification.PurchaseFreeze)
				gam.PATCH("/settings/daily-goal", deps.Gamification.SetDailyGoal)
				gam.GET("/leaderboard", deps.Gamification.Leaderboard)
				gam.GET("/challenges/daily", deps.Content.TodayChallenges)
				gam.POST("/challenges/:id/progress", deps.Content.ChallengeProgress)
			}

			lessons := user.Group("/lessons")
			{
				lessons.GET("", deps.Content.ListLessons)
				lessons.GET("/:slug", deps.Content.GetLesson)
				lessons.POST("/:slug/complete", deps.Content.CompleteLesson)
			}

			puzzles := user.Group("/puzzles")
			{
				puzzles.GET("", deps.Content.ListPuzzles)
				puzzles.GET("/:slug", deps.Content.GetPuzzle)
				puzzles.POST("/:slug/submit", deps.Limiter.Limit("puzzle_submit", 30, time.Minute), deps.Content.SubmitPuzzle)
			}

			user.POST("/exercises/submit", deps.Limiter.Limit("exercise_submit", 30, time.Minute), deps.Content.SubmitExercise)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminKey(deps.AdminAPIKey))
		{
			admin.POST("/leaderboard/:window/rebuild", deps.Admin.RebuildLeaderboard)
			admin.POST("/reconcile", deps.Admin.Reconcile)
		}
	}

	return r
}
