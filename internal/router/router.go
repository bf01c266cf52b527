// Package router wires handlers and middleware into the HTTP API.
package router

import (
	"net/http"

	"sleepclash/backend/internal/auth"
	"sleepclash/backend/internal/config"
	"sleepclash/backend/internal/handler"
	"sleepclash/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sleepclash/backend/docs" // registers the swagger spec
)

// New builds the gin engine serving the whole API.
func New(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	protected := []gin.HandlerFunc{auth.AuthMiddleware(), auth.ProfileMiddleware()}

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(protected...)
		{
			userRoutes.GET("", handler.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PATCH("/me", handler.UpdateMe)
			userRoutes.DELETE("/me", handler.DeleteMe)
			userRoutes.GET("/me/friends", handler.GetFriends)
			userRoutes.GET("/me/relations", handler.GetRelations)
			userRoutes.GET("/:id", handler.GetUserByID)

			// Friendship routes
			userRoutes.POST("/:id/request", handler.SendRequest)
			userRoutes.POST("/:id/accept", handler.AcceptRequest)
			userRoutes.POST("/:id/decline", handler.DeclineRequest)
			userRoutes.POST("/:id/remove", handler.RemoveRelation)
		}

		// Clan routes (protected)
		clanRoutes := apiV1.Group("/clans")
		clanRoutes.Use(protected...)
		{
			clanRoutes.POST("", handler.CreateClan)
			clanRoutes.POST("/join", handler.JoinClan)
			clanRoutes.POST("/leave", handler.LeaveClan) // No ID needed, user leaves their own clan
			clanRoutes.GET("/me", handler.GetMyClan)
			clanRoutes.GET("/me/events", handler.ClanEvents)
		}

		// Sleep routes (protected)
		sleepRoutes := apiV1.Group("/sleep")
		sleepRoutes.Use(protected...)
		{
			sleepRoutes.PUT("", handler.UpsertSleepRecord)
			sleepRoutes.GET("", handler.ListSleepRecords)
		}

		// Leaderboards (protected, rate limited per user)
		apiV1.GET("/leaderboards",
			auth.AuthMiddleware(),
			auth.ProfileMiddleware(),
			middleware.RateLimiter(middleware.RateLimitConfig{
				RequestsPerSecond: cfg.LeaderboardRateLimit,
				Burst:             cfg.LeaderboardRateBurst,
			}),
			handler.GetLeaderboards,
		)
	}

	return router
}
