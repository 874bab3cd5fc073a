package routes

import (
	"time"

	"wanderhub/controllers"
	"wanderhub/middlewares"
	ws "wanderhub/websocket"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Content       *controllers.ContentController
	Engagement    *controllers.EngagementController
	Notifications *controllers.NotificationController
	Search        *controllers.SearchController
	Saves         *controllers.SaveController
	Profile       *controllers.ProfileController

	InboxStream   *ws.InboxStream
	CommentStream *ws.CommentStream
}

// Setup mounts all HTTP routes. jwtSecret guards the authenticated group;
// rdb backs the write rate limiter and may be nil.
func Setup(router *gin.Engine, ctrl Controllers, jwtSecret string, rdb *redis.Client) {
	// Public routes
	router.POST("/auth/signup", ctrl.Auth.Signup)
	router.POST("/auth/login", ctrl.Auth.Login)

	router.GET("/stories", ctrl.Content.ListStories)
	router.GET("/stories/:id", ctrl.Content.GetStory)
	router.GET("/routes", ctrl.Content.ListRoutes)
	router.GET("/routes/trending", ctrl.Content.TrendingRoutes)
	router.GET("/routes/:id", ctrl.Content.GetRoute)
	router.GET("/posts", ctrl.Content.ListPosts)
	router.GET("/posts/:id", ctrl.Content.GetPost)

	router.GET("/search", ctrl.Search.Search)
	router.GET("/users/:id", ctrl.Profile.GetUser)
	router.GET("/:contentType/:id/comments", ctrl.Engagement.ListComments)
	router.GET("/:contentType/:id/likes", ctrl.Engagement.GetLikes)

	// Live streams; the inbox stream authenticates via token query param.
	router.GET("/ws/notifications", ctrl.InboxStream.Handler)
	router.GET("/ws/:contentType/:id/comments", ctrl.CommentStream.Handler)

	// Authenticated routes
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		writes := auth.Group("/")
		writes.Use(middlewares.RateLimit(rdb, "engagement", 30, time.Minute))
		{
			writes.POST("/:contentType/:id/like", ctrl.Engagement.ToggleLike)
			writes.POST("/:contentType/:id/comments", ctrl.Engagement.AddComment)
		}
		auth.DELETE("/comments/:id", ctrl.Engagement.DeleteComment)

		auth.POST("/stories", ctrl.Content.CreateStory)
		auth.DELETE("/stories/:id", ctrl.Content.DeleteStory)
		auth.POST("/routes", ctrl.Content.CreateRoute)
		auth.DELETE("/routes/:id", ctrl.Content.DeleteRoute)
		auth.POST("/posts", ctrl.Content.CreatePost)
		auth.DELETE("/posts/:id", ctrl.Content.DeletePost)
		auth.POST("/posts/:id/share", ctrl.Content.SharePost)

		auth.GET("/notifications", ctrl.Notifications.Inbox)
		auth.GET("/notifications/unread", ctrl.Notifications.UnreadCount)
		auth.PUT("/notifications/read", ctrl.Notifications.MarkAllRead)
		auth.PUT("/notifications/:id/read", ctrl.Notifications.MarkRead)

		auth.POST("/routes/:id/save", ctrl.Saves.ToggleSave)
		auth.GET("/routes/:id/saved", ctrl.Saves.GetSaved)
		auth.GET("/saved", ctrl.Saves.ListSaved)

		auth.GET("/profile", ctrl.Profile.Me)
		auth.PUT("/profile", ctrl.Profile.UpdateProfile)
		auth.POST("/profile/username", ctrl.Profile.ClaimUsername)
		auth.POST("/users/:id/follow", ctrl.Profile.Follow)
		auth.DELETE("/users/:id/follow", ctrl.Profile.Unfollow)
	}
}
