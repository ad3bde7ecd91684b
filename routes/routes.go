package routes

import (
	"net/http"

	"blogapi/controllers"
	"blogapi/handlers"
	"blogapi/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Posts     *controllers.PostController
	Comments  *controllers.CommentController
	Taxonomy  *controllers.TaxonomyController
	Stats     *controllers.StatsController
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(r *gin.Engine, tokens middleware.TokenValidator, users middleware.UserLoader, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthRequired(tokens)
	staffRequired := middleware.StaffRequired(users)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", authRequired, h.Auth.Me)
			auth.POST("/password-reset", h.Auth.RequestPasswordReset)
			auth.POST("/password-reset/confirm", h.Auth.ConfirmPasswordReset)
		}

		api.GET("/ws", middleware.OptionalAuth(tokens), h.WebSocket.HandleWebSocket)

		usersGroup := api.Group("/users")
		{
			usersGroup.GET("", authRequired, h.Users.GetUsers)
			usersGroup.GET("/profile", authRequired, h.Auth.Me)
			usersGroup.PUT("/profile", authRequired, h.Users.UpdateProfile)
			usersGroup.PATCH("/profile", authRequired, h.Users.UpdateProfile)
			usersGroup.GET("/stats", authRequired, h.Users.GetStats)
			usersGroup.GET("/:id/posts", h.Users.GetUserPosts)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", h.Posts.ListPosts)
			posts.GET("/search", h.Posts.SearchPosts)
			posts.GET("/featured", h.Posts.GetFeatured)
			posts.GET("/popular", h.Posts.GetPopular)
			posts.GET("/recent", h.Posts.GetRecent)
			posts.GET("/mine", authRequired, h.Posts.GetMine)
			posts.GET("/:slug", h.Posts.GetPost)
			posts.POST("", authRequired, h.Posts.CreatePost)
			posts.PUT("/:slug", authRequired, h.Posts.UpdatePost)
			posts.PATCH("/:slug", authRequired, h.Posts.UpdatePost)
			posts.DELETE("/:slug", authRequired, h.Posts.DeletePost)
			posts.POST("/:slug/publish", authRequired, h.Posts.PublishPost)
			posts.GET("/:slug/comments", h.Comments.GetPostComments)
			posts.POST("/:slug/comments", authRequired, h.Comments.CreateComment)
		}

		api.GET("/comments/recent", h.Comments.GetRecent)

		categories := api.Group("/categories")
		{
			categories.GET("", h.Taxonomy.GetCategories)
			categories.POST("", authRequired, staffRequired, h.Taxonomy.CreateCategory)
			categories.GET("/:slug/posts", h.Taxonomy.GetCategoryPosts)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", h.Taxonomy.GetTags)
			tags.POST("", authRequired, staffRequired, h.Taxonomy.CreateTag)
			tags.GET("/:slug/posts", h.Taxonomy.GetTagPosts)
		}

		stats := api.Group("/stats")
		{
			stats.GET("", h.Stats.GetBlogStats)
			stats.GET("/categories", h.Stats.GetCategoryStats)
		}

		admin := api.Group("/admin")
		admin.Use(authRequired, staffRequired)
		{
			admin.POST("/comments/approve", h.Comments.ApproveComments)
			admin.POST("/comments/unapprove", h.Comments.UnapproveComments)
			admin.POST("/comments/:id/approve", h.Comments.ApproveComment)
			admin.POST("/posts/:id/reset-views", h.Posts.ResetViews)
		}
	}
}
