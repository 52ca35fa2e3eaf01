package router

import (
	"miniblog/internal/handlers"
	"miniblog/internal/logger"
	"miniblog/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint with its guard chain. Guards
// run left to right: authentication, then CSRF on mutations; the
// owner-or-admin check lives inside the delete handler since it needs
// the fetched post first.
func RegisterRoutes(r *gin.Engine, log *logger.Logger) {
	authHandler := handlers.NewAuthHandler(log)
	postHandler := handlers.NewPostHandler(log)

	// Public Routes
	r.GET("/", postHandler.Home)

	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/logout", authHandler.Logout)

	// GitHub OAuth
	r.GET("/auth/github", authHandler.GitHubLogin)
	r.GET("/auth/github/login/callback", authHandler.GitHubCallback)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/newpost", postHandler.ShowCreate)
		authorized.POST("/newpost", middleware.CSRFRequired(), postHandler.Create)
		authorized.DELETE("/newpost/:id", middleware.CSRFRequired(), postHandler.Delete)
		authorized.POST("/comment/:postId", middleware.CSRFRequired(), postHandler.CreateComment)
	}
}
