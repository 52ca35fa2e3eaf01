package main

import (
	"log"
	"net/http"

	"miniblog/internal/config"
	"miniblog/internal/db"
	"miniblog/internal/handlers"
	"miniblog/internal/logger"
	"miniblog/internal/middleware"
	"miniblog/internal/router"
	"miniblog/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logger := logger.New(cfg.LogLevel)

	if err := db.Init(cfg.DatabaseURL); err != nil {
		logger.Fatal("database init failed", "error", err)
	}
	logger.Info("database connection established")

	handlers.InitGitHubOAuth(cfg)

	r := gin.Default()

	// Sessions live server-side; the cookie only carries the signed
	// session id. 15 minute inactivity window from the last write.
	store := memstore.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   session.MaxAgeSeconds,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	})
	r.Use(sessions.Sessions(session.CookieName, store))

	r.HTMLRender = router.LoadTemplates(cfg.TemplatesDir)
	r.Static("/static", cfg.StaticDir)

	r.Use(middleware.CSPNonce())
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, logger)

	logger.Info("miniblog server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
