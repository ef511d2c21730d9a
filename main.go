package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/inkpost/blog-backend/auth"
	"github.com/inkpost/blog-backend/config"
	"github.com/inkpost/blog-backend/database"
	"github.com/inkpost/blog-backend/handlers"
	"github.com/inkpost/blog-backend/middleware"
	"github.com/inkpost/blog-backend/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := newLogger(cfg)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)
	log.Info("Database connected")

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to init token service: %v", err)
	}

	contentStore := store.NewContentStore(db)
	credStore := store.NewCredentialStore(db, cfg.BcryptCost)

	authHandler := handlers.NewAuth(credStore, tokens, log)
	postsHandler := handlers.NewPosts(contentStore, log)

	router := newRouter(cfg, log, authHandler, postsHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}
	log.Info("Server stopped")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func newRouter(cfg *config.Config, log *logrus.Logger, authHandler *handlers.Auth, postsHandler *handlers.Posts) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		// 5 login attempts per minute per IP
		loginLimiter := middleware.NewRateLimiter(5, time.Minute)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", loginLimiter.Limit(), authHandler.Login)
			authRoutes.GET("/verify", authHandler.Verify)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", postsHandler.List)
			posts.GET("/slug/:slug", postsHandler.GetBySlug)

			admin := posts.Group("")
			admin.Use(authHandler.RequireAuth())
			{
				admin.GET("/admin/all", postsHandler.AdminList)
				admin.POST("", postsHandler.Create)
				admin.PUT("/:id", postsHandler.Update)
				admin.DELETE("/:id", postsHandler.Delete)
			}
		}
	}

	return router
}
