// Package server assembles the HTTP router and its dependencies.
package server

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/familytree-api/internal/clock"
	"github.com/yukikurage/familytree-api/internal/config"
	apierrors "github.com/yukikurage/familytree-api/internal/errors"
	"github.com/yukikurage/familytree-api/internal/handlers"
	"github.com/yukikurage/familytree-api/internal/middleware"
	"github.com/yukikurage/familytree-api/internal/repository"
	"github.com/yukikurage/familytree-api/internal/services"
	"github.com/yukikurage/familytree-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers into a gin engine.
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger, store storage.PhotoStore, clk clock.Clock) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	personRepo := repository.NewPersonRepository(db)
	relRepo := repository.NewRelationshipRepository(db)
	eventRepo := repository.NewEventRepository(db)

	sessions := services.NewSessionManager(sessionRepo, clk, cfg.SessionTTL(), log)
	authService := services.NewAuthService(userRepo, sessions, clk, cfg.MinPasswordLength)
	personService := services.NewPersonService(personRepo, clk)
	relService := services.NewRelationshipService(relRepo, cfg.RelationTypes)
	eventService := services.NewEventService(eventRepo)
	photoService := services.NewPhotoService(userRepo, personRepo, store, cfg.PhotoMaxDimension, cfg.PhotoMaxPixels, log)

	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(authService, photoService, cfg.MaxUploadBytes, log)
	personHandler := handlers.NewPersonHandler(personService, photoService, cfg.MaxUploadBytes, log)
	relHandler := handlers.NewRelationshipHandler(relService, log)
	eventHandler := handlers.NewEventHandler(eventService, log)
	healthHandler := handlers.NewHealthHandler(db, log)

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log))

	// Health check endpoints
	r.GET("/health", healthHandler.Check)

	requireAuth := middleware.RequireAuth(sessions)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.PUT("/me", requireAuth, authHandler.UpdateCurrentUser)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.POST("/profile-photo", userHandler.UploadProfilePhoto)
			users.GET("/profile-photo", userHandler.GetProfilePhoto)
			users.POST("/deactivate", userHandler.Deactivate)
		}

		people := api.Group("/people")
		people.Use(requireAuth)
		{
			people.GET("", personHandler.ListPeople)
			people.POST("", personHandler.CreatePerson)
			people.GET("/:id", personHandler.GetPerson)
			people.PUT("/:id", personHandler.UpdatePerson)
			people.DELETE("/:id", personHandler.DeletePerson)
			people.POST("/:id/photo", personHandler.UploadPhoto)
			people.GET("/:id/photo", personHandler.GetPhoto)
		}

		rels := api.Group("/relationships")
		rels.Use(requireAuth)
		{
			rels.GET("/types", relHandler.ListTypes)
			rels.GET("", relHandler.ListRelationships)
			rels.POST("", relHandler.CreateRelationship)
			rels.GET("/:id", relHandler.GetRelationship)
			rels.PUT("/:id", relHandler.UpdateRelationship)
			rels.DELETE("/:id", relHandler.DeleteRelationship)
		}

		events := api.Group("/events")
		events.Use(requireAuth)
		{
			events.GET("", eventHandler.ListEvents)
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
		}
	}

	r.NoRoute(frontend(cfg.FrontendDir))

	return r
}

// frontend serves the single page app from dir. Unknown paths fall back to
// index.html; unknown API paths always get a JSON 404.
func frontend(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if dir == "" || reqPath == "/api" || strings.HasPrefix(reqPath, "/api/") {
			apierrors.NotFound(c, "")
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+reqPath)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			apierrors.NotFound(c, "")
			return
		}
		c.File(index)
	}
}
