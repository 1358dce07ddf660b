package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storemirror/internal/api/handlers"
	"storemirror/internal/api/middleware"
	"storemirror/internal/catalog"
	"storemirror/internal/config"
	"storemirror/internal/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, repo *catalog.Repository, syncer *catalog.Syncer) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(repo, logger)
	syncHandler := handlers.NewSyncHandler(syncer, cfg.SyncLimit, logger)
	searchHandler := handlers.NewSearchHandler(syncer, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/sync", syncHandler.Sync)

		v1.GET("/categories", catalogHandler.ListCategories)

		products := v1.Group("/products")
		{
			products.GET("", catalogHandler.ListProducts)
			products.GET("/:id", catalogHandler.GetProduct)
		}

		v1.GET("/search", searchHandler.Search)
		v1.GET("/recommendations/:id", searchHandler.Recommendations)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		// Sync requests fan out into many rate-limited upstream calls.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}
