package handlers

import (
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tidal-service/internal/middleware"
)

// NewRouter builds the gin engine with middleware and all routes. CORS
// allows every origin; the service is meant for a private network.
func NewRouter(provider middleware.Acquirer, logger *log.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader},
	}))
	r.Use(middleware.Session(provider))

	New(logger).Register(r)
	return r
}
