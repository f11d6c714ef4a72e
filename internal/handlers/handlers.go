// Package handlers implements the HTTP endpoints of the TIDAL service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"tidal-service/internal/middleware"
)

type Handler struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.HandleHealth)
	r.POST("/search", h.HandleSearch)
	r.POST("/create-playlist", h.HandleCreatePlaylist)
	r.POST("/add-tracks-to-playlist", h.HandleAddTracksToPlaylist)
	r.POST("/find-best-match", h.HandleFindBestMatch)
}

func (h *Handler) log(c *gin.Context) *log.Logger {
	return middleware.GetLogger(c, h.logger)
}

// bindJSON decodes the body into req. Missing required fields are answered
// with missingMsg, anything else with the decoder's message.
func bindJSON(c *gin.Context, req any, missingMsg string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingMsg})
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
	}
	return false
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.log(c).Error(op+" error", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
