package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tidal-service/internal/middleware"
)

func (h *Handler) HandleHealth(c *gin.Context) {
	catalog, err := middleware.GetCatalog(c)
	if err != nil {
		h.log(c).Error("Health check failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	var user *string
	if u := catalog.User(); u != nil {
		name := u.Name()
		user = &name
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		LoggedIn: catalog.CheckLogin(c.Request.Context()),
		User:     user,
	})
}
