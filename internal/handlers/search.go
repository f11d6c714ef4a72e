package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tidal-service/internal/middleware"
)

// HandleSearch searches catalog tracks. limit caps the returned items after
// the catalog has answered.
func (h *Handler) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if !bindJSON(c, &req, "Query is required") {
		return
	}
	limit := req.limit()
	if limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must not be negative"})
		return
	}

	catalog, err := middleware.GetCatalog(c)
	if err != nil {
		h.internalError(c, "Search", err)
		return
	}

	tracks, err := catalog.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.internalError(c, "Search", err)
		return
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	items := make([]TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, NewTrackResponse(t))
	}

	c.JSON(http.StatusOK, SearchResponse{
		Tracks: TrackPage{Items: items, TotalNumberOfItems: len(items)},
	})
}
