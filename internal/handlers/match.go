package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tidal-service/internal/match"
	"tidal-service/internal/middleware"
)

// HandleFindBestMatch searches the catalog for a track from another service
// and scores the top hit.
func (h *Handler) HandleFindBestMatch(c *gin.Context) {
	var req FindBestMatchRequest
	if !bindJSON(c, &req, "spotify_track is required") {
		return
	}
	if req.SpotifyTrack.empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spotify_track is required"})
		return
	}

	name := req.SpotifyTrack.Name
	artistNames := req.SpotifyTrack.ArtistNames()
	query := strings.TrimSpace(name + " " + artistNames)

	catalog, err := middleware.GetCatalog(c)
	if err != nil {
		h.internalError(c, "Find best match", err)
		return
	}

	tracks, err := catalog.Search(c.Request.Context(), query)
	if err != nil {
		h.internalError(c, "Find best match", err)
		return
	}

	candidates := make([]match.Candidate, len(tracks))
	for i, t := range tracks {
		candidates[i] = match.Candidate{Title: t.Title}
		if t.Artist != nil {
			candidates[i].Artist = t.Artist.Name
		}
	}

	result := match.Best(name, artistNames, candidates)

	resp := MatchResponse{Confidence: result.Confidence, Status: string(result.Status)}
	if result.Index >= 0 {
		track := NewTrackResponse(tracks[result.Index])
		resp.Track = &track
	}

	h.log(c).Debug("Resolved match", "query", query, "confidence", resp.Confidence, "status", resp.Status)
	c.JSON(http.StatusOK, resp)
}
