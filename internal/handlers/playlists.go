package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tidal-service/internal/middleware"
	"tidal-service/internal/tidal"
)

// HandleCreatePlaylist creates an empty playlist for the logged-in user.
func (h *Handler) HandleCreatePlaylist(c *gin.Context) {
	var req CreatePlaylistRequest
	if !bindJSON(c, &req, "Title is required") {
		return
	}

	catalog, err := middleware.GetCatalog(c)
	if err != nil {
		h.internalError(c, "Create playlist", err)
		return
	}

	playlist, err := catalog.CreatePlaylist(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		h.internalError(c, "Create playlist", err)
		return
	}

	h.log(c).Info("Created playlist", "uuid", playlist.UUID, "title", playlist.Title)

	// A new playlist is always empty; the catalog is not asked again.
	c.JSON(http.StatusOK, PlaylistResponse{
		UUID:           playlist.UUID,
		Title:          playlist.Title,
		Description:    playlist.Description,
		NumberOfTracks: 0,
		URL:            PlaylistURL(playlist.UUID),
	})
}

// HandleAddTracksToPlaylist resolves each track id and appends the ones that
// exist. Ids that fail to resolve are skipped and reported in the response.
func (h *Handler) HandleAddTracksToPlaylist(c *gin.Context) {
	var req AddTracksRequest
	if !bindJSON(c, &req, "playlist_id and track_ids are required") {
		return
	}

	catalog, err := middleware.GetCatalog(c)
	if err != nil {
		h.internalError(c, "Add tracks", err)
		return
	}

	ctx := c.Request.Context()
	logger := h.log(c)

	playlist, err := catalog.Playlist(ctx, req.PlaylistID)
	if err != nil {
		logger.Warn("Playlist lookup failed", "playlist_id", req.PlaylistID, "err", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}

	var toAdd []tidal.Track
	failed := []TrackFailure{}
	for _, raw := range req.TrackIDs {
		id, err := raw.Int()
		if err != nil {
			logger.Warn("Invalid track id", "track_id", raw.String())
			failed = append(failed, TrackFailure{TrackID: raw.String(), Error: "invalid track id"})
			continue
		}

		track, err := catalog.Track(ctx, id)
		if err != nil {
			logger.Warn("Failed to get track", "track_id", id, "err", err)
			failed = append(failed, TrackFailure{TrackID: raw.String(), Error: err.Error()})
			continue
		}
		toAdd = append(toAdd, *track)
	}

	if len(toAdd) > 0 {
		if err := catalog.AddTracks(ctx, playlist, toAdd); err != nil {
			h.internalError(c, "Add tracks", err)
			return
		}
		logger.Info("Added tracks to playlist", "count", len(toAdd), "playlist_id", req.PlaylistID)
	}

	c.JSON(http.StatusOK, AddTracksResponse{
		Message: fmt.Sprintf("Added %d tracks to playlist", len(toAdd)),
		Added:   len(toAdd),
		Failed:  failed,
	})
}
