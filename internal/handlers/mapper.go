package handlers

import (
	"fmt"

	"tidal-service/internal/tidal"
)

const (
	unknownArtist = "Unknown Artist"

	trackURLTemplate    = "https://tidal.com/browse/track/%d"
	playlistURLTemplate = "https://tidal.com/browse/playlist/%s"
)

type ArtistResponse struct {
	Name string `json:"name"`
}

// TrackResponse is the track shape returned to callers.
type TrackResponse struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Artist   ArtistResponse   `json:"artist"`
	Artists  []ArtistResponse `json:"artists"`
	Duration int              `json:"duration"`
	URL      string           `json:"url"`
}

// NewTrackResponse maps a catalog track. A missing primary artist becomes
// "Unknown Artist" and a missing artist list becomes empty.
func NewTrackResponse(t tidal.Track) TrackResponse {
	artist := ArtistResponse{Name: unknownArtist}
	if t.Artist != nil {
		artist.Name = t.Artist.Name
	}

	artists := make([]ArtistResponse, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, ArtistResponse{Name: a.Name})
	}

	return TrackResponse{
		ID:       fmt.Sprintf("%d", t.ID),
		Title:    t.Title,
		Artist:   artist,
		Artists:  artists,
		Duration: t.Duration,
		URL:      TrackURL(t.ID),
	}
}

func TrackURL(id int64) string {
	return fmt.Sprintf(trackURLTemplate, id)
}

func PlaylistURL(uuid string) string {
	return fmt.Sprintf(playlistURLTemplate, uuid)
}
