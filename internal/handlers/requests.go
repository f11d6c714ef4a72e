package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

const defaultSearchLimit = 10

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit *int   `json:"limit"`
}

// limit returns the requested result cap, defaulting to 10.
func (r SearchRequest) limit() int {
	if r.Limit == nil {
		return defaultSearchLimit
	}
	return *r.Limit
}

type TrackPage struct {
	Items              []TrackResponse `json:"items"`
	TotalNumberOfItems int             `json:"totalNumberOfItems"`
}

type SearchResponse struct {
	Tracks TrackPage `json:"tracks"`
}

type CreatePlaylistRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type PlaylistResponse struct {
	UUID           string `json:"uuid"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	NumberOfTracks int    `json:"numberOfTracks"`
	URL            string `json:"url"`
}

// TrackID accepts a track id sent as either a JSON string or number.
type TrackID struct {
	raw    string
	number bool
}

func (t *TrackID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = TrackID{raw: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("track id must be a string or a number")
	}
	*t = TrackID{raw: n.String(), number: true}
	return nil
}

func (t TrackID) String() string {
	return t.raw
}

// Int parses the id as a catalog track id. Numbers with a zero fraction or
// an exponent, such as 100.0 or 1e2, are accepted; strings must be integers.
func (t TrackID) Int() (int64, error) {
	s := strings.TrimSpace(t.raw)
	id, err := strconv.ParseInt(s, 10, 64)
	if err == nil || !t.number {
		return id, err
	}

	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, err
	}
	return int64(f), nil
}

type AddTracksRequest struct {
	PlaylistID string    `json:"playlist_id" binding:"required"`
	TrackIDs   []TrackID `json:"track_ids" binding:"required,min=1"`
}

type TrackFailure struct {
	TrackID string `json:"track_id"`
	Error   string `json:"error"`
}

type AddTracksResponse struct {
	Message string         `json:"message"`
	Added   int            `json:"added"`
	Failed  []TrackFailure `json:"failed"`
}

type SourceArtist struct {
	Name string `json:"name"`
}

// SourceTrack is the track being migrated, as described by the source service.
type SourceTrack struct {
	Name    string         `json:"name"`
	Artists []SourceArtist `json:"artists"`
}

func (t *SourceTrack) empty() bool {
	return t == nil || (t.Name == "" && len(t.Artists) == 0)
}

// ArtistNames joins the artist names with single spaces.
func (t *SourceTrack) ArtistNames() string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, " ")
}

type FindBestMatchRequest struct {
	SpotifyTrack *SourceTrack `json:"spotify_track" binding:"required"`
}

type MatchResponse struct {
	Track      *TrackResponse `json:"track"`
	Confidence int            `json:"confidence"`
	Status     string         `json:"status"`
}

type HealthResponse struct {
	Status   string  `json:"status"`
	LoggedIn bool    `json:"logged_in"`
	User     *string `json:"user"`
}
