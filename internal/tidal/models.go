package tidal

import "strings"

type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type Album struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Track is a catalog track. Artist is the primary artist and may be nil.
type Track struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Duration int      `json:"duration"` // seconds
	Artist   *Artist  `json:"artist"`
	Artists  []Artist `json:"artists"`
	Album    *Album   `json:"album"`
	ISRC     string   `json:"isrc"`
}

// Playlist is a user playlist. ETag is taken from the response header and
// must accompany writes to the playlist.
type Playlist struct {
	UUID           string `json:"uuid"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	NumberOfTracks int    `json:"numberOfTracks"`
	ETag           string `json:"-"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Name is the display name: first and last name when known, else the username.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Username
}

type searchResponse struct {
	Tracks struct {
		Items              []Track `json:"items"`
		TotalNumberOfItems int     `json:"totalNumberOfItems"`
	} `json:"tracks"`
}

type sessionResponse struct {
	SessionID   string `json:"sessionId"`
	UserID      int64  `json:"userId"`
	CountryCode string `json:"countryCode"`
}
