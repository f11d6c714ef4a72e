// Package tidal is a small client for the TIDAL v1 catalog API covering what
// the service needs: login, search, track and playlist lookup, playlist
// creation and appending tracks to a playlist.
package tidal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"tidal-service/internal/auth"
	"tidal-service/internal/config"
	"tidal-service/internal/ratelimit"
)

// Upstream page size for searches. Callers truncate the result themselves.
const searchLimit = 50

// Client talks to the TIDAL API on behalf of one logged-in user. A Client is
// filled in by Login and is read-only afterwards, so it is safe to share.
type Client struct {
	apiURL      string
	countryCode string
	tokens      *auth.TokenManager

	httpClient *http.Client
	token      *oauth2.Token
	user       *User
}

// NewClient creates a client from cfg. base carries token requests and is the
// transport under the authorised client; nil builds one with cfg's timeout,
// paced by cfg.RequestsPerSecond when that is set.
func NewClient(cfg config.TidalConfig, base *http.Client) *Client {
	if base == nil {
		base = &http.Client{Timeout: cfg.Timeout()}
		if cfg.RequestsPerSecond > 0 {
			base.Transport = ratelimit.NewTransport(nil, cfg.RequestsPerSecond, cfg.Burst)
		}
	}
	return &Client{
		apiURL:      strings.TrimRight(cfg.APIURL, "/"),
		countryCode: cfg.CountryCode,
		tokens:      auth.NewTokenManager(auth.NewTidalOAuthConfig(cfg), base),
	}
}

// Login authenticates with email and password and loads the user profile.
// Rejected credentials wrap ErrAuthFailed.
func (c *Client) Login(ctx context.Context, email, password string) error {
	token, err := c.tokens.PasswordLogin(ctx, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if err != nil {
		return err
	}

	c.token = token
	c.httpClient = c.tokens.Client(context.Background(), token)

	var session sessionResponse
	if _, err := c.get(ctx, "/sessions", nil, &session); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID == 0 {
		if claims, err := auth.ParseClaims(token.AccessToken); err == nil {
			session.UserID = claims.UserID
		}
	}
	if session.UserID == 0 {
		return fmt.Errorf("%w: session has no user id", ErrAuthFailed)
	}
	if session.CountryCode != "" {
		c.countryCode = session.CountryCode
	}

	var user User
	if _, err := c.get(ctx, "/users/"+strconv.FormatInt(session.UserID, 10), nil, &user); err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	c.user = &user

	return nil
}

// CheckLogin reports whether the session is still accepted by the API.
func (c *Client) CheckLogin(ctx context.Context) bool {
	if c.user == nil || !c.tokens.Usable(c.token) {
		return false
	}
	_, err := c.get(ctx, fmt.Sprintf("/users/%d/subscription", c.user.ID), nil, nil)
	return err == nil
}

// User returns the logged-in user, or nil before Login.
func (c *Client) User() *User {
	return c.user
}

// Search returns the tracks matching query, in catalog relevance order.
func (c *Client) Search(ctx context.Context, query string) ([]Track, error) {
	params := url.Values{
		"query":  {query},
		"types":  {"TRACKS"},
		"limit":  {strconv.Itoa(searchLimit)},
		"offset": {"0"},
	}

	var result searchResponse
	if _, err := c.get(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return result.Tracks.Items, nil
}

// Track looks up a track by id. A missing track wraps ErrNotFound.
func (c *Client) Track(ctx context.Context, id int64) (*Track, error) {
	var track Track
	if _, err := c.get(ctx, "/tracks/"+strconv.FormatInt(id, 10), nil, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Playlist looks up a playlist by uuid. A missing playlist wraps ErrNotFound.
func (c *Client) Playlist(ctx context.Context, id string) (*Playlist, error) {
	var playlist Playlist
	header, err := c.get(ctx, "/playlists/"+url.PathEscape(id), nil, &playlist)
	if err != nil {
		return nil, err
	}
	playlist.ETag = header.Get("ETag")
	return &playlist, nil
}

// CreatePlaylist creates an empty playlist owned by the logged-in user.
func (c *Client) CreatePlaylist(ctx context.Context, title, description string) (*Playlist, error) {
	if c.user == nil {
		return nil, ErrNotLoggedIn
	}

	form := url.Values{"title": {title}, "description": {description}}
	path := fmt.Sprintf("/users/%d/playlists", c.user.ID)

	var playlist Playlist
	header, err := c.send(ctx, http.MethodPost, path, form, nil, &playlist)
	if err != nil {
		return nil, err
	}
	playlist.ETag = header.Get("ETag")
	return &playlist, nil
}

// AddTracks appends tracks to the end of playlist. The playlist's ETag is
// sent as the precondition and replaced by the one returned.
func (c *Client) AddTracks(ctx context.Context, playlist *Playlist, tracks []Track) error {
	if len(tracks) == 0 {
		return nil
	}

	if playlist.ETag == "" {
		fresh, err := c.Playlist(ctx, playlist.UUID)
		if err != nil {
			return err
		}
		playlist.ETag = fresh.ETag
		playlist.NumberOfTracks = fresh.NumberOfTracks
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = strconv.FormatInt(t.ID, 10)
	}

	form := url.Values{
		"trackIds":           {strings.Join(ids, ",")},
		"onArtifactNotFound": {"SKIP"},
		"onDupes":            {"SKIP"},
		"toIndex":            {strconv.Itoa(playlist.NumberOfTracks)},
	}
	header := http.Header{"If-None-Match": {playlist.ETag}}

	respHeader, err := c.send(ctx, http.MethodPost, "/playlists/"+url.PathEscape(playlist.UUID)+"/items", form, header, nil)
	if err != nil {
		return err
	}

	if etag := respHeader.Get("ETag"); etag != "" {
		playlist.ETag = etag
	}
	playlist.NumberOfTracks += len(tracks)
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (http.Header, error) {
	if c.httpClient == nil {
		return nil, ErrNotLoggedIn
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("countryCode", c.countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, form url.Values, header http.Header, out any) (http.Header, error) {
	if c.httpClient == nil {
		return nil, ErrNotLoggedIn
	}
	params := url.Values{"countryCode": {c.countryCode}}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path+"?"+params.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (http.Header, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, req.URL.Path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}
