// Package session holds the process-wide catalog session and re-creates it
// when the catalog no longer accepts it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"tidal-service/internal/tidal"
)

var (
	ErrMissingCredentials = errors.New("TIDAL_EMAIL and TIDAL_PASSWORD environment variables are required")
	ErrAuthFailed         = errors.New("failed to login to TIDAL with provided credentials")
)

// Catalog is a logged-in view of the music catalog. [tidal.Client]
// implements it.
type Catalog interface {
	CheckLogin(ctx context.Context) bool
	User() *tidal.User
	Search(ctx context.Context, query string) ([]tidal.Track, error)
	Track(ctx context.Context, id int64) (*tidal.Track, error)
	Playlist(ctx context.Context, id string) (*tidal.Playlist, error)
	CreatePlaylist(ctx context.Context, title, description string) (*tidal.Playlist, error)
	AddTracks(ctx context.Context, playlist *tidal.Playlist, tracks []tidal.Track) error
}

// LoginFunc creates a new catalog handle logged in as email.
type LoginFunc func(ctx context.Context, email, password string) (Catalog, error)

type Credentials struct {
	Email    string
	Password string
}

// Provider caches one Catalog. The cached handle is checked without holding
// a lock; only replacing it is serialised, so concurrent requests that find
// the session invalid share a single login.
type Provider struct {
	creds  Credentials
	login  LoginFunc
	logger *log.Logger

	group   singleflight.Group
	mu      sync.Mutex
	current Catalog
}

func NewProvider(creds Credentials, login LoginFunc, logger *log.Logger) *Provider {
	return &Provider{creds: creds, login: login, logger: logger}
}

// Acquire returns the cached catalog if it still passes CheckLogin, and
// otherwise logs in again and caches the new handle. It gives up when ctx
// ends, though a login already under way still completes for other callers.
func (p *Provider) Acquire(ctx context.Context) (Catalog, error) {
	current := p.cached()
	if current != nil && current.CheckLogin(ctx) {
		return current, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := p.group.DoChan("login", func() (any, error) {
		return p.replace(context.WithoutCancel(ctx), current)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Catalog), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Provider) cached() Catalog {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// replace logs in and swaps out stale. A handle cached by a login that
// finished after stale was read is returned as is.
func (p *Provider) replace(ctx context.Context, stale Catalog) (Catalog, error) {
	if current := p.cached(); current != nil && current != stale {
		return current, nil
	}

	if p.creds.Email == "" || p.creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	catalog, err := p.login(ctx, p.creds.Email, p.creds.Password)
	if errors.Is(err, tidal.ErrAuthFailed) {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create TIDAL session: %w", err)
	}

	p.mu.Lock()
	p.current = catalog
	p.mu.Unlock()

	p.logger.Info("Successfully logged in to TIDAL", "user", catalog.User().Name())
	return catalog, nil
}

// TidalLogin returns a LoginFunc that builds a fresh [tidal.Client] per login.
func TidalLogin(newClient func() *tidal.Client) LoginFunc {
	return func(ctx context.Context, email, password string) (Catalog, error) {
		client := newClient()
		if err := client.Login(ctx, email, password); err != nil {
			return nil, err
		}
		return client, nil
	}
}
