// package testing contains shared testing utilities
package testing

import (
	"context"
	"fmt"
	"sync"

	"tidal-service/internal/tidal"
)

// FakeCatalog is an in-memory test double for session.Catalog.
type FakeCatalog struct {
	mu sync.Mutex

	LoggedIn  bool
	Account   *tidal.User
	Results   []tidal.Track
	SearchErr error
	Tracks    map[int64]tidal.Track
	Playlists map[string]*tidal.Playlist
	CreateErr error
	AddErr    error

	// CheckBlock, when set, holds CheckLogin until it is closed or the
	// caller's context ends.
	CheckBlock chan struct{}

	Queries []string
	Added   map[string][]int64
	Checks  int
	created int
}

func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		LoggedIn:  true,
		Account:   &tidal.User{ID: 1, Username: "listener"},
		Tracks:    map[int64]tidal.Track{},
		Playlists: map[string]*tidal.Playlist{},
		Added:     map[string][]int64{},
	}
}

func (f *FakeCatalog) CheckLogin(ctx context.Context) bool {
	f.mu.Lock()
	f.Checks++
	block := f.CheckBlock
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return false
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LoggedIn
}

func (f *FakeCatalog) SetCheckBlock(block chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CheckBlock = block
}

func (f *FakeCatalog) SetLoggedIn(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoggedIn = v
}

func (f *FakeCatalog) User() *tidal.User { return f.Account }

func (f *FakeCatalog) Search(ctx context.Context, query string) ([]tidal.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries = append(f.Queries, query)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return append([]tidal.Track(nil), f.Results...), nil
}

func (f *FakeCatalog) Track(ctx context.Context, id int64) (*tidal.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	track, ok := f.Tracks[id]
	if !ok {
		return nil, fmt.Errorf("%w: track %d", tidal.ErrNotFound, id)
	}
	return &track, nil
}

func (f *FakeCatalog) Playlist(ctx context.Context, id string) (*tidal.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Playlists[id]
	if !ok {
		return nil, fmt.Errorf("%w: playlist %s", tidal.ErrNotFound, id)
	}
	copied := *p
	return &copied, nil
}

func (f *FakeCatalog) CreatePlaylist(ctx context.Context, title, description string) (*tidal.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.created++
	p := &tidal.Playlist{UUID: fmt.Sprintf("pl-%d", f.created), Title: title, Description: description}
	f.Playlists[p.UUID] = p
	copied := *p
	return &copied, nil
}

func (f *FakeCatalog) AddTracks(ctx context.Context, playlist *tidal.Playlist, tracks []tidal.Track) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return f.AddErr
	}
	for _, t := range tracks {
		f.Added[playlist.UUID] = append(f.Added[playlist.UUID], t.ID)
	}
	return nil
}
