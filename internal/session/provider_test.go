package session

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"tidal-service/internal/config"
	tu "tidal-service/internal/testing"
	"tidal-service/internal/tidal"
)

type loginRecorder struct {
	mu       sync.Mutex
	calls    int
	err      error
	catalogs []*tu.FakeCatalog

	// started receives once per login when set; gate holds logins until closed.
	started chan struct{}
	gate    chan struct{}
}

func (r *loginRecorder) login(ctx context.Context, email, password string) (Catalog, error) {
	if r.started != nil {
		select {
		case r.started <- struct{}{}:
		default:
		}
	}
	if r.gate != nil {
		<-r.gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	c := tu.NewFakeCatalog()
	c.Account = &tidal.User{ID: 7, FirstName: "Ada", LastName: "Lovelace"}
	r.catalogs = append(r.catalogs, c)
	return c, nil
}

func newTestProvider(creds Credentials, r *loginRecorder) (*Provider, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewProvider(creds, r.login, log.New(&buf)), &buf
}

var testCreds = Credentials{Email: "me@example.com", Password: "pw"}

func TestAcquire(t *testing.T) {
	t.Run("Logs In Once And Caches", func(t *testing.T) {
		rec := &loginRecorder{}
		p, logs := newTestProvider(testCreds, rec)

		first, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if first != second {
			t.Error("expected cached catalog to be reused")
		}
		if rec.calls != 1 {
			t.Errorf("expected 1 login, got %d", rec.calls)
		}
		if !strings.Contains(logs.String(), "Ada Lovelace") {
			t.Errorf("expected login log with display name, got %q", logs.String())
		}
	})

	t.Run("Replaces Logged Out Session", func(t *testing.T) {
		rec := &loginRecorder{}
		p, _ := newTestProvider(testCreds, rec)

		first, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		rec.catalogs[0].SetLoggedIn(false)

		second, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if first == second {
			t.Error("expected a new catalog after logout")
		}
		if rec.calls != 2 {
			t.Errorf("expected 2 logins, got %d", rec.calls)
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		rec := &loginRecorder{}
		p, _ := newTestProvider(Credentials{Email: "me@example.com"}, rec)

		_, err := p.Acquire(context.Background())
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if rec.calls != 0 {
			t.Errorf("expected no login attempt, got %d", rec.calls)
		}
	})

	t.Run("Rejected Credentials", func(t *testing.T) {
		rec := &loginRecorder{err: tidal.ErrAuthFailed}
		p, _ := newTestProvider(testCreds, rec)

		_, err := p.Acquire(context.Background())
		if !errors.Is(err, ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Other Login Failure", func(t *testing.T) {
		rec := &loginRecorder{err: errors.New("connection refused")}
		p, _ := newTestProvider(testCreds, rec)

		_, err := p.Acquire(context.Background())
		if err == nil || errors.Is(err, ErrAuthFailed) {
			t.Errorf("expected a non-auth error, got %v", err)
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected cause in message, got %v", err)
		}
	})

	t.Run("Concurrent First Requests Login Once", func(t *testing.T) {
		rec := &loginRecorder{}
		p, _ := newTestProvider(testCreds, rec)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := p.Acquire(context.Background()); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if rec.calls != 1 {
			t.Errorf("expected 1 login, got %d", rec.calls)
		}
	})
}

func TestAcquireDoesNotSerialiseRequests(t *testing.T) {
	t.Run("Slow Check Leaves Other Requests Free", func(t *testing.T) {
		rec := &loginRecorder{}
		p, _ := newTestProvider(testCreds, rec)
		if _, err := p.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}

		block := make(chan struct{})
		rec.catalogs[0].SetCheckBlock(block)

		slow := make(chan error, 1)
		go func() {
			_, err := p.Acquire(context.Background())
			slow <- err
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		quick := make(chan error, 1)
		go func() {
			_, err := p.Acquire(ctx)
			quick <- err
		}()

		select {
		case err := <-quick:
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected deadline exceeded, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("request with a 200ms deadline still waiting after 1s")
		}

		close(block)
		select {
		case err := <-slow:
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("slow request never finished")
		}

		if rec.calls != 1 {
			t.Errorf("expected no second login, got %d logins", rec.calls)
		}
	})

	t.Run("Cancelled Caller Leaves Login Running", func(t *testing.T) {
		rec := &loginRecorder{started: make(chan struct{}, 1), gate: make(chan struct{})}
		p, _ := newTestProvider(testCreds, rec)

		ctx, cancel := context.WithCancel(context.Background())
		first := make(chan error, 1)
		go func() {
			_, err := p.Acquire(ctx)
			first <- err
		}()

		<-rec.started
		cancel()
		select {
		case err := <-first:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("cancelled request still waiting on login")
		}

		second := make(chan Catalog, 1)
		go func() {
			c, err := p.Acquire(context.Background())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			second <- c
		}()
		close(rec.gate)

		select {
		case c := <-second:
			if c == nil {
				t.Fatal("expected a catalog")
			}
		case <-time.After(time.Second):
			t.Fatal("second request never finished")
		}
		if rec.calls != 1 {
			t.Errorf("expected 1 login, got %d", rec.calls)
		}
	})
}

func TestTidalLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	cfg := config.Default().Tidal
	cfg.AuthURL = srv.URL + "/token"
	cfg.APIURL = srv.URL

	login := TidalLogin(func() *tidal.Client { return tidal.NewClient(cfg, srv.Client()) })
	p := NewProvider(testCreds, login, log.New(&bytes.Buffer{}))

	_, err := p.Acquire(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}
