// Package ratelimit paces outgoing catalog requests with a token bucket.
package ratelimit

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Transport is an [http.RoundTripper] that waits for a token before each
// request. It never retries; a response is returned as the next transport
// produced it.
type Transport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

// NewTransport wraps next (default [http.DefaultTransport]) so that at most
// requestsPerSecond requests start per second, with bursts up to burst.
// A burst below 1 is raised to 1.
func NewTransport(next http.RoundTripper, requestsPerSecond float64, burst int) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	if burst < 1 {
		burst = 1
	}
	return &Transport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// RoundTrip blocks until the limiter allows the request or its context ends.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", req.URL.Host, err)
	}
	return t.next.RoundTrip(req)
}
