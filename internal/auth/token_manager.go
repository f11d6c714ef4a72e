package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedToken     = errors.New("malformed access token")
)

// Claims are the fields read from a TIDAL access token.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the access token without checking its signature. The
// token is only inspected, never trusted for authorisation here.
func ParseClaims(accessToken string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

type TokenManager struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewTokenManager wraps config. httpClient is used for token requests and as
// the base transport of authorised clients; nil means [http.DefaultClient].
func NewTokenManager(config *oauth2.Config, httpClient *http.Client) *TokenManager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenManager{config: config, httpClient: httpClient}
}

func (tm *TokenManager) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, tm.httpClient)
}

// PasswordLogin exchanges email and password for a token. A rejection by the
// token endpoint is reported as ErrInvalidCredentials.
func (tm *TokenManager) PasswordLogin(ctx context.Context, email, password string) (*oauth2.Token, error) {
	token, err := tm.config.PasswordCredentialsToken(tm.context(ctx), email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			reason := retrieveErr.ErrorCode
			if reason == "" && retrieveErr.Response != nil {
				reason = retrieveErr.Response.Status
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, reason)
		}
		return nil, fmt.Errorf("failed to obtain token: %v", err)
	}

	// Some token responses omit expires_in; the JWT still carries exp.
	if token.Expiry.IsZero() {
		if claims, err := ParseClaims(token.AccessToken); err == nil && claims.ExpiresAt != nil {
			token.Expiry = claims.ExpiresAt.Time
		}
	}

	return token, nil
}

// Client returns an HTTP client that authorises requests with token and
// refreshes it when it expires.
func (tm *TokenManager) Client(ctx context.Context, token *oauth2.Token) *http.Client {
	client := tm.config.Client(tm.context(ctx), token)
	client.Timeout = tm.httpClient.Timeout
	return client
}

// Usable reports whether token is unexpired or can be refreshed.
func (tm *TokenManager) Usable(token *oauth2.Token) bool {
	if token == nil {
		return false
	}
	return token.Valid() || token.RefreshToken != ""
}
