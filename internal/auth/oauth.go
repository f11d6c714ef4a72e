package auth

import (
	"golang.org/x/oauth2"

	"tidal-service/internal/config"
)

// Scopes requested for the catalog session. Playlist writes need w_usr.
var TidalScopes = []string{"r_usr", "w_usr"}

// NewTidalOAuthConfig builds the OAuth2 client for the TIDAL token endpoint.
// Only the token URL is used; the service logs in with the password grant.
func NewTidalOAuthConfig(cfg config.TidalConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       TidalScopes,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.AuthURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
