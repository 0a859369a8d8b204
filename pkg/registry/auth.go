package registry

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/home-lang/pantry-sub014/pkg/integrations"
)

// AuthType selects how credentials are attached to requests.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthOIDC   AuthType = "oidc"
	AuthHeader AuthType = "header"
)

// Auth holds registry credentials. Which fields apply depends on Type:
// Token for bearer, Token or the client-credentials fields for oidc,
// Username and Password for basic, Header and Value for header.
type Auth struct {
	Type     AuthType `toml:"type" validate:"omitempty,oneof=none bearer basic oidc header"`
	Token    string   `toml:"token"`
	Username string   `toml:"username"`
	Password string   `toml:"password"`
	Header   string   `toml:"header"`
	Value    string   `toml:"value"`

	TokenURL     string   `toml:"token_url" validate:"omitempty,url"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Scopes       []string `toml:"scopes"`
}

// TokenSource returns the OAuth2 token source for bearer and oidc auth, or
// nil for the other types. With a token_url, oidc exchanges the client
// credentials at that endpoint using base; otherwise Token is sent as is.
func (a Auth) TokenSource(ctx context.Context, base *http.Client) (oauth2.TokenSource, error) {
	switch a.Type {
	case AuthBearer:
		if a.Token == "" {
			return nil, fmt.Errorf("bearer auth requires a token")
		}
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.Token, TokenType: "Bearer"}), nil
	case AuthOIDC:
		if a.TokenURL != "" {
			if a.ClientID == "" {
				return nil, fmt.Errorf("oidc auth with a token_url requires a client_id")
			}
			cfg := &clientcredentials.Config{
				ClientID:     a.ClientID,
				ClientSecret: a.ClientSecret,
				TokenURL:     a.TokenURL,
				Scopes:       a.Scopes,
			}
			if base != nil {
				ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
			}
			return cfg.TokenSource(ctx), nil
		}
		if a.Token == "" {
			return nil, fmt.Errorf("oidc auth requires a token or a token_url")
		}
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.Token, TokenType: "Bearer"}), nil
	}
	return nil, nil
}

// Client returns base wrapped in an [oauth2.Transport] when the auth type
// uses tokens, and base itself otherwise. A nil base means
// [integrations.NewHTTPClient].
func (a Auth) Client(ctx context.Context, base *http.Client) (*http.Client, error) {
	ts, err := a.TokenSource(ctx, base)
	if err != nil || ts == nil {
		return base, err
	}
	if base == nil {
		base = integrations.NewHTTPClient()
	}
	c := *base
	c.Transport = &oauth2.Transport{Source: oauth2.ReuseTokenSource(nil, ts), Base: base.Transport}
	return &c, nil
}

// Authorizer returns a function that attaches basic or header credentials
// to a request, or nil when there are none. Token-based auth goes through
// [Auth.Client] instead.
func (a Auth) Authorizer() (func(*http.Request) error, error) {
	switch a.Type {
	case "", AuthNone, AuthBearer, AuthOIDC:
		return nil, nil
	case AuthBasic:
		if a.Username == "" {
			return nil, fmt.Errorf("basic auth requires a username")
		}
		return func(r *http.Request) error {
			r.SetBasicAuth(a.Username, a.Password)
			return nil
		}, nil
	case AuthHeader:
		if a.Header == "" {
			return nil, fmt.Errorf("header auth requires a header name")
		}
		return func(r *http.Request) error {
			r.Header.Set(a.Header, a.Value)
			return nil
		}, nil
	}
	return nil, fmt.Errorf("unknown auth type %q", a.Type)
}
