// Package identity wraps the access tokens that gate the social timeline
// sources. Providers are opaque to the rest of the app: they are either ready
// to authorize requests or they are not.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNotConfigured is returned when a provider is built without its client id.
var ErrNotConfigured = errors.New("identity: client id not configured")

// ErrNotLoggedIn is returned by Login when no usable token could be found.
var ErrNotLoggedIn = errors.New("identity: no valid access token")

// Provider is the capability the panels and fetchers depend on.
type Provider interface {
	Name() string
	Ready() bool
	AccessToken() string
	UserID() string
	Client(ctx context.Context) *http.Client
	Login(ctx context.Context) error
}

// Config describes one provider.
type Config struct {
	Name        string
	ClientID    string
	AccessToken string
	TokenFile   string
	UserID      string
	// Permission names a grant the token must carry before the provider is
	// ready. Empty means any valid token is enough.
	Permission string
	Granted    bool
}

// TokenProvider serves a static or file-backed oauth2 token.
type TokenProvider struct {
	cfg Config

	mu      sync.Mutex
	token   *oauth2.Token
	granted bool
}

// New validates cfg and seeds the provider with the configured token, if any.
func New(cfg Config) (*TokenProvider, error) {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Name, ErrNotConfigured)
	}
	p := &TokenProvider{cfg: cfg, granted: cfg.Granted}
	if cfg.AccessToken != "" {
		p.token = &oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"}
	}
	return p, nil
}

func (p *TokenProvider) Name() string {
	return p.cfg.Name
}

// Ready reports whether a valid token with the required grant is present.
func (p *TokenProvider) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.token.Valid() {
		return false
	}
	return p.cfg.Permission == "" || p.granted
}

func (p *TokenProvider) AccessToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == nil {
		return ""
	}
	return p.token.AccessToken
}

// UserID returns the configured account id, defaulting to "me".
func (p *TokenProvider) UserID() string {
	if p.cfg.UserID == "" {
		return "me"
	}
	return p.cfg.UserID
}

// Client returns an HTTP client that authorizes every request with the
// current token.
func (p *TokenProvider) Client(ctx context.Context) *http.Client {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()
	if token == nil {
		token = &oauth2.Token{}
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
}

type tokenFile struct {
	oauth2.Token
	Scopes []string `json:"scopes,omitempty"`
}

// Login reloads the token file written by an external sign-in helper. A
// token listing the required permission in its scopes marks the grant.
func (p *TokenProvider) Login(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.cfg.TokenFile == "" {
		if p.Ready() {
			return nil
		}
		return fmt.Errorf("%s: %w", p.cfg.Name, ErrNotLoggedIn)
	}
	data, err := os.ReadFile(p.cfg.TokenFile)
	if err != nil {
		return fmt.Errorf("%s: read token file: %w", p.cfg.Name, err)
	}
	var stored tokenFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("%s: decode token file: %w", p.cfg.Name, err)
	}
	if !stored.Token.Valid() {
		return fmt.Errorf("%s: %w", p.cfg.Name, ErrNotLoggedIn)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	token := stored.Token
	p.token = &token
	for _, scope := range stored.Scopes {
		if scope == p.cfg.Permission {
			p.granted = true
		}
	}
	return nil
}
