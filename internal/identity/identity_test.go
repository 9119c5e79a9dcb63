package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRequiresClientID(t *testing.T) {
	if _, err := New(Config{Name: "facebook"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestReadyNeedsTokenAndPermission(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "no token", cfg: Config{ClientID: "id"}, want: false},
		{name: "token", cfg: Config{ClientID: "id", AccessToken: "tok"}, want: true},
		{name: "token without grant", cfg: Config{ClientID: "id", AccessToken: "tok", Permission: "read_stream"}, want: false},
		{name: "token with grant", cfg: Config{ClientID: "id", AccessToken: "tok", Permission: "read_stream", Granted: true}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := p.Ready(); got != tc.want {
				t.Fatalf("Ready = %v want %v", got, tc.want)
			}
		})
	}
}

func TestLoginReadsTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	body := `{"access_token":"fresh","token_type":"Bearer","scopes":["read_stream"]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	p, err := New(Config{Name: "facebook", ClientID: "app", TokenFile: path, Permission: "read_stream"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Ready() {
		t.Fatalf("provider should not be ready before login")
	}
	if err := p.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !p.Ready() || p.AccessToken() != "fresh" {
		t.Fatalf("login did not install token: ready=%v token=%q", p.Ready(), p.AccessToken())
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	p, err := New(Config{Name: "googleplus", ClientID: "client"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Login(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestClientAuthorizesRequests(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	t.Cleanup(server.Close)

	p, err := New(Config{Name: "facebook", ClientID: "app", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := p.Client(context.Background()).Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if auth != "Bearer tok" {
		t.Fatalf("authorization header = %q", auth)
	}
	if p.UserID() != "me" {
		t.Fatalf("default user id = %q", p.UserID())
	}
}
