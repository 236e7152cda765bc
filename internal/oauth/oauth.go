// Package oauth implements the provider side of social login and the
// LinkedIn identity connection.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Profile is the normalized identity returned by every provider
type Profile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// Credentials holds one provider's application registration
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Configured reports whether the provider can be used
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Provider wraps an oauth2 config with provider-specific profile decoding
type Provider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	decode      func(data []byte) (*Profile, error)

	// enrich runs after decode with an authorized client, for providers
	// that need extra calls to complete the profile
	enrich func(ctx context.Context, client *http.Client, p *Profile) error
}

// Name returns the provider identifier used in routes and stored users
func (p *Provider) Name() string {
	return p.name
}

// AuthURL builds the provider consent page URL carrying our state token
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the user's profile and token
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, *oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange code with %s: %w", p.name, err)
	}

	client := p.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, "GET", p.userInfoURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("userinfo request to %s failed: %w", p.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%s userinfo returned status %d", p.name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}

	profile, err := p.decode(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s profile: %w", p.name, err)
	}

	if p.enrich != nil {
		if err := p.enrich(ctx, client, profile); err != nil {
			return nil, nil, err
		}
	}

	if profile.Email == "" {
		return nil, nil, fmt.Errorf("%s account has no accessible email address", p.name)
	}
	return profile, token, nil
}

// decodeJSON is a small helper shared by the provider constructors
func decodeJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid profile payload: %w", err)
	}
	return nil
}
