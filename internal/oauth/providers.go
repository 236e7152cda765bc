package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/linkedin"
)

// NewGoogle builds the Google social login provider
func NewGoogle(creds Credentials) *Provider {
	return &Provider{
		name: "google",
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		decode: func(data []byte) (*Profile, error) {
			var v struct {
				ID      string `json:"id"`
				Email   string `json:"email"`
				Name    string `json:"name"`
				Picture string `json:"picture"`
			}
			if err := decodeJSON(data, &v); err != nil {
				return nil, err
			}
			return &Profile{ID: v.ID, Email: v.Email, Name: v.Name, Picture: v.Picture}, nil
		},
	}
}

// NewGitHub builds the GitHub social login provider
func NewGitHub(creds Credentials) *Provider {
	return &Provider{
		name: "github",
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		userInfoURL: "https://api.github.com/user",
		decode: func(data []byte) (*Profile, error) {
			var v struct {
				ID        int64  `json:"id"`
				Login     string `json:"login"`
				Name      string `json:"name"`
				Email     string `json:"email"`
				AvatarURL string `json:"avatar_url"`
			}
			if err := decodeJSON(data, &v); err != nil {
				return nil, err
			}
			name := v.Name
			if name == "" {
				name = v.Login
			}
			return &Profile{
				ID:      fmt.Sprintf("%d", v.ID),
				Email:   v.Email,
				Name:    name,
				Picture: v.AvatarURL,
			}, nil
		},
		// GitHub hides the email on the profile when it is private
		enrich: fetchGitHubEmail,
	}
}

// NewLinkedIn builds the LinkedIn identity provider used for the
// profile connection flow.
func NewLinkedIn(creds Credentials) *Provider {
	return &Provider{
		name: "linkedin",
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedin.Endpoint,
		},
		userInfoURL: "https://api.linkedin.com/v2/userinfo",
		decode: func(data []byte) (*Profile, error) {
			var v struct {
				Sub     string `json:"sub"`
				Name    string `json:"name"`
				Email   string `json:"email"`
				Picture string `json:"picture"`
			}
			if err := decodeJSON(data, &v); err != nil {
				return nil, err
			}
			return &Profile{ID: v.Sub, Email: v.Email, Name: v.Name, Picture: v.Picture}, nil
		},
	}
}

// fetchGitHubEmail retrieves the primary verified email when the
// profile omits it.
func fetchGitHubEmail(ctx context.Context, client *http.Client, p *Profile) error {
	if p.Email != "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.github.com/user/emails", nil)
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github email request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github emails returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read github emails: %w", err)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := decodeJSON(body, &emails); err != nil {
		return err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			p.Email = e.Email
			return nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			p.Email = e.Email
			return nil
		}
	}
	return nil
}
