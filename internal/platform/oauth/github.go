package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"authvault_backend/internal/feature/auth/domain/entity"
)

// defaultAPIBaseURL is the GitHub REST API origin.
const defaultAPIBaseURL = "https://api.github.com"

// GitHubProvider exchanges an authorization code for an access token and
// fetches the user profile from the GitHub API.
type GitHubProvider struct {
	conf       *oauth2.Config
	apiBaseURL string
}

// NewGitHubProvider creates a GitHubProvider from the given configuration.
func NewGitHubProvider(cfg Config) *GitHubProvider {
	return &GitHubProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBaseURL: defaultAPIBaseURL,
	}
}

// AuthCodeURL returns the provider URL to redirect the user to.
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

// githubUser is the subset of the GitHub /user response the bridge consumes.
type githubUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

// FetchProfile exchanges the authorization code and fetches the user profile.
// The returned profile may carry an empty Email; the coordinator derives a
// synthetic address from Login in that case.
func (p *GitHubProvider) FetchProfile(ctx context.Context, code string) (entity.ExternalProfile, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return entity.ExternalProfile{}, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := p.conf.Client(ctx, tok)
	resp, err := client.Get(p.apiBaseURL + "/user")
	if err != nil {
		return entity.ExternalProfile{}, fmt.Errorf("failed to fetch github profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.ExternalProfile{}, fmt.Errorf("github profile request returned status %d", resp.StatusCode)
	}

	var gu githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return entity.ExternalProfile{}, fmt.Errorf("failed to decode github profile: %w", err)
	}
	if gu.Login == "" {
		return entity.ExternalProfile{}, fmt.Errorf("github profile has no login")
	}

	return entity.ExternalProfile{
		Email: gu.Email,
		Name:  gu.Name,
		Login: gu.Login,
	}, nil
}
