// Package oauth bridges the external identity provider (GitHub) into the
// auth feature. The provider is only trusted to yield an email/name pair;
// everything else is handled by the coordinator's federated login path.
package oauth

import "os"

// Config holds OAuth2 client configuration for the GitHub provider.
type Config struct {
	ClientID     string // OAuth2 application client id
	ClientSecret string // OAuth2 application client secret
	RedirectURL  string // callback URL registered with the provider
}

// LoadConfig loads GitHub OAuth2 configuration from environment variables.
func LoadConfig() Config {
	return Config{
		ClientID:     os.Getenv("OAUTH_GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("OAUTH_GITHUB_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("OAUTH_GITHUB_REDIRECT_URL"),
	}
}

// Enabled reports whether the provider is configured.
func (c Config) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
