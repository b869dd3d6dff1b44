package entity

// ExternalProfile is the identity yielded by a federated provider.
// It is merged into a User at the coordinator boundary; local registration and
// federated login are the two sources of a User, not two kinds of User.
type ExternalProfile struct {
	// Email as reported by the provider. May be empty (GitHub omits it for
	// users with a private email address).
	Email string

	// Name as reported by the provider. May be empty.
	Name string

	// Login is the provider-side account name, used to synthesize a fallback
	// email when the provider did not report one.
	Login string
}

// FallbackEmail returns the profile email, or a synthetic address derived from
// the provider login when the provider did not report one.
func (p ExternalProfile) FallbackEmail() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Login + "@github.com"
}
