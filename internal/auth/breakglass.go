package auth

import "crypto/subtle"

// BreakGlass holds the statically configured administrator credential pair.
// A matching login skips password-hash verification entirely, so operators
// can force admin access without a bcrypt-compatible hash on the account.
// The comparison is against the configured plaintext, not a digest. Keep all
// uses of this policy behind Matches so it can be audited or disabled in one
// place.
type BreakGlass struct {
	email    string
	password string
}

// NewBreakGlass builds the policy. An empty email or password disables it.
func NewBreakGlass(email, password string) BreakGlass {
	return BreakGlass{email: email, password: password}
}

// Enabled reports whether a credential pair is configured.
func (b BreakGlass) Enabled() bool {
	return b.email != "" && b.password != ""
}

// Matches reports whether the supplied pair is exactly the configured pair.
func (b BreakGlass) Matches(email, password string) bool {
	if !b.Enabled() {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(b.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(b.password)) == 1
	return emailOK && passOK
}
