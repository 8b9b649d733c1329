package jwt

import "time"

// Claims holds the verified claims the rest of the app cares about.
type Claims struct {
	UserID string
}

// Signer issues and verifies signed session tokens.
type Signer interface {
	Sign(subject string, ttl time.Duration) (token string, err error)
	Verify(tokenString string) (*Claims, error)
	// Revoke marks a token as invalid before its natural expiry. Best
	// effort: the revocation set is process-local and lost on restart.
	Revoke(tokenString string)
}
