package domain

// TokenVerifier validates a bearer token issued by the external
// identity provider and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
