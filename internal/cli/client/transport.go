package client

import (
	"net/http"
	"strings"
)

// CredentialSource supplies the bearer token for outbound requests and
// is notified when the server rejects it
type CredentialSource interface {
	// Token returns the current access token, or "" when signed out
	Token() string
	// InvalidateSession is called when a request fails with 401 on a
	// protected endpoint, meaning the token is expired or revoked
	InvalidateSession()
}

// authTransport decorates every outbound request with the bearer token
// and evicts the session when the server answers 401. Auth endpoints
// are exempt from eviction so that a failed login attempt does not wipe
// an unrelated stored session.
type authTransport struct {
	base  http.RoundTripper
	creds CredentialSource
}

func newAuthTransport(base http.RoundTripper, creds CredentialSource) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{base: base, creds: creds}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.creds != nil {
		if token := t.creds.Token(); token != "" {
			// RoundTrippers must not mutate the caller's request
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.creds != nil && !isAuthEndpoint(req.URL.Path) {
		t.creds.InvalidateSession()
	}

	return resp, nil
}

// isAuthEndpoint reports whether the request targets the auth API
// itself, where a 401 means bad credentials rather than a dead session
func isAuthEndpoint(path string) bool {
	return strings.Contains(path, "/api/auth/")
}
