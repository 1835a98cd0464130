package api

import (
	"net/http"

	"github.com/manifest-network/six-cities-client/pkg"
)

// TokenFunc returns the current auth token and whether one is present.
type TokenFunc func() (string, bool)

// StaticToken always returns token. An empty token means no token.
func StaticToken(token string) TokenFunc {
	return func() (string, bool) { return token, token != "" }
}

// tokenTransport sets the auth token header on every outgoing request.
type tokenTransport struct {
	base   http.RoundTripper
	tokens TokenFunc
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := t.tokens()
	if !ok || token == "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	cloned := req.Clone(req.Context())
	cloned.Header.Set(pkg.TokenHeader, token)
	return t.base.RoundTrip(cloned)
}
