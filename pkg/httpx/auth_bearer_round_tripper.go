package httpx

import (
	"context"
	"fmt"
	"net/http"
)

type authenticator interface {
	Acquire(context.Context) error
	BearerToken() string
}

// AuthBearerRoundTripper attaches the current bearer token to every request.
// A token is acquired lazily on first use. Reacting to 401 is left to the
// caller, which decides whether the failed request is worth a refresh.
type AuthBearerRoundTripper struct {
	next          http.RoundTripper
	authenticator authenticator
}

func NewAuthBearerRoundTripper(
	next http.RoundTripper,
	authenticator authenticator,
) AuthBearerRoundTripper {
	return AuthBearerRoundTripper{
		next:          next,
		authenticator: authenticator,
	}
}

func (rt AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.authenticator.BearerToken() == "" {
		if err := rt.authenticator.Acquire(req.Context()); err != nil {
			return nil, fmt.Errorf("authenticator.Acquire: %w", err)
		}
	}

	// RoundTrip must not modify the caller's request.
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+rt.authenticator.BearerToken())

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
