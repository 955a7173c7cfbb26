package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"kitflip/pkg/httpx"
)

type stubAuthenticator struct {
	token    string
	next     string
	err      error
	acquired int
}

func (s *stubAuthenticator) Acquire(context.Context) error {
	s.acquired++
	if s.err != nil {
		return s.err
	}

	s.token = s.next

	return nil
}

func (s *stubAuthenticator) BearerToken() string {
	return s.token
}

func TestAuthBearerRoundTripper(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name         string
		auth         *stubAuthenticator
		wantHeader   string
		wantAcquired int
		wantErr      bool
	}{
		{
			name:         "Token already held",
			auth:         &stubAuthenticator{token: "held"},
			wantHeader:   "Bearer held",
			wantAcquired: 0,
		},
		{
			name:         "Token acquired lazily",
			auth:         &stubAuthenticator{next: "fresh"},
			wantHeader:   "Bearer fresh",
			wantAcquired: 1,
		},
		{
			name:         "Acquire fails",
			auth:         &stubAuthenticator{err: errors.New("token endpoint down")},
			wantAcquired: 1,
			wantErr:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var gotHeader string

			httpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotHeader = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer httpServer.Close()

			client := &http.Client{
				Transport: httpx.NewAuthBearerRoundTripper(http.DefaultTransport, tc.auth),
			}

			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, httpServer.URL, http.NoBody)
			rq.NoError(err)

			resp, err := client.Do(req)
			rq.Equal(tc.wantAcquired, tc.auth.acquired)

			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			defer resp.Body.Close()

			// 401 is handed back untouched.
			rq.Equal(http.StatusUnauthorized, resp.StatusCode)
			rq.Equal(tc.wantHeader, gotHeader)
			rq.Empty(req.Header.Get("Authorization"), "caller request must stay unmodified")
		})
	}
}
