package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"

	"kitflip/pkg/httpx"
)

func TestBreakerRoundTripper(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		status      int
		calls       int
		wantHits    int32
		wantState   gobreaker.State
		wantLastErr bool
	}{
		{
			name:      "Client errors never trip",
			status:    http.StatusNotFound,
			calls:     5,
			wantHits:  5,
			wantState: gobreaker.StateClosed,
		},
		{
			name:      "Rate limits never trip",
			status:    http.StatusTooManyRequests,
			calls:     5,
			wantHits:  5,
			wantState: gobreaker.StateClosed,
		},
		{
			name:        "Server errors trip after threshold",
			status:      http.StatusBadGateway,
			calls:       5,
			wantHits:    3,
			wantState:   gobreaker.StateOpen,
			wantLastErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var hits atomic.Int32

			httpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				hits.Add(1)
				w.WriteHeader(tc.status)
			}))
			defer httpServer.Close()

			rt := httpx.NewBreakerRoundTripper(http.DefaultTransport, httpx.BreakerSettings{
				Name:                "test",
				ConsecutiveFailures: 3,
				OpenTimeout:         time.Minute,
			})
			client := &http.Client{Transport: rt}

			var lastErr error

			for range tc.calls {
				req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, httpServer.URL, http.NoBody)
				rq.NoError(err)

				resp, err := client.Do(req)
				lastErr = err

				if err == nil {
					rq.Equal(tc.status, resp.StatusCode)
					resp.Body.Close()
				}
			}

			rq.Equal(tc.wantHits, hits.Load())
			rq.Equal(tc.wantState, rt.State())
			rq.Equal(tc.wantLastErr, lastErr != nil)
		})
	}
}
