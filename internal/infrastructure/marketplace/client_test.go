package marketplace_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kitflip/internal/domain"
	"kitflip/internal/domain/entity"
	"kitflip/internal/infrastructure/marketplace"
	"kitflip/pkg/errcodes"
)

const itemName = "Non-Craftable Killstreak Minigun Kit"

type response struct {
	status int
	body   string
}

// fakeMarket отдаёт заранее заданные ответы по порядку, последний повторяется.
type fakeMarket struct {
	t         *testing.T
	responses []response
	calls     atomic.Int32

	mu     sync.Mutex
	starts []time.Time
}

func (f *fakeMarket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := int(f.calls.Add(1))

	f.mu.Lock()
	f.starts = append(f.starts, time.Now())
	f.mu.Unlock()

	q := r.URL.Query()
	if q.Get("sku") != itemName || q.Get("appid") != "440" || q.Get("token") != "secret" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := f.responses[min(n, len(f.responses))-1]

	w.Header().Set("Retry-After", "0")
	w.WriteHeader(resp.status)
	fmt.Fprint(w, resp.body)
}

func newClient(t *testing.T, fake *fakeMarket, minInterval time.Duration) *marketplace.Client {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return marketplace.NewClient(srv.Client(), marketplace.Config{
		BaseURL:           srv.URL + "/",
		Token:             "secret",
		MinInterval:       minInterval,
		MismatchPause:     time.Millisecond,
		MaxMismatches:     3,
		MaxRateLimitWaits: 2,
	})
}

func snapshot(sku, listings string) string {
	return fmt.Sprintf(`{"sku":%q,"listings":%s}`, sku, listings)
}

const listingsJSON = `[
	{"intent":"sell","price":12.5,"currencies":{"metal":12.5},"item":{"attributes":[{"defindex":2025},{"defindex":"1004"}]}},
	{"intent":"buy","price":9,"currencies":{"metal":9},"item":{"attributes":[]}},
	{"intent":"sell","price":3,"currencies":{"usd":3},"item":{}},
	{"intent":"trade","price":1,"currencies":{"metal":1},"item":{}}
]`

func TestClientGrabListings(t *testing.T) {
	testCases := []struct {
		name      string
		responses []response
		budget    int
		wantCode  string
		wantLen   int
		wantCalls int32
	}{
		{
			name:      "ok",
			responses: []response{{status: 200, body: snapshot(itemName, listingsJSON)}},
			wantLen:   3,
			wantCalls: 1,
		},
		{
			name:      "empty listings",
			responses: []response{{status: 200, body: snapshot(itemName, `[]`)}},
			wantLen:   0,
			wantCalls: 1,
		},
		{
			name:      "missing listings key",
			responses: []response{{status: 200, body: fmt.Sprintf(`{"sku":%q}`, itemName)}},
			wantCode:  string(errcodes.ListingsUnavailable),
			wantCalls: 1,
		},
		{
			name: "name mismatch does not spend budget",
			responses: []response{
				{status: 200, body: snapshot("Killstreak Minigun", `[]`)},
				{status: 200, body: snapshot("Killstreak Minigun", `[]`)},
				{status: 200, body: snapshot(itemName, `[]`)},
			},
			budget:    0,
			wantCalls: 3,
		},
		{
			name:      "name mismatch is bounded",
			responses: []response{{status: 200, body: snapshot("Killstreak Minigun", `[]`)}},
			wantCode:  string(errcodes.InconsistentResponse),
			wantCalls: 4,
		},
		{
			name: "rate limited does not spend budget",
			responses: []response{
				{status: 429},
				{status: 429},
				{status: 200, body: snapshot(itemName, `[]`)},
			},
			budget:    0,
			wantCalls: 3,
		},
		{
			name:      "rate limited is bounded",
			responses: []response{{status: 429}},
			budget:    1,
			wantCode:  string(errcodes.RateLimited),
			wantCalls: 4,
		},
		{
			name: "rate limit then server error exhausts budget",
			responses: []response{
				{status: 429},
				{status: 429},
				{status: 429},
				{status: 500},
			},
			budget:    1,
			wantCode:  string(errcodes.RetriesExhausted),
			wantCalls: 4,
		},
		{
			name:      "server errors exhaust budget",
			responses: []response{{status: 500}},
			budget:    2,
			wantCode:  string(errcodes.RetriesExhausted),
			wantCalls: 3,
		},
		{
			name: "transient error recovered",
			responses: []response{
				{status: 503},
				{status: 200, body: snapshot(itemName, `[]`)},
			},
			budget:    1,
			wantCalls: 2,
		},
		{
			name:      "broken payload spends budget",
			responses: []response{{status: 200, body: `{"sku":`}},
			budget:    1,
			wantCode:  string(errcodes.RetriesExhausted),
			wantCalls: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			fake := &fakeMarket{t: t, responses: tc.responses}
			client := newClient(t, fake, 0)

			offers, err := client.GrabListings(context.Background(), itemName, tc.budget)

			if tc.wantCode == "" {
				rq.NoError(err)
				rq.NotNil(offers)
				rq.Len(offers, tc.wantLen)
			} else {
				rq.Error(err)
				rq.Nil(offers)

				code, ok := domain.GetCode(err)
				rq.True(ok)
				rq.Equal(tc.wantCode, string(code))
			}

			rq.Equal(tc.wantCalls, fake.calls.Load())
		})
	}
}

func TestClientGrabListingsOffers(t *testing.T) {
	rq := require.New(t)

	fake := &fakeMarket{t: t, responses: []response{{status: 200, body: snapshot(itemName, listingsJSON)}}}
	client := newClient(t, fake, 0)

	offers, err := client.GrabListings(context.Background(), itemName, 0)
	rq.NoError(err)

	rq.Equal([]entity.Offer{
		{Intent: entity.IntentSell, Price: 12.5, Modifiers: []int{2025, 1004}, Denomination: entity.DenominationScrap},
		{Intent: entity.IntentBuy, Price: 9, Modifiers: []int{}, Denomination: entity.DenominationScrap},
		{Intent: entity.IntentSell, Price: 3, Modifiers: []int{}, Denomination: entity.DenominationRealCurrency},
	}, offers)
}

func TestClientThrottle(t *testing.T) {
	rq := require.New(t)

	const interval = 100 * time.Millisecond

	fake := &fakeMarket{t: t, responses: []response{{status: 200, body: snapshot(itemName, `[]`)}}}
	client := newClient(t, fake, interval)

	var wg sync.WaitGroup

	for range 3 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := client.GrabListings(context.Background(), itemName, 0)
			rq.NoError(err)
		}()
	}

	wg.Wait()

	rq.Len(fake.starts, 3)

	for i := 1; i < len(fake.starts); i++ {
		rq.GreaterOrEqual(fake.starts[i].Sub(fake.starts[i-1]), interval-10*time.Millisecond)
	}
}

func TestClientThrottleCanceled(t *testing.T) {
	rq := require.New(t)

	fake := &fakeMarket{t: t, responses: []response{{status: 200, body: snapshot(itemName, `[]`)}}}
	client := newClient(t, fake, time.Hour)

	_, err := client.GrabListings(context.Background(), itemName, 0)
	rq.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.GrabListings(ctx, itemName, 0)
	rq.Error(err)
	rq.Equal(int32(1), fake.calls.Load())
}
