// Package marketplace - клиент снапшотов объявлений маркетплейса.
package marketplace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"kitflip/internal/domain"
	"kitflip/internal/domain/entity"
	"kitflip/internal/metrics"
	"kitflip/pkg/errcodes"
	"kitflip/pkg/httpx"
	"kitflip/pkg/logx"
)

const (
	snapshotPath = "/classifieds/listings/snapshot"

	defaultMaxMismatches     = 10
	defaultMaxRateLimitWaits = 5

	errorBodyLimit = 1 << 10
)

type Config struct {
	BaseURL           string
	Token             string
	AppID             string
	MinInterval       time.Duration
	RetryAfterUnit    time.Duration
	MismatchPause     time.Duration
	MaxMismatches     int
	MaxRateLimitWaits int
}

// StatusError - неуспешный HTTP-ответ маркетплейса.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("marketplace status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client - клиент снапшотов. Запросы всех вызывающих проходят через общий лимитер:
// между стартами запросов не меньше MinInterval.
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
}

func NewClient(httpClient *http.Client, cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.AppID == "" {
		cfg.AppID = "440"
	}

	if cfg.RetryAfterUnit <= 0 {
		cfg.RetryAfterUnit = time.Second
	}

	if cfg.MaxMismatches <= 0 {
		cfg.MaxMismatches = defaultMaxMismatches
	}

	if cfg.MaxRateLimitWaits <= 0 {
		cfg.MaxRateLimitWaits = defaultMaxRateLimitWaits
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// GrabListings возвращает объявления по отображаемому имени предмета.
// Пустой срез - объявлений нет; ошибка - определить не удалось.
//
// Ответ с чужим именем и 429 повторяются вне бюджета (с собственными лимитами),
// прочие ошибки тратят единицу бюджета. 429 сверх лимита ожиданий тоже тратит бюджет,
// а по его исчерпании возвращается RateLimited.
func (c *Client) GrabListings(ctx context.Context, itemName string, retryBudget int) ([]entity.Offer, error) {
	log := logger(ctx).With(slog.String(logx.FieldItemName, itemName))

	var (
		mismatches     int
		rateLimitWaits int
	)

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("limiter.Wait: %w", err)
		}

		snapshot, resp, err := c.fetch(ctx, itemName)

		switch {
		case err == nil && snapshot.SKU != itemName:
			mismatches++
			metrics.ObserveNameMismatch()

			log.Info(
				"marketplace returned another item",
				slog.String("got", snapshot.SKU),
				slog.Int(logx.FieldAttempt, attempt),
			)

			if mismatches > c.cfg.MaxMismatches {
				return nil, domain.NewError(
					errcodes.InconsistentResponse,
					fmt.Sprintf("marketplace kept answering with %q", snapshot.SKU),
				)
			}

			if err := sleep(ctx, c.cfg.MismatchPause); err != nil {
				return nil, fmt.Errorf("marketplace.GrabListings: %w", err)
			}

			continue
		case err == nil:
			return snapshot.offers(ctx)
		case ctx.Err() != nil:
			return nil, fmt.Errorf("marketplace.GrabListings: %w", ctx.Err())
		case resp != nil && resp.StatusCode == http.StatusTooManyRequests && rateLimitWaits < c.cfg.MaxRateLimitWaits:
			rateLimitWaits++

			wait := httpx.RetryAfter(resp.Header, c.cfg.RetryAfterUnit, c.cfg.MinInterval)

			log.Info("marketplace rate limited", slog.Duration(logx.FieldRetryAfter, wait))
			metrics.ObserveRateLimitSleep(metrics.UpstreamMarket, wait.Seconds())
			metrics.ObserveRetry(metrics.UpstreamMarket, "rate_limited")

			if err := sleep(ctx, wait); err != nil {
				return nil, fmt.Errorf("marketplace.GrabListings: %w", err)
			}

			continue
		default:
			log.Info(
				"listing lookup failed",
				slog.Int(logx.FieldAttempt, attempt),
				slog.Int(logx.FieldBudget, retryBudget),
				logx.Error(err),
			)
		}

		if retryBudget <= 0 {
			if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
				return nil, domain.WrapError(err, errcodes.RateLimited, "marketplace keeps rate limiting")
			}

			return nil, domain.WrapError(err, errcodes.RetriesExhausted, "marketplace retries exhausted")
		}

		retryBudget--

		metrics.ObserveRetry(metrics.UpstreamMarket, "status")
	}
}

func (c *Client) fetch(ctx context.Context, itemName string) (*snapshotResponse, *http.Response, error) {
	query := url.Values{}
	query.Set("sku", itemName)
	query.Set("appid", c.cfg.AppID)
	query.Set("token", c.cfg.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+snapshotPath+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamMarket, 0)

		return nil, nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer httpx.Drain(resp)

	metrics.ObserveUpstream(metrics.UpstreamMarket, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit)) //nolint:errcheck

		return nil, resp, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var payload snapshotResponse
	if err := httpx.DecodeJSON(resp.Body, &payload); err != nil {
		return nil, resp, domain.WrapError(err, errcodes.InvalidPayload, "marketplace snapshot payload")
	}

	return &payload, resp, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// flexInt принимает defindex и числом, и строкой.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("defindex %s: %w", b, err)
	}

	*f = flexInt(n)

	return nil
}
