package oracle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"kitflip/internal/domain"
	"kitflip/internal/domain/entity"
	"kitflip/internal/metrics"
	"kitflip/pkg/errcodes"
	"kitflip/pkg/httpx"
	"kitflip/pkg/logx"
)

const (
	refreshReasonStale   = "stale"
	refreshReasonMissing = "missing"

	errorBodyLimit = 1 << 10

	defaultRefreshCooldown = time.Hour
)

type authSession interface {
	Refresh(ctx context.Context) error
}

type Config struct {
	BaseURL          string
	StalenessWindow  time.Duration
	RefreshCooldown  time.Duration
	RetryBackoff     time.Duration
	AuthRefreshLimit int
	RetryAfterUnit   time.Duration
}

type priceResponse struct {
	SKU              string    `json:"sku"              validate:"required"`
	BuyHalfScrap     float64   `json:"buyHalfScrap"`
	BuyKeys          float64   `json:"buyKeys"`
	BuyKeyHalfScrap  *float64  `json:"buyKeyHalfScrap"`
	SellHalfScrap    float64   `json:"sellHalfScrap"`
	SellKeys         float64   `json:"sellKeys"`
	SellKeyHalfScrap *float64  `json:"sellKeyHalfScrap"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"        validate:"required"`
}

func (r priceResponse) toDomain() *entity.PriceRecord {
	return &entity.PriceRecord{
		SKU:       r.SKU,
		Buy:       priceSide(r.BuyKeys, r.BuyHalfScrap, r.BuyKeyHalfScrap),
		Sell:      priceSide(r.SellKeys, r.SellHalfScrap, r.SellKeyHalfScrap),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func priceSide(keys, halfScrap float64, keyHalfScrap *float64) entity.PriceSide {
	if keys > 0 && keyHalfScrap != nil {
		return entity.PriceSide{
			Unit:    entity.UnitKey,
			Value:   keys,
			Change:  halfScrap,
			KeyRate: *keyHalfScrap,
		}
	}

	return entity.PriceSide{Unit: entity.UnitScrap, Value: halfScrap}
}

// Client - клиент оракула цен.
type Client struct {
	httpClient *http.Client
	session    authSession
	cfg        Config
	now        func() time.Time

	refreshed *cache.Cache
	refreshWG sync.WaitGroup
}

// NewClient. httpClient должен подставлять bearer-токен сессии.
func NewClient(httpClient *http.Client, session authSession, cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.RetryAfterUnit <= 0 {
		cfg.RetryAfterUnit = time.Millisecond
	}

	cooldown := cfg.RefreshCooldown
	if cooldown <= 0 {
		cooldown = defaultRefreshCooldown
	}

	return &Client{
		httpClient: httpClient,
		session:    session,
		cfg:        cfg,
		now:        time.Now,
		refreshed:  cache.New(cooldown, time.Hour),
	}
}

// WithClock подменяет источник времени.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// WaitRefreshes ждёт завершения фоновых запросов на пересчёт.
func (c *Client) WaitRefreshes() {
	c.refreshWG.Wait()
}

// CheckPrice возвращает запись цены по SKU.
//
// 401 обновляет токен и повторяет попытку вне бюджета, не чаще AuthRefreshLimit раз за вызов.
// 404 запрашивает пересчёт и сразу возвращает ItemNotPriced.
// 429 ждёт retry-after (без заголовка - RetryBackoff) и тратит одну единицу бюджета.
// Прочие ошибки тратят единицу бюджета с паузой; по исчерпании - RetriesExhausted.
func (c *Client) CheckPrice(
	ctx context.Context,
	sku string,
	retryBudget int,
	allowRefresh bool,
) (*entity.PriceRecord, error) {
	log := logger(ctx).With(slog.String(logx.FieldSKU, sku))

	var (
		authRefreshes int
		backoff       = c.cfg.RetryBackoff
		lastErr       error
	)

	for attempt := 1; ; attempt++ {
		record, resp, err := c.fetch(ctx, sku)

		switch {
		case err == nil:
			if allowRefresh && record.IsStale(c.now(), c.cfg.StalenessWindow) {
				c.requestRefresh(ctx, sku, refreshReasonStale)
			}

			return record, nil
		case ctx.Err() != nil:
			return nil, fmt.Errorf("oracle.CheckPrice: %w", ctx.Err())
		case resp != nil && resp.StatusCode == http.StatusUnauthorized && authRefreshes < c.cfg.AuthRefreshLimit:
			authRefreshes++

			log.Info("oracle credential rejected, refreshing", slog.Int(logx.FieldAttempt, attempt))

			if err := c.session.Refresh(ctx); err != nil {
				log.Warn("session.Refresh", logx.Error(err))
			}

			metrics.ObserveRetry(metrics.UpstreamOracle, "unauthorized")

			continue
		case resp != nil && resp.StatusCode == http.StatusNotFound:
			c.requestRefresh(ctx, sku, refreshReasonMissing)

			return nil, domain.WrapError(err, errcodes.ItemNotPriced, "item is not priced yet")
		case resp != nil && resp.StatusCode == http.StatusTooManyRequests:
			wait := httpx.RetryAfter(resp.Header, c.cfg.RetryAfterUnit, c.cfg.RetryBackoff)

			log.Info(
				"oracle rate limited",
				slog.Duration(logx.FieldRetryAfter, wait),
				slog.Int(logx.FieldBudget, retryBudget),
			)
			metrics.ObserveRateLimitSleep(metrics.UpstreamOracle, wait.Seconds())

			if err := sleep(ctx, wait); err != nil {
				return nil, fmt.Errorf("oracle.CheckPrice: %w", err)
			}
		default:
			log.Info(
				"oracle price check failed",
				slog.Int(logx.FieldAttempt, attempt),
				slog.Int(logx.FieldBudget, retryBudget),
				logx.Error(err),
			)
		}

		lastErr = err

		if retryBudget <= 0 {
			return nil, domain.WrapError(lastErr, errcodes.RetriesExhausted, "oracle retries exhausted")
		}

		retryBudget--

		metrics.ObserveRetry(metrics.UpstreamOracle, retryReason(resp))

		if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
			if err := sleep(ctx, jitter(backoff)); err != nil {
				return nil, fmt.Errorf("oracle.CheckPrice: %w", err)
			}

			backoff *= 2
		}
	}
}

// fetch выполняет один GET. Тело ответа уже прочитано и закрыто.
func (c *Client) fetch(ctx context.Context, sku string) (*entity.PriceRecord, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.priceURL(sku), http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamOracle, 0)

		return nil, nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer httpx.Drain(resp)

	metrics.ObserveUpstream(metrics.UpstreamOracle, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit)) //nolint:errcheck

		return nil, resp, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var payload priceResponse
	if err := httpx.DecodeJSON(resp.Body, &payload); err != nil {
		return nil, resp, domain.WrapError(err, errcodes.InvalidPayload, "oracle price payload")
	}

	return payload.toDomain(), resp, nil
}

// requestRefresh отправляет POST на пересчёт в фоне. Результат игнорируется.
// Для одного SKU запрос уходит не чаще раза за RefreshCooldown.
func (c *Client) requestRefresh(ctx context.Context, sku, reason string) {
	if err := c.refreshed.Add(sku, struct{}{}, cache.DefaultExpiration); err != nil {
		return
	}

	metrics.ObserveRefresh(reason)

	ctx = context.WithoutCancel(ctx)

	c.refreshWG.Add(1)

	go func() {
		defer c.refreshWG.Done()

		log := logger(ctx).With(slog.String(logx.FieldSKU, sku), slog.String("reason", reason))

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.priceURL(sku)+"/refresh", http.NoBody)
		if err != nil {
			log.Warn("http.NewRequestWithContext", logx.Error(err))
			return
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Warn("oracle refresh request failed", logx.Error(err))
			return
		}

		httpx.Drain(resp)

		log.Info("requested oracle price update", slog.Int(logx.FieldStatus, resp.StatusCode))
	}()
}

func (c *Client) priceURL(sku string) string {
	return c.cfg.BaseURL + "/prices/" + url.PathEscape(sku)
}

func retryReason(resp *http.Response) string {
	if resp == nil {
		return "transport"
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "rate_limited"
	}

	return "status"
}

// jitter: backoff * [0.5, 1.5).
func jitter(backoff time.Duration) time.Duration {
	if backoff <= 0 {
		return 0
	}

	return backoff/2 + time.Duration(rand.Int64N(int64(backoff))) //nolint:gosec
}

// IsNotPriced сообщает, что оракул ещё не оценил предмет.
func IsNotPriced(err error) bool {
	code, ok := domain.GetCode(err)

	return ok && code == errcodes.ItemNotPriced
}
