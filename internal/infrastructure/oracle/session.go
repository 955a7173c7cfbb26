package oracle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"kitflip/internal/domain"
	"kitflip/internal/domain/entity"
	"kitflip/pkg/errcodes"
	"kitflip/pkg/httpx"
)

const (
	authPath = "/auth/access"

	defaultFailureCooldown = 5 * time.Second
)

type accessResponse struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

// Session хранит bearer-токен оракула. Срок жизни не отслеживается:
// обновление инициирует клиент, получивший 401.
// Одновременные запросы токена объединяются в один POST.
type Session struct {
	httpClient      *http.Client
	baseURL         string
	now             func() time.Time
	failureCooldown time.Duration
	requests        singleflight.Group

	mu         sync.RWMutex
	credential entity.Credential
	lastErr    error
	failedAt   time.Time
}

// NewSession. httpClient не должен добавлять bearer-заголовок.
func NewSession(httpClient *http.Client, baseURL string) *Session {
	return &Session{
		httpClient:      httpClient,
		baseURL:         strings.TrimRight(baseURL, "/"),
		now:             time.Now,
		failureCooldown: defaultFailureCooldown,
	}
}

// WithFailureCooldown задаёт, сколько Acquire после неудачного запроса токена
// возвращает ту же ошибку без обращения к оракулу. 0 - не ждать.
func (s *Session) WithFailureCooldown(d time.Duration) *Session {
	s.failureCooldown = d
	return s
}

// Acquire получает токен, если его ещё нет. Повторов на этом уровне нет.
func (s *Session) Acquire(ctx context.Context) error {
	s.mu.RLock()
	credential, lastErr, failedAt := s.credential, s.lastErr, s.failedAt
	s.mu.RUnlock()

	if !credential.IsZero() {
		return nil
	}

	if lastErr != nil && s.now().Sub(failedAt) < s.failureCooldown {
		return lastErr
	}

	return s.Refresh(ctx)
}

// Refresh безусловно заменяет токен. При ошибке сессия остаётся без токена.
func (s *Session) Refresh(ctx context.Context) error {
	_, err, _ := s.requests.Do(authPath, func() (any, error) {
		credential, err := s.requestToken(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		s.credential = credential
		s.lastErr = err

		if err != nil {
			s.failedAt = s.now()
		}

		return nil, err
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	logger(ctx).Debug("oracle access token refreshed")

	return nil
}

func (s *Session) Credential() entity.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.credential
}

func (s *Session) BearerToken() string {
	return s.Credential().Token
}

func (s *Session) requestToken(ctx context.Context) (entity.Credential, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+authPath, http.NoBody)
	if err != nil {
		return entity.Credential{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return entity.Credential{}, domain.WrapError(err, errcodes.AuthFailed, "oracle auth request failed")
	}
	defer httpx.Drain(resp)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10)) //nolint:errcheck,mnd

		return entity.Credential{}, domain.WrapError(
			&StatusError{StatusCode: resp.StatusCode, Body: body},
			errcodes.AuthFailed,
			"oracle auth rejected",
		)
	}

	var payload accessResponse
	if err := httpx.DecodeJSON(resp.Body, &payload); err != nil {
		return entity.Credential{}, domain.WrapError(err, errcodes.AuthFailed, "oracle auth payload")
	}

	return entity.Credential{
		Token:      payload.AccessToken,
		AcquiredAt: s.now(),
	}, nil
}
