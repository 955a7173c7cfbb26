package oracle

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// StatusError - неуспешный HTTP-ответ оракула.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("oracle status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
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
