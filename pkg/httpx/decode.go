package httpx

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

// DecodeJSON reads a JSON payload into dest and validates it by struct tags.
func DecodeJSON(r io.Reader, dest any) error {
	if err := json.NewDecoder(r).Decode(dest); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	if err := validate.Struct(dest); err != nil {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	return nil
}

// RetryAfter reads the retry-after header as an integer count of unit.
// Upstreams disagree on the unit (seconds vs milliseconds), so the caller
// names it. Missing or malformed values yield fallback.
func RetryAfter(h http.Header, unit, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(h.Get("Retry-After"))
	if raw == "" {
		return fallback
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n < 0 {
		return fallback
	}

	return time.Duration(n * float64(unit))
}

// Drain discards the rest of the body so the connection can be reused.
func Drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
