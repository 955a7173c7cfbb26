package logx_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"kitflip/pkg/logx"
)

func TestParseLevel(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		input string
		level slog.Level
	}{
		{input: "debug", level: slog.LevelDebug},
		{input: "INFO", level: slog.LevelInfo},
		{input: " warn ", level: slog.LevelWarn},
		{input: "error", level: slog.LevelError},
		{input: "verbose", level: slog.LevelInfo},
		{input: "", level: slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(*testing.T) {
			rq.Equal(tc.level, logx.ParseLevel(tc.input))
		})
	}
}

func TestNewHandler(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	logger := slog.New(logx.NewHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("price lookup failed", slog.String(logx.FieldSKU, "5021;6"), logx.Error(errors.New("boom")))

	rq.NotContains(buf.String(), "hidden")
	rq.Contains(buf.String(), "price lookup failed")
	rq.Contains(buf.String(), "5021;6")
	rq.Contains(buf.String(), "boom")
}
