package worker

import (
	"context"
	"log/slog"

	"kitflip/internal/domain/entity"
	"kitflip/pkg/logx"
)

// LogSink пишет ранжированный результат в лог, по строке на кандидата.
type LogSink struct {
	level slog.Level
}

func NewLogSink(level slog.Level) *LogSink {
	return &LogSink{level: level}
}

func (s *LogSink) Publish(ctx context.Context, runID string, candidates []entity.FlipCandidate) error {
	log := logger(ctx)

	for i, c := range candidates {
		attrs := []slog.Attr{
			slog.String(logx.FieldRunID, runID),
			slog.Int("rank", i+1),
			slog.String(logx.FieldWeapon, c.Weapon),
			slog.String(logx.FieldMode, string(c.Mode)),
		}

		if c.Profit != nil {
			attrs = append(attrs, slog.Float64(logx.FieldProfit, *c.Profit))
		}

		if c.ProfitMax != nil {
			attrs = append(attrs, slog.Float64("profit-max", *c.ProfitMax))
		}

		log.LogAttrs(ctx, s.level, "flip candidate", attrs...)
	}

	return nil
}
