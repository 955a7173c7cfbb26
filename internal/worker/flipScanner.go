// Package worker - фоновые циклы оценки флипов.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"kitflip/internal/domain/entity"
	"kitflip/internal/metrics"
	"kitflip/pkg/contextx"
	"kitflip/pkg/logx"
)

//go:generate moq -rm -out evaluator_mock.gen.go . Evaluator
type Evaluator interface {
	Evaluate(ctx context.Context, weapons []string, mode entity.FlipMode, refineTop int) ([]entity.FlipCandidate, error)
}

//go:generate moq -rm -out sink_mock.gen.go . Sink
type Sink interface {
	Publish(ctx context.Context, runID string, candidates []entity.FlipCandidate) error
}

type FlipScanner struct {
	evaluator Evaluator
	weapons   []string
	sinks     []Sink

	mode      entity.FlipMode
	refineTop int
	interval  time.Duration

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewFlipScanner(evaluator Evaluator, weapons []string) *FlipScanner {
	return &FlipScanner{
		evaluator: evaluator,
		weapons:   weapons,
		mode:      entity.FlipModeBoth,
	}
}

func (w *FlipScanner) WithMode(mode entity.FlipMode, refineTop int) *FlipScanner {
	w.mode = mode
	w.refineTop = refineTop

	return w
}

// WithInterval задаёт паузу между циклами. 0 - один цикл.
func (w *FlipScanner) WithInterval(interval time.Duration) *FlipScanner {
	w.interval = interval
	return w
}

func (w *FlipScanner) WithSinks(sinks ...Sink) *FlipScanner {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *FlipScanner) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scanner is already running")
	}

	scanCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(scanCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("scanner stopped with error", logx.Error(err))
		}
	}()

	return nil
}

func (w *FlipScanner) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *FlipScanner) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

// Run выполняет циклы до отмены контекста. При нулевом интервале - ровно один цикл,
// и его ошибка возвращается вызывающему.
func (w *FlipScanner) Run(ctx context.Context) error {
	logger(ctx).Info("flip scanner started",
		slog.String(logx.FieldMode, string(w.mode)),
		slog.Int("weapons", len(w.weapons)),
		slog.Duration("interval", w.interval),
	)

	if w.interval <= 0 {
		_, err := w.RunOnce(ctx)
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if _, err := w.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			logger(ctx).Error("flip cycle failed", logx.Error(err))
		}

		select {
		case <-ctx.Done():
			logger(ctx).Info("flip scanner stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce - один цикл: оценка, ранжирование, раздача результатов приёмникам.
// Ошибка приёмника не прерывает цикл и не мешает остальным приёмникам.
func (w *FlipScanner) RunOnce(ctx context.Context) ([]entity.FlipCandidate, error) {
	runID := contextx.NewRunID()
	log := logger(ctx).With(slog.String(logx.FieldRunID, runID.String()))

	ctx = contextx.WithRunID(ctx, runID)
	ctx = contextx.WithLogger(ctx, log)

	started := time.Now()

	candidates, err := w.evaluator.Evaluate(ctx, w.weapons, w.mode, w.refineTop)
	if err != nil {
		return nil, fmt.Errorf("evaluator.Evaluate: %w", err)
	}

	priced := lo.CountBy(candidates, func(c entity.FlipCandidate) bool { return c.Priced() })
	metrics.SetLastCycle(priced, len(candidates)-priced)

	log.Info("flip cycle completed",
		slog.Int("priced", priced),
		slog.Int("unpriced", len(candidates)-priced),
		slog.Duration("took", time.Since(started)),
	)

	for _, sink := range w.sinks {
		if err := sink.Publish(ctx, runID.String(), candidates); err != nil {
			log.Error("failed to publish flip results", slog.String("sink", fmt.Sprintf("%T", sink)), logx.Error(err))
		}
	}

	return candidates, nil
}
