package service

import (
	"context"
	"time"

	"github.com/alexanderramin/pathway/internal/logger"
)

// UseCaseEvent captures timing and outcome of one store operation.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	log *logger.Logger
}

// NewLogUseCaseObserver logs one line per use case at debug, or at warn on
// failure.
func NewLogUseCaseObserver(log *logger.Logger) UseCaseObserver {
	if log == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{log: log}
}

func (o *logUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	kv := make([]any, 0, 6+len(event.Fields)*2)
	kv = append(kv,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		kv = append(kv, k, v)
	}
	if event.Err != nil {
		kv = append(kv, "error", event.Err.Error())
		o.log.Warn("store_use_case", kv...)
		return
	}
	o.log.Debug("store_use_case", kv...)
}

// observe reports a use case once fn returns.
func observe(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any, fn func() error) error {
	start := time.Now()
	err := fn()
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
	return err
}
