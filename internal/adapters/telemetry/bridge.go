package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor by reporting finished pipeline
// stages to a logger. Failed spans are left to the caller's error report.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing.
func (b *LogBridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name and its wall time.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !isStage(s) {
		return
	}
	if s.Status().Code == codes.Error {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	b.logger.Info(fmt.Sprintf("%s done in %s", s.Name(), elapsed))
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(context.Context) error {
	return nil
}

func isStage(s sdktrace.ReadOnlySpan) bool {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == domain.SpanStageKey {
			return true
		}
	}
	return false
}
