package gate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/metrics"
)

// Instrumented пишет в prometheus время ожидания и удержания гейта
type Instrumented struct {
	next        Gate
	metrics     *metrics.Metrics
	serviceName string
}

func NewInstrumented(next Gate, m *metrics.Metrics, serviceName string) *Instrumented {
	return &Instrumented{next: next, metrics: m, serviceName: serviceName}
}

func (g *Instrumented) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	release, err := g.next.Acquire(ctx)
	g.metrics.GateWaitDuration.WithLabelValues(g.serviceName).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			g.metrics.GateTimeouts.WithLabelValues(g.serviceName).Inc()
		}
		return nil, err
	}

	held := time.Now()
	var once sync.Once
	return func() {
		once.Do(func() {
			release()
			g.metrics.GateHoldDuration.WithLabelValues(g.serviceName).Observe(time.Since(held).Seconds())
		})
	}, nil
}
