package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/metrics"
)

const publishTimeout = 5 * time.Second

// ErrDispatcherClosed возвращается при попытке отправить событие после Close
var ErrDispatcherClosed = errors.New("events: dispatcher closed")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dispatcher асинхронно отправляет события через Publisher.
// Dispatch никогда не блокирует: при переполненной очереди событие отбрасывается
// с предупреждением в логе. Доставка best-effort.
type Dispatcher struct {
	publisher   Publisher
	queue       chan Event
	logger      Logger
	metrics     *metrics.Metrics
	serviceName string

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher создаёт диспетчер и запускает воркер
func NewDispatcher(publisher Publisher, queueSize int, logger Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &Dispatcher{
		publisher: publisher,
		queue:     make(chan Event, queueSize),
		logger:    logger,
		done:      make(chan struct{}),
	}
	go d.run()
	return d
}

// WithMetrics включает счётчик отправленных событий
func (d *Dispatcher) WithMetrics(m *metrics.Metrics, serviceName string) *Dispatcher {
	d.metrics = m
	d.serviceName = serviceName
	return d
}

// Dispatch ставит событие в очередь
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Events: dispatcher closed, dropping %s id=%s", event.Type, event.ID)
		d.observe(event.Type, "dropped")
		return
	}

	select {
	case d.queue <- event:
	default:
		d.logger.Warn("Events: queue is full, dropping %s for booking id=%d", event.Type, event.Booking.ID)
		d.observe(event.Type, "dropped")
	}
}

// Close перестаёт принимать события и ждёт отправки очереди или отмены ctx
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for event := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := d.publisher.Publish(ctx, event)
		cancel()

		if err != nil {
			d.logger.Error("Events: failed to publish %s for booking id=%d: %v", event.Type, event.Booking.ID, err)
			d.observe(event.Type, "error")
			continue
		}
		d.observe(event.Type, "ok")
	}
}

func (d *Dispatcher) observe(eventType Type, result string) {
	if d.metrics == nil {
		return
	}
	d.metrics.EventsPublished.WithLabelValues(d.serviceName, string(eventType), result).Inc()
}
