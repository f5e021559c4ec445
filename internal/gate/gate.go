package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrTimeout возвращается, когда гейт не удалось захватить за отведённое время
	ErrTimeout = errors.New("gate: acquire timed out")

	// ErrCancelled возвращается, когда контекст вызывающего отменён до захвата
	ErrCancelled = errors.New("gate: acquire cancelled")
)

// Gate сериализует критическую секцию "проверить и записать".
// Acquire блокируется, пока все ранее вставшие в очередь не вызовут release.
// release нужно вызвать ровно один раз; повторные вызовы игнорируются.
type Gate interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// FIFO глобальный процессный гейт. Ожидающие проходят в порядке прихода.
// Работает только в рамках одного инстанса сервиса.
type FIFO struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewFIFO создаёт гейт. timeout = 0 означает ожидание без ограничения
// (остаётся только отмена через контекст).
func NewFIFO(timeout time.Duration) *FIFO {
	return &FIFO{
		sem:     semaphore.NewWeighted(1),
		timeout: timeout,
	}
}

func (g *FIFO) Acquire(ctx context.Context) (func(), error) {
	waitCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.sem.Acquire(waitCtx, 1); err != nil {
		// Отмена вызывающим важнее собственного таймаута
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		}
		return nil, fmt.Errorf("%w after %s", ErrTimeout, g.timeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() { g.sem.Release(1) })
	}, nil
}
