package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/pkg/metrics"
)

func TestFIFO_MutualExclusion(t *testing.T) {
	g := NewFIFO(0)

	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := g.Acquire(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestFIFO_ArrivalOrder(t *testing.T) {
	g := NewFIFO(0)

	release, err := g.Acquire(context.Background())
	require.NoError(t, err)

	var mu sync.Mutex
	order := make([]int, 0, 5)
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := g.Acquire(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			r()
		}(i)
		// даём горутине встать в очередь до запуска следующей
		time.Sleep(20 * time.Millisecond)
	}

	release()
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestFIFO_Timeout(t *testing.T) {
	g := NewFIFO(20 * time.Millisecond)

	release, err := g.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	_, err = g.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFIFO_Cancelled(t *testing.T) {
	g := NewFIFO(time.Minute)

	release, err := g.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Acquire(ctx)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestFIFO_ReleaseIsIdempotent(t *testing.T) {
	g := NewFIFO(20 * time.Millisecond)

	release, err := g.Acquire(context.Background())
	require.NoError(t, err)
	release()
	release()

	// повторный release не должен открыть гейт второй раз
	r1, err := g.Acquire(context.Background())
	require.NoError(t, err)
	defer r1()

	_, err = g.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestInstrumented_RecordsMetrics(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), "test")
	g := NewInstrumented(NewFIFO(10*time.Millisecond), m, "test")

	release, err := g.Acquire(context.Background())
	require.NoError(t, err)

	_, err = g.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)

	release()
	release()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateTimeouts.WithLabelValues("test")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GateWaitDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GateHoldDuration))
}
