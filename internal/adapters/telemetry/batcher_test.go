package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu      sync.Mutex
	data    []byte
	flushes int
}

func (c *collector) flush(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append(c.data, p...)
	c.flushes++
}

func (c *collector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.data)
}

func TestBatchProcessor_FlushOnSize(t *testing.T) {
	c := &collector{}
	bp := telemetry.NewBatchProcessor(5, time.Hour, c.flush)
	defer func() { _ = bp.Close() }()

	_, err := bp.Write([]byte("123"))
	require.NoError(t, err)
	assert.Empty(t, c.String())

	_, err = bp.Write([]byte("456"))
	require.NoError(t, err)
	assert.Equal(t, "123456", c.String())
}

func TestBatchProcessor_SizeFlushKeepsPartialLine(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &collector{}
		bp := telemetry.NewBatchProcessor(16, 50*time.Millisecond, c.flush)
		defer func() { _ = bp.Close() }()

		_, err := bp.Write([]byte("[INFO] core\n[INFO] a"))
		require.NoError(t, err)
		assert.Equal(t, "[INFO] core\n", c.String())

		_, err = bp.Write([]byte("pp\n"))
		require.NoError(t, err)
		assert.Equal(t, "[INFO] core\n", c.String())

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, "[INFO] core\n[INFO] app\n", c.String())
		assert.Equal(t, 2, c.flushes)
	})
}

func TestBatchProcessor_FlushOnTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &collector{}
		bp := telemetry.NewBatchProcessor(100, 50*time.Millisecond, c.flush)
		defer func() { _ = bp.Close() }()

		_, err := bp.Write([]byte("[INFO] "))
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
		_, err = bp.Write([]byte("compiling"))
		require.NoError(t, err)
		synctest.Wait()
		assert.Empty(t, c.String())

		time.Sleep(30 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, "[INFO] compiling", c.String())
		assert.Equal(t, 1, c.flushes, "the deadline counts from the first unflushed write")
	})
}

func TestBatchProcessor_CloseFlushes(t *testing.T) {
	c := &collector{}
	bp := telemetry.NewBatchProcessor(100, time.Hour, c.flush)

	_, err := bp.Write([]byte("pending"))
	require.NoError(t, err)
	bp.Flush()
	_, err = bp.Write([]byte(" tail"))
	require.NoError(t, err)

	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())
	assert.Equal(t, "pending tail", c.String())

	_, err = bp.Write([]byte("late"))
	require.Error(t, err)
}

func TestBatchProcessor_ConcurrentWriters(t *testing.T) {
	c := &collector{}
	bp := telemetry.NewBatchProcessor(20, time.Millisecond, c.flush)

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			for j := range 100 {
				_, _ = bp.Write([]byte("a"))
				if j%10 == 0 {
					bp.Flush()
				}
			}
		})
	}
	wg.Wait()
	require.NoError(t, bp.Close())

	assert.Len(t, c.String(), 1000)
}
