// Package telemetry provides the OpenTelemetry tracer of a run and the span
// processor that forwards module spans and their build output to a renderer.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultSizeLimit is the buffered output size that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the longest time output stays buffered.
	DefaultTimeLimit = 50 * time.Millisecond
)

var errBatcherClosed = errors.New("output batcher is closed")

// BatchProcessor coalesces small writes of build output. Reaching the size
// limit flushes complete lines only, so renderers rarely see a line split in
// two; the partial tail waits for the time limit, counted from its first
// unflushed write, or for Close. It is safe for concurrent use.
type BatchProcessor struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	timer  *time.Timer
	closed bool
}

// NewBatchProcessor returns a BatchProcessor handing flushed data to onFlush.
// Non-positive limits select the defaults.
func NewBatchProcessor(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *BatchProcessor {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	return &BatchProcessor{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
	}
}

// Write buffers p.
func (bp *BatchProcessor) Write(p []byte) (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return 0, errBatcherClosed
	}

	n, _ := bp.buffer.Write(p)
	if bp.buffer.Len() >= bp.sizeLimit {
		bp.flushLinesLocked()
	}
	if bp.buffer.Len() > 0 && bp.timer == nil {
		bp.timer = time.AfterFunc(bp.timeLimit, bp.Flush)
	}
	return n, nil
}

// flushLinesLocked flushes through the last newline, or everything when the
// buffer holds a single oversized line.
func (bp *BatchProcessor) flushLinesLocked() {
	end := bytes.LastIndexByte(bp.buffer.Bytes(), '\n')
	if end < 0 {
		bp.flushLocked()
		return
	}
	data := bytes.Clone(bp.buffer.Next(end + 1))
	if bp.timer != nil {
		bp.timer.Stop()
		bp.timer = nil
	}
	if bp.onFlush != nil {
		bp.onFlush(data)
	}
}

// Flush hands any buffered data to the callback.
func (bp *BatchProcessor) Flush() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		return
	}
	bp.flushLocked()
}

// Close flushes what is left and rejects further writes.
func (bp *BatchProcessor) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.flushLocked()
	bp.closed = true
	return nil
}

// flushLocked must be called with mu held. The callback runs under the lock to keep output ordered.
func (bp *BatchProcessor) flushLocked() {
	if bp.timer != nil {
		bp.timer.Stop()
		bp.timer = nil
	}
	if bp.buffer.Len() == 0 {
		return
	}
	data := bytes.Clone(bp.buffer.Bytes())
	bp.buffer.Reset()
	if bp.onFlush != nil {
		bp.onFlush(data)
	}
}
