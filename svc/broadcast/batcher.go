package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lottomart/notifier/pkg/logger"
)

// Sleeper waits between chunks. It returns early with ctx.Err() when ctx
// is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerSleeper sleeps on a real timer.
var TimerSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
})

// ChunkFunc processes one chunk. index is 0-based.
type ChunkFunc func(ctx context.Context, chunk []string, index, total int) error

// Batcher drives chunked, sequential processing with a fixed pause between
// chunks.
type Batcher struct {
	size    int
	delay   time.Duration
	sleeper Sleeper
	logger  *slog.Logger
}

func NewBatcher(size int, delay time.Duration, sleeper Sleeper, log *slog.Logger) *Batcher {
	if size <= 0 {
		size = DefaultConfig().BatchSize
	}
	if sleeper == nil {
		sleeper = TimerSleeper
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Batcher{size: size, delay: delay, sleeper: sleeper, logger: log}
}

// Chunks splits ids into ordered slices of at most size elements.
func Chunks(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end:end])
	}
	return chunks
}

// ForEach runs fn on every chunk in order. A chunk error or panic is logged
// and collected; later chunks still run. Cancellation stops the loop before
// the next chunk and its error is appended last.
func (b *Batcher) ForEach(ctx context.Context, ids []string, fn ChunkFunc) []error {
	chunks := Chunks(ids, b.size)
	total := len(chunks)

	var errs []error
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}

		if err := b.run(ctx, fn, chunk, i, total); err != nil {
			b.logger.LogAttrs(ctx, slog.LevelError, "chunk processing failed",
				logger.ErrorCode("batch.failed"),
				logger.Batch(i, total),
				logger.Count("chunk_size", len(chunk)),
				logger.Error(err),
			)
			errs = append(errs, err)
		}

		if i < total-1 {
			if err := b.sleeper.Sleep(ctx, b.delay); err != nil {
				return append(errs, err)
			}
		}
	}
	return errs
}

func (b *Batcher) run(ctx context.Context, fn ChunkFunc, chunk []string, index, total int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chunk %d panicked: %v", index, r)
		}
	}()
	return fn(ctx, chunk, index, total)
}
