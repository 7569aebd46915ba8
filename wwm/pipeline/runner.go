package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ZanzyTHEbar/wholeword/wwm/collate"
	"github.com/ZanzyTHEbar/wholeword/wwm/config"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// Runner drives one Collator over many batches with bounded concurrency.
// Batches share no state and are collated independently; each Collate call
// draws its own random sub-source. With a seeded collator and maxWorkers of
// 1 the run is fully reproducible; with more workers the sub-source
// assignment depends on scheduling order.
type Runner struct {
	collator   *collate.Collator
	maxWorkers int
}

// RunStats tracks batch processing outcomes.
type RunStats struct {
	BatchesProcessed int64
	ExamplesSeen     int64
	ErrorsFound      int64
	StartTime        time.Time
	EndTime          time.Time
}

// NewRunner creates a runner with optimal worker count based on available
// CPU cores when maxWorkers is not positive.
func NewRunner(collator *collate.Collator, maxWorkers int) *Runner {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &Runner{
		collator:   collator,
		maxWorkers: maxWorkers,
	}
}

// NewRunnerFromConfig creates a runner sized by the loaded application
// configuration.
func NewRunnerFromConfig(collator *collate.Collator, cfg config.PipelineConfig) *Runner {
	return NewRunner(collator, cfg.MaxWorkers)
}

// Run collates every batch of examples concurrently, preserving input order
// in the returned slice. Collation errors are collected by the pool and
// returned after all submitted batches finish.
func (r *Runner) Run(ctx context.Context, batches [][]collate.Example) ([]collate.Batch, error) {
	stats := &RunStats{StartTime: time.Now()}
	results := make([]collate.Batch, len(batches))

	p := pool.New().WithMaxGoroutines(r.maxWorkers).WithContext(ctx)
	for i, examples := range batches {
		batchID := uuid.New()
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := r.collator.Collate(examples)
			if err != nil {
				atomic.AddInt64(&stats.ErrorsFound, 1)
				slog.Error("Batch collation failed",
					"batch_id", batchID,
					"examples", len(examples),
					"error", err)
				return err
			}
			results[i] = out
			atomic.AddInt64(&stats.BatchesProcessed, 1)
			atomic.AddInt64(&stats.ExamplesSeen, int64(len(examples)))
			slog.Debug("Batch collated",
				"batch_id", batchID,
				"examples", len(examples))
			return nil
		})
	}

	err := p.Wait()
	stats.EndTime = time.Now()
	r.logRunStats(stats)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// logRunStats reports run metrics
func (r *Runner) logRunStats(stats *RunStats) {
	duration := stats.EndTime.Sub(stats.StartTime)
	slog.Info("Collation run completed",
		"batches", atomic.LoadInt64(&stats.BatchesProcessed),
		"examples", atomic.LoadInt64(&stats.ExamplesSeen),
		"errors", atomic.LoadInt64(&stats.ErrorsFound),
		"duration", duration,
		"workers", r.maxWorkers)
}
