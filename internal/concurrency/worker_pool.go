package concurrency

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"kleinimg/internal/common"
)

// NewWorkerPool creates a new worker pool instance. maxWorkers <= 0 uses
// OptimalWorkerCount.
func NewWorkerPool[T, R any](maxWorkers int, processor ProcessorFunc[T, R]) *WorkerPool[T, R] {
	if maxWorkers <= 0 {
		maxWorkers = OptimalWorkerCount()
	}
	return &WorkerPool[T, R]{
		maxWorkers: maxWorkers,
		processor:  processor,
	}
}

// OnResult registers a callback invoked as results stream in
func (wp *WorkerPool[T, R]) OnResult(fn ResultFunc[R]) *WorkerPool[T, R] {
	wp.onResult = fn
	return wp
}

// OptimalWorkerCount is NumCPU capped at common.MaxConcurrencyLimit
func OptimalWorkerCount() int {
	maxConcurrency := runtime.NumCPU()
	if maxConcurrency > common.MaxConcurrencyLimit {
		maxConcurrency = common.MaxConcurrencyLimit
	}
	return maxConcurrency
}

// Run processes jobs concurrently and returns results in job order.
// Once ctx is cancelled, workers stop picking up new jobs; those jobs have
// no result.
func (wp *WorkerPool[T, R]) Run(ctx context.Context, jobs []Job[T]) []R {
	total := len(jobs)
	if total == 0 {
		return nil
	}

	type work struct {
		index int
		job   Job[T]
	}

	workChan := make(chan work, total)
	resultChan := make(chan indexedResult[R], total)

	for i, job := range jobs {
		workChan <- work{index: i, job: job}
	}
	close(workChan)

	var wg sync.WaitGroup
	for i := 0; i < wp.maxWorkers && i < total; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for w := range workChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				resultChan <- indexedResult[R]{index: w.index, result: wp.processor(ctx, workerID, w.job)}
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var collected []indexedResult[R]
	for r := range resultChan {
		collected = append(collected, r)
		if wp.onResult != nil {
			wp.onResult(len(collected), total, r.result)
		}
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })
	results := make([]R, len(collected))
	for i, r := range collected {
		results[i] = r.result
	}
	return results
}
