package concurrency

import "context"

// Job is one unit of work with a stable ID
type Job[T any] struct {
	ID    string
	Input T
}

// ProcessorFunc processes a single job on the given worker
type ProcessorFunc[T, R any] func(ctx context.Context, workerID int, job Job[T]) R

// ResultFunc is called from the collecting goroutine as each result arrives
type ResultFunc[R any] func(completed, total int, result R)

// WorkerPool represents a pool of workers for concurrent processing
type WorkerPool[T, R any] struct {
	maxWorkers int
	processor  ProcessorFunc[T, R]
	onResult   ResultFunc[R]
}

type indexedResult[R any] struct {
	index  int
	result R
}
