// Package worker provides a generic worker pool for concurrent task processing.
package worker

import (
	"sync"
)

// Job represents a unit of work with an index for ordering.
type Job[T any] struct {
	Index int
	Data  T
}

// Result represents the outcome of processing a Job.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// ProcessFunc processes a job and returns a result.
type ProcessFunc[I, O any] func(job Job[I]) (O, error)

// ProgressFunc is called after each job completes.
type ProgressFunc func(completed, total int)

// Process runs items through workers goroutines and returns ordered results.
// The first error aborts the return value, but all started jobs run to
// completion. Used for CPU-bound fan-out such as encoding finished chunks.
func Process[I, O any](items []I, workers int, process ProcessFunc[I, O], onProgress ProgressFunc) ([]O, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobChan := make(chan Job[I], len(items))
	resultChan := make(chan Result[O], len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				value, err := process(job)
				resultChan <- Result[O]{Index: job.Index, Value: value, Err: err}
			}
		}()
	}

	for i, item := range items {
		jobChan <- Job[I]{Index: i, Data: item}
	}
	close(jobChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	output := make([]O, len(items))
	var firstErr error
	completed := 0
	for result := range resultChan {
		if result.Index >= 0 && result.Index < len(output) {
			output[result.Index] = result.Value
		}
		if result.Err != nil && firstErr == nil {
			firstErr = result.Err
		}
		completed++
		if onProgress != nil {
			onProgress(completed, len(items))
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return output, nil
}
