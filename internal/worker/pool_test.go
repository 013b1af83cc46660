package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countingJob struct {
	counter *atomic.Int64
	fail    bool
}

type countingResult struct {
	err error
}

func (r countingResult) GetError() error { return r.err }

func (j countingJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	if j.fail {
		return countingResult{err: errors.New("job failed")}
	}
	return countingResult{}
}

func TestPool_RunsAllJobs(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	var counter atomic.Int64
	for i := 0; i < 20; i++ {
		pool.Submit(countingJob{counter: &counter})
	}

	results := pool.Wait()

	if counter.Load() != 20 {
		t.Errorf("Expected 20 jobs executed, got %d", counter.Load())
	}
	if len(results) != 20 {
		t.Errorf("Expected 20 results, got %d", len(results))
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(countingJob{counter: &counter})
	pool.Submit(countingJob{counter: &counter, fail: true})

	results := pool.Wait()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("Expected 1 failed result, got %d", failures)
	}
}

func TestPool_ZeroWorkersClampedToOne(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(countingJob{counter: &counter})

	results := pool.Wait()

	if len(results) != 1 {
		t.Errorf("Expected the single-worker fallback to run the job, got %d results", len(results))
	}
}

func TestPool_ShutdownStopsAcceptingWork(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	var counter atomic.Int64
	pool.Submit(countingJob{counter: &counter}) // Dropped, not queued

	if counter.Load() != 0 {
		t.Errorf("Expected no jobs after shutdown, got %d", counter.Load())
	}
}
