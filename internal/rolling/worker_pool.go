package rolling

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
)

// WorkerPool manages parallel walk-forward runs. Every job carries its own
// model factory and reads its split through copying accessors only, so the
// numbers a run produces do not depend on scheduling or worker count.
type WorkerPool struct {
	workerCount int
	jobQueue    chan Job
	resultQueue chan JobResult
	wg          sync.WaitGroup
	ctx         context.Context
}

// Job is a single (asset, model) evaluation task.
type Job struct {
	ID    int
	Asset string
	Split *dataset.Split
	New   models.Factory
	Opts  Options
}

// JobResult is the outcome of one job.
type JobResult struct {
	ID       int
	Asset    string
	Model    string
	Run      *RunResult
	Duration time.Duration
	Err      error
}

// NewWorkerPool creates a worker pool bound to ctx. Cancelling ctx aborts
// all in-flight runs.
func NewWorkerPool(ctx context.Context, workerCount, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan Job, jobBufferSize),
		resultQueue: make(chan JobResult, jobBufferSize),
		ctx:         ctx,
	}
}

// Start starts the worker pool
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitJob submits an evaluation job to the pool
func (wp *WorkerPool) SubmitJob(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// GetResults returns the result channel for collecting completed jobs
func (wp *WorkerPool) GetResults() <-chan JobResult {
	return wp.resultQueue
}

// worker processes evaluation jobs
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := wp.processJob(job)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob runs a single walk-forward evaluation
func (wp *WorkerPool) processJob(job Job) JobResult {
	startTime := time.Now()

	model := job.New()
	run, err := Run(wp.ctx, job.Split, model, job.Opts)

	return JobResult{
		ID:       job.ID,
		Asset:    job.Asset,
		Model:    model.Name(),
		Run:      run,
		Duration: time.Since(startTime),
		Err:      err,
	}
}

// RunBatch executes all jobs across the pool and returns results ordered by
// job ID, so batch output is identical no matter how many workers ran it.
// A cancelled context aborts the whole batch; individual run failures are
// returned in their result slots.
func RunBatch(ctx context.Context, jobs []Job, workerCount int) ([]JobResult, error) {
	pool := NewWorkerPool(ctx, workerCount, len(jobs))
	pool.Start()

	go func() {
		defer pool.Stop()
		for _, job := range jobs {
			if err := pool.SubmitJob(job); err != nil {
				return
			}
		}
	}()

	results := make([]JobResult, 0, len(jobs))
	for result := range pool.GetResults() {
		results = append(results, result)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(results) != len(jobs) {
		return nil, fmt.Errorf("batch: %d of %d jobs completed", len(results), len(jobs))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}
