package workspace

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/gnana997/propdoc/pkg/docs"
	"github.com/gnana997/propdoc/pkg/util"
)

// ErrPoolStopped is returned by Submit once the pool no longer accepts jobs.
var ErrPoolStopped = errors.New("worker pool stopped")

// DocumentFunc documents one file.
type DocumentFunc func(path string) ([]*docs.Documentation, error)

// FileJob represents a file to be processed by the worker pool.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileResult contains the documentation produced for a file.
type FileResult struct {
	FilePath string
	Docs     []*docs.Documentation
	JobID    int
}

// WorkerPool runs one resolution request per file on a fixed set of
// goroutines.
//
// **Architecture:**
//   - Buffered channels for job distribution
//   - Separate result and error channels
//   - Context cancellation stops workers between files
//
// **Usage:**
//
//	pool := NewWorkerPool(ctx, numWorkers, gen.DocumentFile, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	go func() {
//	    for i, file := range files {
//	        if pool.Submit(FileJob{FilePath: file, JobID: i}) != nil {
//	            break
//	        }
//	    }
//	    pool.FinishSubmitting()
//	}()
//
//	for i := 0; i < len(files); i++ {
//	    select {
//	    case result := <-pool.Results():
//	    case fileErr := <-pool.Errors():
//	    }
//	}
//
// Only the submitting goroutine may call FinishSubmitting.
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan FileResult
	errors     chan FileError
	wg         sync.WaitGroup
	document   DocumentFunc
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a worker pool. numWorkers 0 selects
// util.GetOptimalPoolSize(), which matches the parser pool size so workers
// never wait on a parser.
func NewWorkerPool(ctx context.Context, numWorkers int, document DocumentFunc, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		document:   document,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the worker goroutines. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("WorkerPool already started")
		return
	}

	wp.logger.Debug("Starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	wp.logger.Debug("Documenting file", "worker_id", workerID, "file", job.FilePath)

	result, err := wp.document(job.FilePath)
	if err != nil {
		wp.jobsFailed.Add(1)
		select {
		case wp.errors <- FileError{FilePath: job.FilePath, Error: err}:
		case <-wp.ctx.Done():
		}
		return
	}

	wp.jobsProcessed.Add(1)
	select {
	case wp.results <- FileResult{FilePath: job.FilePath, Docs: result, JobID: job.JobID}:
	case <-wp.ctx.Done():
	}
}

// Submit enqueues a job. It blocks while the queue is full and fails once
// the pool is stopped or its context is cancelled.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() || wp.jobsClosed.Load() {
		return ErrPoolStopped
	}

	select {
	case <-wp.ctx.Done():
		return errors.Wrap(wp.ctx.Err(), "submit job")
	case wp.jobs <- job:
		wp.jobsSubmitted.Add(1)
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the jobs channel so workers exit once it is
// drained. Idempotent.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
		wp.logger.Debug("Jobs channel closed", "total_submitted", wp.jobsSubmitted.Load())
	}
}

// Stop cancels outstanding work, waits for the workers and closes the
// result and error channels. Idempotent.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	wp.cancel()
	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)

	wp.logger.Debug("Worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
		ResultsQueued: len(wp.results),
		ErrorsQueued:  len(wp.errors),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int // Current jobs in queue
	ResultsQueued int // Results waiting to be consumed
	ErrorsQueued  int // Errors waiting to be consumed
}
