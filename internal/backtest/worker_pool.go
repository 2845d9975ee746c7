package backtest

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool evaluates window lengths in parallel over a shared, read-only
// price slice.
type WorkerPool struct {
	workerCount int
	amount      float64
	prices      []float64
	jobQueue    chan windowJob
	resultQueue chan windowJobResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// windowJob is a single window length, tagged with its position in the report
type windowJob struct {
	index int
	years int
}

type windowJobResult struct {
	index  int
	result YearResult
}

// NewWorkerPool creates a pool sized for jobBufferSize jobs
func NewWorkerPool(ctx context.Context, workerCount, jobBufferSize int, amount float64, prices []float64) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workerCount: workerCount,
		amount:      amount,
		prices:      prices,
		jobQueue:    make(chan windowJob, jobBufferSize),
		resultQueue: make(chan windowJobResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop closes the job queue and waits for in-flight jobs
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// SubmitJob queues one window length
func (wp *WorkerPool) SubmitJob(job windowJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results returns the result channel. It is closed by Stop.
func (wp *WorkerPool) Results() <-chan windowJobResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := windowJobResult{
				index:  job.index,
				result: evaluateYear(wp.amount, wp.prices, job.years),
			}

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

// evaluateParallel returns results in the order of cfg.Years regardless of
// completion order. Slots left empty by cancellation are dropped.
func evaluateParallel(ctx context.Context, cfg Config, prices []float64) []YearResult {
	pool := NewWorkerPool(ctx, cfg.Workers, len(cfg.Years), cfg.Amount, prices)
	pool.Start()

	for i, years := range cfg.Years {
		if err := pool.SubmitJob(windowJob{index: i, years: years}); err != nil {
			break
		}
	}
	pool.Stop()

	slots := make([]*YearResult, len(cfg.Years))
	for res := range pool.Results() {
		r := res.result
		slots[res.index] = &r
	}

	results := make([]YearResult, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results
}
