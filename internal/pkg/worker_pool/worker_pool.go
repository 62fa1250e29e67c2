package worker_pool

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

var ErrPoolClosed = errors.New("worker pool is closed; cannot accept new tasks")

type TaskFunc func(ctx context.Context) (any, error)

// TaskResult holds the outcome of a finished task (its ID, result value, or error).
type TaskResult struct {
	ID     string
	Result any
	Err    error
}

type workItem struct {
	id string
	fn TaskFunc
}

// WorkerPool runs submitted tasks on a fixed number of goroutines.
// Results arrive on ResultsCh, which is closed once Close was called and every worker has drained.
type WorkerPool struct {
	tasksCh     chan workItem
	ResultsCh   chan TaskResult
	ctx         context.Context
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
	closeOnce   sync.Once
	closed      chan struct{}
	stopOnError bool
	log         *log.Logger
}

// NewWorkerPool initializes the worker pool with the given number of workers.
// If stopOnError is true, the pool will cancel on the first task error.
func NewWorkerPool(parentCtx context.Context, numWorkers int, stopOnError bool, logger *log.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(parentCtx)
	wp := &WorkerPool{
		tasksCh:     make(chan workItem),
		ResultsCh:   make(chan TaskResult),
		ctx:         ctx,
		cancelFunc:  cancel,
		closed:      make(chan struct{}),
		stopOnError: stopOnError,
		log:         logger,
	}

	wp.wg.Add(numWorkers)
	for i := 1; i <= numWorkers; i++ {
		go wp.worker(i)
	}
	logger.Debugf("worker pool started with %d workers", numWorkers)

	go func() {
		wp.wg.Wait()
		close(wp.ResultsCh)
		cancel()
		logger.Debug("worker pool drained, results channel closed")
	}()
	return wp
}

// Submit adds a new task to the pool. It blocks until a worker accepts it,
// and fails when the pool is closed or canceled.
func (wp *WorkerPool) Submit(id string, taskFn TaskFunc) error {
	select {
	case <-wp.closed:
		return ErrPoolClosed
	case <-wp.ctx.Done():
		wp.log.Warnf("submit rejected for task %s: pool is shutting down", id)
		return wp.ctx.Err()
	default:
	}

	select {
	case wp.tasksCh <- workItem{id: id, fn: taskFn}:
		return nil
	case <-wp.ctx.Done():
		wp.log.Warnf("submit failed for task %s: pool was canceled", id)
		return wp.ctx.Err()
	}
}

// Close signals that no more tasks will be submitted. Safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.closed)
		close(wp.tasksCh)
	})
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			wp.log.Debugf("worker %d exiting due to cancellation", workerID)
			return
		case task, ok := <-wp.tasksCh:
			if !ok {
				return
			}
			result, err := task.fn(wp.ctx)
			if err != nil {
				wp.log.WithError(err).Debugf("task %s failed", task.id)
				if wp.stopOnError {
					wp.log.Warnf("stopOnError active - canceling pool due to error in task %s", task.id)
					wp.cancelFunc()
				}
			}

			select {
			case wp.ResultsCh <- TaskResult{ID: task.id, Result: result, Err: err}:
			case <-wp.ctx.Done():
				return
			}
		}
	}
}

// Stop cancels the pool. In-flight tasks see a canceled context.
func (wp *WorkerPool) Stop() {
	wp.log.Debug("manual stop invoked: canceling worker pool")
	wp.cancelFunc()
}
