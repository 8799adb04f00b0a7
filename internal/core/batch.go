package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/KhanhD1nh/compare-gcn/constants"
)

// Orchestrator fans FileTasks out over a fixed pool of workers and collects
// exactly one Result per task, restored to submission order.
type Orchestrator struct {
	proc     *Processor
	logger   *slog.Logger
	workers  int
	useCache bool
	onResult func(Result)
}

type Option func(*Orchestrator)

// WithWorkers sets the pool size.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithCache enables the cache short-circuit for this run.
func WithCache(enabled bool) Option {
	return func(o *Orchestrator) {
		o.useCache = enabled
	}
}

// WithResultHook registers a callback invoked as each result arrives, in
// completion order. Used for progress reporting; must be safe to call from
// the collector goroutine.
func WithResultHook(fn func(Result)) Option {
	return func(o *Orchestrator) {
		o.onResult = fn
	}
}

func NewOrchestrator(proc *Processor, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		proc:    proc,
		logger:  logger,
		workers: 5,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunBatch processes all tasks and returns one result per task, sorted by
// sequence index. Once submitted, every task runs to a terminal state: task
// faults never abort siblings, and a worker panic is folded into an error
// result so progress still reaches 100%.
func (o *Orchestrator) RunBatch(ctx context.Context, tasks []FileTask) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan FileTask)
	resCh := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for task := range taskCh {
				res := o.processSafe(ctx, task)
				o.logCompletion(task, res)
				resCh <- res
			}
		}(i + 1)
	}

	// Drain concurrently so the result hook fires as tasks finish, not
	// after the whole batch joins.
	results := make([]Result, 0, len(tasks))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for res := range resCh {
			if o.onResult != nil {
				o.onResult(res)
			}
			results = append(results, res)
		}
	}()

	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)
	wg.Wait()
	close(resCh)
	<-collected

	// Completion order is arbitrary; the contract is submission order.
	sort.Slice(results, func(i, j int) bool {
		return results[i].SequenceIndex < results[j].SequenceIndex
	})
	return results
}

// processSafe isolates one task: a panic escaping the processor is reported
// once at batch level and converted into an error result so the batch still
// terminates with a full result list.
func (o *Orchestrator) processSafe(ctx context.Context, task FileTask) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("unexpected task fault",
				"file", task.Path,
				"index", task.SequenceIndex,
				"panic", r,
			)
			res = Result{
				SequenceIndex: task.SequenceIndex,
				FileName:      task.Path,
				FilePath:      task.Path,
				Verdict:       constants.VerdictNA,
				Status:        constants.StatusError,
				ErrorDetail:   fmt.Sprintf("unexpected fault: %v", r),
			}
		}
	}()
	return o.proc.Process(ctx, task, o.useCache)
}

func (o *Orchestrator) logCompletion(task FileTask, res Result) {
	attrs := []any{
		"worker", fmt.Sprintf("W%d", task.WorkerLabel),
		"index", res.SequenceIndex,
		"file", res.FileName,
		"status", string(res.Status),
		"elapsed_s", fmt.Sprintf("%.2f", res.ElapsedSeconds),
	}
	switch res.Status {
	case constants.StatusSuccess, constants.StatusCached:
		attrs = append(attrs,
			"filename_gcn", res.FilenameID,
			"predicted_gcn", res.RecognizedID,
			"comparison", string(res.Verdict),
		)
		o.logger.Info("task done", attrs...)
	case constants.StatusSkip:
		attrs = append(attrs, "reason", res.ErrorDetail)
		o.logger.Warn("task skipped", attrs...)
	default:
		attrs = append(attrs, "error", res.ErrorDetail)
		o.logger.Error("task failed", attrs...)
	}
}
