package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"StockScout/internal/domain/models"
	domrepo "StockScout/internal/domain/repository"
	xlogger "StockScout/pkg/logger"
)

// ErrScreeningBusy is returned when a task is already running and the caller
// did not force-start.
var ErrScreeningBusy = errors.New("a screening task is already running")

const defaultBatchSize = 4

// ScreeningEngine owns the single "current task" token and schedules
// classification batches. Batches run sequentially; items within a batch run
// fully concurrently, so batch size is the admission control for outstanding
// oracle calls. Cancellation is cooperative: the token is compared at every
// batch boundary, and results of a superseded run are discarded, never
// merged and never re-emitted.
type ScreeningEngine struct {
	classifier  *StockClassifier
	prefilter   *PreFilter
	broadcaster *ProgressBroadcaster
	aggregator  ResultAggregator
	metrics     domrepo.Metrics
	logger      *xlogger.Logger
	publisher   domrepo.MatchPublisher // optional
	archive     domrepo.RunArchive     // optional
	batchSize   int

	// token holds the live task id. StartScreening bumps it before the old
	// scheduler's next poll, which is the entire supersession protocol.
	token atomic.Int64

	mu   sync.Mutex
	task *models.ScreeningTask
}

// EngineOption configures ScreeningEngine.
type EngineOption func(*ScreeningEngine)

// WithBatchSize bounds concurrent oracle calls per batch.
func WithBatchSize(n int) EngineOption {
	return func(e *ScreeningEngine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithMatchPublisher enables publishing matches of completed runs downstream.
func WithMatchPublisher(p domrepo.MatchPublisher) EngineOption {
	return func(e *ScreeningEngine) { e.publisher = p }
}

// WithRunArchive enables persisting terminal runs.
func WithRunArchive(a domrepo.RunArchive) EngineOption {
	return func(e *ScreeningEngine) { e.archive = a }
}

func NewScreeningEngine(classifier *StockClassifier, prefilter *PreFilter, metrics domrepo.Metrics, logger *xlogger.Logger, opts ...EngineOption) *ScreeningEngine {
	e := &ScreeningEngine{
		classifier:  classifier,
		prefilter:   prefilter,
		broadcaster: NewProgressBroadcaster(),
		metrics:     metrics,
		logger:      logger,
		batchSize:   defaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CanStart reports whether StartScreening would be accepted without force.
func (e *ScreeningEngine) CanStart() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.task == nil || e.task.Status != models.TaskRunning
}

// CurrentTask returns a copy of the current task state, or nil before the
// first run.
func (e *ScreeningEngine) CurrentTask() *models.ScreeningTask {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.task == nil {
		return nil
	}
	return copyTask(e.task)
}

// Subscribe attaches a progress observer; see ProgressBroadcaster for
// delivery semantics.
func (e *ScreeningEngine) Subscribe() (<-chan models.ProgressSnapshot, func()) {
	return e.broadcaster.Subscribe()
}

// StartScreening triggers a new run. Synchronous trigger, asynchronous
// completion: the returned task is the initial snapshot. With force=true a
// running task is superseded immediately; without it ErrScreeningBusy is
// returned.
func (e *ScreeningEngine) StartScreening(candidates []models.CandidateStock, filterText string, force bool) (*models.ScreeningTask, error) {
	e.mu.Lock()
	if !force && e.task != nil && e.task.Status == models.TaskRunning {
		e.mu.Unlock()
		return nil, ErrScreeningBusy
	}

	id := e.token.Add(1) // supersedes any prior run before its next poll
	filtered := e.prefilter.Apply(candidates, filterText)
	task := &models.ScreeningTask{
		ID:             id,
		FilterCriteria: filterText,
		Status:         models.TaskRunning,
		TotalCount:     len(filtered),
		CreatedAt:      time.Now(),
	}
	e.task = task
	snap := snapshotOf(task)
	e.mu.Unlock()

	e.metrics.RecordProgress(0, len(filtered))
	e.broadcaster.Publish(snap)
	e.logger.Info("screening started",
		xlogger.Int64("task_id", id),
		xlogger.String("criteria", filterText),
		xlogger.Int("candidates", len(candidates)),
		xlogger.Int("after_prefilter", len(filtered)))

	go e.run(id, filtered, filterText)
	return copyTask(task), nil
}

// Shutdown supersedes any running task and closes the progress stream.
func (e *ScreeningEngine) Shutdown() {
	e.token.Add(1)
	e.broadcaster.Close()
}

func (e *ScreeningEngine) run(id int64, candidates []models.CandidateStock, filterText string) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(id, fmt.Sprintf("panic: %v", r))
		}
	}()

	ctx := context.Background()
	for start := 0; start < len(candidates); start += e.batchSize {
		if e.token.Load() != id {
			e.supersede(id)
			return
		}

		end := start + e.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		results := make([]*models.ClassificationResult, len(batch))
		var itemPanic atomic.Value
		var wg sync.WaitGroup
		for i := range batch {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						itemPanic.Store(fmt.Sprintf("classify %s: %v", batch[i].Code, r))
					}
				}()
				res, err := e.classifier.Classify(ctx, &batch[i], filterText)
				if err != nil {
					// contained per-candidate failure; never aborts the batch
					e.logger.Debug("candidate not classified",
						xlogger.String("code", batch[i].Code),
						xlogger.Error(err))
					return
				}
				results[i] = res
			}(i)
		}
		wg.Wait()

		if p := itemPanic.Load(); p != nil {
			e.fail(id, p.(string))
			return
		}

		// a force-start during the batch discards these results entirely
		if e.token.Load() != id {
			e.supersede(id)
			return
		}
		e.mergeBatch(id, batch, results)
	}
	e.complete(id)
}

// mergeBatch folds one finished batch into the task and emits a progress
// snapshot. Only buy signals are retained as matches.
func (e *ScreeningEngine) mergeBatch(id int64, batch []models.CandidateStock, results []*models.ClassificationResult) {
	e.mu.Lock()
	t := e.task
	if t == nil || t.ID != id {
		e.mu.Unlock()
		return
	}
	t.ProcessedCount += len(batch)
	for i, res := range results {
		if res == nil || res.Signal != models.SignalBuy {
			continue
		}
		c := batch[i]
		t.Matched = append(t.Matched, models.MatchedStock{
			Code:          c.Code,
			Name:          c.Name,
			Exchange:      c.Exchange,
			Industry:      c.Industry,
			Price:         c.Price,
			ChangePercent: c.ChangePercent,
			Result:        res,
		})
	}
	snap := snapshotOf(t)
	e.mu.Unlock()

	e.metrics.RecordProgress(snap.ProcessedCount, snap.TotalCount)
	e.broadcaster.Publish(snap)
}

func (e *ScreeningEngine) complete(id int64) {
	e.mu.Lock()
	t := e.task
	if t == nil || t.ID != id {
		e.mu.Unlock()
		return
	}
	t.Status = models.TaskCompleted
	t.FinishedAt = time.Now()
	t.Summary = e.aggregator.Summarize(t)
	snap := snapshotOf(t)
	done := copyTask(t)
	e.mu.Unlock()

	e.broadcaster.Publish(snap)
	e.logger.Info("screening completed",
		xlogger.Int64("task_id", id),
		xlogger.Int("matched", len(done.Matched)),
		xlogger.Int("processed", done.ProcessedCount))
	e.afterRun(done)
}

func (e *ScreeningEngine) fail(id int64, msg string) {
	e.mu.Lock()
	t := e.task
	if t == nil || t.ID != id {
		e.mu.Unlock()
		return
	}
	t.Status = models.TaskErrored
	t.Error = msg
	t.FinishedAt = time.Now()
	snap := snapshotOf(t)
	done := copyTask(t)
	e.mu.Unlock()

	e.metrics.RecordError("task")
	e.broadcaster.Publish(snap)
	e.logger.Error("screening errored",
		xlogger.Int64("task_id", id),
		xlogger.String("reason", msg),
		xlogger.Int("processed", done.ProcessedCount))
	e.archiveRun(done)
}

// supersede marks the task terminated by a newer run. Deliberately silent:
// the user only observes the new task's events.
func (e *ScreeningEngine) supersede(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.task
	if t == nil || t.ID != id {
		return
	}
	t.Status = models.TaskSuperseded
	t.FinishedAt = time.Now()
	e.logger.Debug("screening superseded", xlogger.Int64("task_id", id))
}

// afterRun ships results downstream, best-effort; failures never touch the
// task state.
func (e *ScreeningEngine) afterRun(t *models.ScreeningTask) {
	if e.publisher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		for i := range t.Matched {
			if err := e.publisher.PublishMatch(ctx, t.ID, &t.Matched[i]); err != nil {
				e.logger.Warn("publish match failed", xlogger.Error(err))
				break
			}
		}
		if err := e.publisher.PublishRun(ctx, t); err != nil {
			e.logger.Warn("publish run failed", xlogger.Error(err))
		}
		cancel()
	}
	e.archiveRun(t)
}

func (e *ScreeningEngine) archiveRun(t *models.ScreeningTask) {
	if e.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.archive.StoreRun(ctx, t); err != nil {
		e.logger.Warn("archive run failed", xlogger.Error(err))
	}
}

func snapshotOf(t *models.ScreeningTask) models.ProgressSnapshot {
	matched := make([]models.MatchedStock, len(t.Matched))
	copy(matched, t.Matched)
	return models.ProgressSnapshot{
		TaskID:         t.ID,
		FilterCriteria: t.FilterCriteria,
		Status:         t.Status,
		ProcessedCount: t.ProcessedCount,
		TotalCount:     t.TotalCount,
		Matched:        matched,
		Summary:        t.Summary,
		Error:          t.Error,
		Timestamp:      time.Now(),
	}
}

func copyTask(t *models.ScreeningTask) *models.ScreeningTask {
	cp := *t
	cp.Matched = make([]models.MatchedStock, len(t.Matched))
	copy(cp.Matched, t.Matched)
	return &cp
}
