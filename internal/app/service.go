// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	awardqueue "github.com/okian/bonus/internal/adapters/mq/queue"
	workerpool "github.com/okian/bonus/internal/adapters/mq/worker"
	"github.com/okian/bonus/internal/adapters/repository"
	"github.com/okian/bonus/internal/domain/bonus"
	"github.com/okian/bonus/internal/domain/dedupe"
	"github.com/okian/bonus/internal/domain/finance"
	"github.com/okian/bonus/internal/domain/model"
	"github.com/okian/bonus/internal/domain/stats"
	"github.com/okian/bonus/internal/domain/types"
	"github.com/okian/bonus/pkg/logger"
	"github.com/okian/bonus/pkg/metrics"
)

const stopTimeout = 10 * time.Second

// ErrNotStarted is returned by operations that need a running service.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the bonus system.
type Service struct {
	mu sync.RWMutex

	// Core components
	calculator *bonus.Calculator
	deduper    dedupe.Deduper
	queue      *awardqueue.InMemoryQueue
	store      repository.Store
	pool       *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	calcOpts    []bonus.Option
	sqlitePath  string // empty = memory store
	injected    repository.Store

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the award queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the request id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCalculatorOptions configures the bonus schedule.
func WithCalculatorOptions(opts ...bonus.Option) Option {
	return func(s *Service) {
		s.calcOpts = append(s.calcOpts, opts...)
	}
}

// WithSQLiteStore persists awards in the sqlite database at path.
func WithSQLiteStore(path string) Option {
	return func(s *Service) {
		s.sqlitePath = path
	}
}

// WithStore uses an existing store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.injected = store
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  100_000,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Quotes and idempotency checks work before Start.
	s.calculator = bonus.NewCalculator(s.calcOpts...)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting bonus service...")

	store, err := s.openStore(ctx)
	if err != nil {
		return err
	}
	s.store = store
	s.queue = awardqueue.NewInMemoryQueue(awardqueue.WithCapacity(s.queueSize))

	// Workers outlive the ctx passed to Start; Stop drains them.
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.calculator, s.store)
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "bonus service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("strict", s.calculator.Strict()),
	)
	return nil
}

func (s *Service) openStore(ctx context.Context) (repository.Store, error) {
	switch {
	case s.injected != nil:
		s.logger.Info(ctx, "using provided award store")
		return s.injected, nil
	case s.sqlitePath != "":
		store, err := repository.NewSQLiteStore(ctx, s.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open award store: %w", err)
		}
		s.logger.Info(ctx, "using sqlite award store", logger.String("path", s.sqlitePath))
		return store, nil
	default:
		s.logger.Info(ctx, "using memory award store")
		return repository.NewMemoryStore(), nil
	}
}

// Stop drains queued requests and releases resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping bonus service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "closing award store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "bonus service stopped")
}

// Quote computes a bonus synchronously.
func (s *Service) Quote(ctx context.Context, salary, performanceRating float64) (types.Quote, error) {
	res, err := s.calculator.Compute(ctx, bonus.Input{Salary: salary, PerformanceRating: performanceRating})
	if err != nil {
		if errors.Is(err, bonus.ErrInvalidInput) {
			metrics.RecordValidationError()
		}
		return types.Quote{}, err
	}
	metrics.RecordBonusComputation(string(res.Tier), res.Amount)

	return types.Quote{
		Salary:            res.Salary,
		PerformanceRating: res.PerformanceRating,
		Rate:              res.Rate,
		Tier:              string(res.Tier),
		Bonus:             res.Amount,
	}, nil
}

// Evaluate runs a named finance formula.
func (s *Service) Evaluate(_ context.Context, formula string, args ...float64) (float64, error) {
	f, err := finance.Lookup(formula)
	if err != nil {
		return 0, err
	}
	v, err := f.Eval(args...)
	if err != nil {
		metrics.RecordFinanceEvaluation(formula, "error")
		return 0, err
	}
	metrics.RecordFinanceEvaluation(formula, "ok")
	return v, nil
}

// SeenAndRecord atomically checks if a request id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordAwardDuplicate()
	}
	return seen
}

// Unrecord removes a request id from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

// Enqueue submits an award request for asynchronous processing. Strict
// validation runs here so invalid requests are rejected before queueing.
func (s *Service) Enqueue(ctx context.Context, req model.AwardRequest) (bool, error) { //nolint:gocritic // hugeParam: requests travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return false, ErrNotStarted
	}
	if s.calculator.Strict() {
		if _, err := s.calculator.Compute(ctx, req.Input()); err != nil {
			metrics.RecordValidationError()
			return false, err
		}
	}

	s.logger.Debug(ctx, "enqueueing award request",
		logger.String("requestID", req.RequestID),
		logger.String("employeeID", req.EmployeeID),
	)
	return s.queue.Enqueue(ctx, req), nil
}

// Award returns the stored award for a request id.
func (s *Service) Award(ctx context.Context, requestID string) (types.AwardView, error) {
	store, err := s.currentStore()
	if err != nil {
		return types.AwardView{}, err
	}
	a, err := store.Get(ctx, requestID)
	if err != nil {
		return types.AwardView{}, err
	}
	return toView(a), nil
}

// Awards lists stored awards, newest first.
func (s *Service) Awards(ctx context.Context, employeeID string, limit int) ([]types.AwardView, error) {
	store, err := s.currentStore()
	if err != nil {
		return nil, err
	}
	list, err := store.List(ctx, repository.Filter{EmployeeID: employeeID, Limit: limit})
	if err != nil {
		return nil, err
	}
	views := make([]types.AwardView, len(list))
	for i, a := range list {
		views[i] = toView(a)
	}
	return views, nil
}

// Summary describes stored bonus amounts, optionally narrowed to one
// employee and one tier. Returns stats.ErrEmpty when nothing matches.
func (s *Service) Summary(ctx context.Context, employeeID, tier string) (stats.Summary, error) {
	store, err := s.currentStore()
	if err != nil {
		return stats.Summary{}, err
	}
	list, err := store.List(ctx, repository.Filter{EmployeeID: employeeID})
	if err != nil {
		return stats.Summary{}, err
	}
	if tier != "" {
		list = stats.Filter(list, func(a model.Award) bool { return string(a.Tier) == tier })
	}

	amounts := make([]float64, len(list))
	for i, a := range list {
		amounts[i] = a.Amount
	}
	return stats.Summarize(amounts)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"seenIDs":     s.deduper.Size(),
		"strict":      s.calculator.Strict(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalAwards := s.store.Count(ctx)

		out["queueLength"] = queueLen
		out["totalAwards"] = totalAwards
		out["processed"] = s.pool.Processed()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateAwardsTotal(totalAwards)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return out
}

func (s *Service) currentStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func toView(a model.Award) types.AwardView { //nolint:gocritic // hugeParam: awards are values
	return types.AwardView{
		RequestID:         a.RequestID,
		EmployeeID:        a.EmployeeID,
		Salary:            a.Salary,
		PerformanceRating: a.PerformanceRating,
		Rate:              a.Rate,
		Tier:              string(a.Tier),
		Bonus:             a.Amount,
		RequestedAt:       a.RequestedAt,
		ComputedAt:        a.ComputedAt,
	}
}
