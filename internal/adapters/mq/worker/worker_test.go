package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/bonus/internal/adapters/mq/queue"
	"github.com/okian/bonus/internal/adapters/mq/worker"
	"github.com/okian/bonus/internal/domain/bonus"
	"github.com/okian/bonus/internal/domain/model"
	"github.com/okian/bonus/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type mockQueue struct {
	ch chan worker.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{ch: make(chan worker.Job, 10)}
}

func (m *mockQueue) Dequeue(context.Context) <-chan worker.Job { return m.ch }

func (m *mockQueue) Close() error {
	close(m.ch)
	return nil
}

type mockSaver struct {
	mu     sync.Mutex
	awards map[string]model.Award
	fail   map[string]error
}

func newMockSaver() *mockSaver {
	return &mockSaver{awards: make(map[string]model.Award), fail: make(map[string]error)}
}

func (m *mockSaver) Save(_ context.Context, a model.Award) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[a.RequestID]; ok {
		return err
	}
	m.awards[a.RequestID] = a
	return nil
}

func (m *mockSaver) get(id string) (model.Award, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.awards[id]
	return a, ok
}

func (m *mockSaver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.awards)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := newMockQueue()
		saver := newMockSaver()
		fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		w := worker.NewInMemoryWorker(q, bonus.NewCalculator(), saver,
			worker.WithName("test-worker"),
			worker.WithClock(func() time.Time { return fixed }),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a high-rated request arrives", func() {
			q.ch <- worker.Job{RequestID: "r1", EmployeeID: "e1", Salary: 50000, PerformanceRating: 4.5}

			convey.Convey("Then the award should be computed and saved", func() {
				convey.So(eventually(func() bool { _, ok := saver.get("r1"); return ok }), convey.ShouldBeTrue)
				a, _ := saver.get("r1")
				convey.So(a.Amount, convey.ShouldEqual, 5000.0)
				convey.So(a.Tier, convey.ShouldEqual, bonus.TierHigh)
				convey.So(a.EmployeeID, convey.ShouldEqual, "e1")
				convey.So(a.ComputedAt, convey.ShouldEqual, fixed)
				convey.So(w.Processed(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When saving fails", func() {
			saver.fail["bad"] = errors.New("disk full")
			q.ch <- worker.Job{RequestID: "bad", EmployeeID: "e1", Salary: 1, PerformanceRating: 1}
			q.ch <- worker.Job{RequestID: "good", EmployeeID: "e1", Salary: 50000, PerformanceRating: 3.9}

			convey.Convey("Then the worker should keep going", func() {
				convey.So(eventually(func() bool { _, ok := saver.get("good"); return ok }), convey.ShouldBeTrue)
				a, _ := saver.get("good")
				convey.So(a.Amount, convey.ShouldEqual, 2500.0)
				_, saved := saver.get("bad")
				convey.So(saved, convey.ShouldBeFalse)
				convey.So(w.Processed(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When shut down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a strict calculator", t, func() {
		q := newMockQueue()
		saver := newMockSaver()
		w := worker.NewInMemoryWorker(q, bonus.NewCalculator(bonus.WithStrict(true)), saver)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When an invalid request arrives", func() {
			q.ch <- worker.Job{RequestID: "neg", Salary: -5, PerformanceRating: 2}
			q.ch <- worker.Job{RequestID: "ok", Salary: 10, PerformanceRating: 2}

			convey.Convey("Then it should be skipped", func() {
				convey.So(eventually(func() bool { return saver.count() == 1 }), convey.ShouldBeTrue)
				_, saved := saver.get("neg")
				convey.So(saved, convey.ShouldBeFalse)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(500))
		saver := newMockSaver()
		pool := worker.NewPool(4, q, bonus.NewCalculator(), saver)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When many requests are enqueued", func() {
			for i := 0; i < 200; i++ {
				ok := q.Enqueue(ctx, model.AwardRequest{
					RequestID:         fmt.Sprintf("r-%d", i),
					EmployeeID:        "e",
					Salary:            1000,
					PerformanceRating: float64(i % 6),
				})
				convey.So(ok, convey.ShouldBeTrue)
			}

			convey.Convey("Then shutdown should drain every one", func() {
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(saver.count(), convey.ShouldEqual, 200)
				convey.So(pool.Processed(), convey.ShouldEqual, 200)

				a, _ := saver.get("r-4")
				convey.So(a.Amount, convey.ShouldAlmostEqual, 100.0, 1e-9)
				a, _ = saver.get("r-3")
				convey.So(a.Amount, convey.ShouldAlmostEqual, 50.0, 1e-9)
			})
		})

		convey.Convey("When stopped", func() {
			pool.Stop()
			convey.So(q.Enqueue(ctx, model.AwardRequest{RequestID: "after"}), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a pool with a non-positive size", t, func() {
		pool := worker.NewPool(0, newMockQueue(), bonus.NewCalculator(), newMockSaver())
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}
