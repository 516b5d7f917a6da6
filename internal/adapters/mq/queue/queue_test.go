package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/bonus/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func job(id string) model.AwardRequest {
	return model.AwardRequest{RequestID: id, EmployeeID: "emp-" + id, Salary: 50000, PerformanceRating: 4}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	Convey("Given a queue with capacity 2", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		So(q.Len(ctx), ShouldEqual, 0)

		Convey("When a job is enqueued and dequeued", func() {
			So(q.Enqueue(ctx, job("1")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 1)

			got := <-q.Dequeue(ctx)

			Convey("Then the same job should come out", func() {
				So(got.RequestID, ShouldEqual, "1")
				So(got.EmployeeID, ShouldEqual, "emp-1")
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, job("1")), ShouldBeTrue)
			So(q.Enqueue(ctx, job("2")), ShouldBeTrue)

			Convey("Then further enqueues should be refused", func() {
				So(q.Enqueue(ctx, job("3")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, ccancel := context.WithCancel(context.Background())
			ccancel()
			So(q.Enqueue(cctx, job("1")), ShouldBeFalse)
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, job("1")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues fail but queued jobs drain", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, job("2")), ShouldBeFalse)

				var drained []string
				for j := range q.Dequeue(ctx) {
					drained = append(drained, j.RequestID)
				}
				So(drained, ShouldResemble, []string{"1"})
			})
		})

		Convey("When the dequeue context is cancelled", func() {
			dctx, dcancel := context.WithCancel(context.Background())
			ch := q.Dequeue(dctx)
			dcancel()

			Convey("Then the channel should close", func() {
				select {
				case _, ok := <-ch:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})
	})
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	Convey("Given producers and one consumer", t, func() {
		q := NewInMemoryQueue(WithCapacity(50))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		const producers, perProducer = 5, 100
		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					for !q.Enqueue(ctx, job(fmt.Sprintf("%d-%d", p, i))) {
						time.Sleep(time.Millisecond)
					}
				}
			}(p)
		}

		seen := make(map[string]bool)
		ch := q.Dequeue(ctx)
		for len(seen) < producers*perProducer {
			j := <-ch
			seen[j.RequestID] = true
		}
		wg.Wait()

		So(len(seen), ShouldEqual, producers*perProducer)
		So(q.Len(ctx), ShouldEqual, 0)
	})
}
