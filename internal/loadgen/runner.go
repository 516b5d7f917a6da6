package loadgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/bonus/internal/domain/bonus"
	"github.com/okian/bonus/pkg/logger"
)

// amountTolerance absorbs float rounding between client and server.
const amountTolerance = 1e-6

// Run checks the service is up, submits generated requests concurrently,
// then verifies each accepted award. The report is written to out.
func Run(ctx context.Context, cfg Config, out io.Writer) (*Report, error) {
	cfg = cfg.withDefaults()
	start := time.Now()
	log := logger.Get().Named("loadgen")

	log.Info(ctx, "starting load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	reqs := Generate(cfg.Requests, cfg.Employees, cfg.Seed, start)
	report := &Report{Generated: len(reqs)}

	accepted, err := submit(ctx, client, cfg.Workers, reqs, report)
	if err != nil {
		return report, fmt.Errorf("submission failed: %w", err)
	}
	log.Info(ctx, "submission completed",
		logger.Int("accepted", report.Accepted),
		logger.Int("duplicate", report.Duplicate),
		logger.Int("rejected", report.Rejected),
		logger.Int("failed", report.Failed))

	if err := verify(ctx, client, cfg, accepted, report); err != nil {
		return report, fmt.Errorf("verification failed: %w", err)
	}

	report.Duration = time.Since(start)
	WriteReport(out, report)
	return report, nil
}

// submit posts every request, bounded to workers in flight. It returns the
// requests the service accepted.
func submit(ctx context.Context, client *Client, workers int, reqs []Request, report *Report) ([]Request, error) {
	var accepted, duplicate, rejected, failed atomic.Int64
	ok := make([]bool, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range reqs {
		g.Go(func() error {
			status, _, err := client.Submit(gctx, reqs[i])
			switch {
			case err != nil:
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
			case status == http.StatusAccepted:
				accepted.Add(1)
				ok[i] = true
			case status == http.StatusOK:
				duplicate.Add(1)
			default:
				rejected.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Accepted = int(accepted.Load())
	report.Duplicate = int(duplicate.Load())
	report.Rejected = int(rejected.Load())
	report.Failed = int(failed.Load())

	out := make([]Request, 0, report.Accepted)
	for i, r := range reqs {
		if ok[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

// verify waits for each accepted request to be stored and compares its
// amount with bonus.Calculate.
func verify(ctx context.Context, client *Client, cfg Config, reqs []Request, report *Report) error {
	var verified, mismatched, missing atomic.Int64
	deadline := time.Now().Add(cfg.Settle)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, r := range reqs {
		g.Go(func() error {
			a, err := awaitAward(gctx, client, r.RequestID, deadline, cfg.PollInterval)
			switch {
			case errors.Is(err, ErrNotFound):
				missing.Add(1)
				return nil
			case err != nil:
				return err
			}
			if Matches(r, a) {
				verified.Add(1)
			} else {
				mismatched.Add(1)
				logger.Get().Warn(gctx, "award mismatch",
					logger.String("requestID", r.RequestID),
					logger.Float64("expected", bonus.Calculate(r.Salary, r.PerformanceRating)),
					logger.Float64("got", a.Bonus))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	report.Verified = int(verified.Load())
	report.Mismatched = int(mismatched.Load())
	report.Missing = int(missing.Load())
	return nil
}

func awaitAward(ctx context.Context, client *Client, id string, deadline time.Time, interval time.Duration) (Award, error) {
	for {
		a, err := client.Award(ctx, id)
		if !errors.Is(err, ErrNotFound) {
			return a, err
		}
		if time.Now().After(deadline) {
			return Award{}, ErrNotFound
		}
		select {
		case <-ctx.Done():
			return Award{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Matches reports whether a stored award agrees with the default schedule
// for its request.
func Matches(r Request, a Award) bool { //nolint:gocritic // hugeParam: values read once
	want := bonus.Calculate(r.Salary, r.PerformanceRating)
	return a.EmployeeID == r.EmployeeID && math.Abs(a.Bonus-want) <= amountTolerance
}

// WriteReport prints the run summary.
func WriteReport(w io.Writer, r *Report) {
	var perSecond float64
	if r.Duration > 0 {
		perSecond = float64(r.Generated) / r.Duration.Seconds()
	}
	_, _ = fmt.Fprintf(w, "generated:  %d\n", r.Generated)
	_, _ = fmt.Fprintf(w, "accepted:   %d\n", r.Accepted)
	_, _ = fmt.Fprintf(w, "duplicate:  %d\n", r.Duplicate)
	_, _ = fmt.Fprintf(w, "rejected:   %d\n", r.Rejected)
	_, _ = fmt.Fprintf(w, "failed:     %d\n", r.Failed)
	_, _ = fmt.Fprintf(w, "verified:   %d\n", r.Verified)
	_, _ = fmt.Fprintf(w, "mismatched: %d\n", r.Mismatched)
	_, _ = fmt.Fprintf(w, "missing:    %d\n", r.Missing)
	_, _ = fmt.Fprintf(w, "duration:   %s (%.0f req/s)\n", r.Duration.Round(time.Millisecond), perSecond)
}
