package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/bonus/internal/domain/bonus"
	"github.com/okian/bonus/pkg/metrics"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

const (
	defaultBusyTimeout  = 5 * time.Second
	defaultMaxOpenConns = 4
)

const schema = `
CREATE TABLE IF NOT EXISTS awards (
	seq                INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id         TEXT    NOT NULL UNIQUE,
	employee_id        TEXT    NOT NULL,
	salary             REAL    NOT NULL,
	performance_rating REAL    NOT NULL,
	rate               REAL    NOT NULL,
	tier               TEXT    NOT NULL,
	amount             REAL    NOT NULL,
	requested_at       INTEGER NOT NULL,
	computed_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS awards_employee_seq ON awards (employee_id, seq);
`

const upsertAward = `
INSERT INTO awards (request_id, employee_id, salary, performance_rating, rate, tier, amount, requested_at, computed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (request_id) DO UPDATE SET
	employee_id = excluded.employee_id,
	salary = excluded.salary,
	performance_rating = excluded.performance_rating,
	rate = excluded.rate,
	tier = excluded.tier,
	amount = excluded.amount,
	requested_at = excluded.requested_at,
	computed_at = excluded.computed_at`

const selectAward = `SELECT request_id, employee_id, salary, performance_rating, rate, tier, amount, requested_at, computed_at FROM awards`

// SQLiteStore persists awards in a SQLite database file.
type SQLiteStore struct {
	db           *sql.DB
	busyTimeout  time.Duration
	maxOpenConns int
	closed       atomic.Bool
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	s := &SQLiteStore{
		busyTimeout:  defaultBusyTimeout,
		maxOpenConns: defaultMaxOpenConns,
	}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s.db = db
	return s, nil
}

// Save inserts or replaces the award keyed by its request id.
func (s *SQLiteStore) Save(ctx context.Context, a Award) error { //nolint:gocritic // hugeParam: awards are values
	start := time.Now()
	defer func() { metrics.RecordRepositorySaveLatency(sinceMs(start)) }()

	if s.closed.Load() {
		metrics.RecordRepositoryError()
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx, upsertAward,
		a.RequestID, a.EmployeeID, a.Salary, a.PerformanceRating, a.Rate, string(a.Tier), a.Amount,
		toUnix(a.RequestedAt), toUnix(a.ComputedAt),
	)
	if err != nil {
		metrics.RecordRepositoryError()
		return fmt.Errorf("save award %s: %w", a.RequestID, err)
	}
	metrics.UpdateAwardsTotal(s.Count(ctx))
	return nil
}

// Get returns the award for requestID.
func (s *SQLiteStore) Get(ctx context.Context, requestID string) (Award, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(sinceMs(start)) }()

	row := s.db.QueryRowContext(ctx, selectAward+` WHERE request_id = ?`, requestID)
	a, err := scanAward(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Award{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordRepositoryError()
		return Award{}, fmt.Errorf("get award %s: %w", requestID, err)
	}
	return a, nil
}

// List returns matching awards, newest first.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Award, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(sinceMs(start)) }()

	query := selectAward
	var args []any
	if f.EmployeeID != "" {
		query += ` WHERE employee_id = ?`
		args = append(args, f.EmployeeID)
	}
	query += ` ORDER BY seq DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordRepositoryError()
		return nil, fmt.Errorf("list awards: %w", err)
	}
	defer rows.Close()

	out := make([]Award, 0)
	for rows.Next() {
		a, err := scanAward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan award: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}
	return out, nil
}

// Count returns the number of stored awards, or 0 if the query fails.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM awards`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAward(sc scanner) (Award, error) {
	var (
		a                       Award
		tier                    string
		requestedAt, computedAt int64
	)
	if err := sc.Scan(&a.RequestID, &a.EmployeeID, &a.Salary, &a.PerformanceRating, &a.Rate, &tier, &a.Amount, &requestedAt, &computedAt); err != nil {
		return Award{}, err
	}
	a.Tier = bonus.Tier(tier)
	a.RequestedAt = fromUnix(requestedAt)
	a.ComputedAt = fromUnix(computedAt)
	return a, nil
}

// Zero times are stored as 0 so they round-trip.
func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
