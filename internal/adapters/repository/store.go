// Package repository defines the award store interface and its implementations.
package repository

import (
	"context"

	"github.com/okian/bonus/internal/domain/model"
)

// Award is the stored row type.
type Award = model.Award

// Filter narrows List results.
type Filter struct {
	EmployeeID string // empty = every employee
	Limit      int    // <= 0 = no limit
}

// Store persists computed awards.
type Store interface {
	// Save records an award. Saving an existing request id replaces it.
	Save(ctx context.Context, a Award) error

	// Get returns the award for a request id, or ErrNotFound.
	Get(ctx context.Context, requestID string) (Award, error)

	// List returns awards newest first.
	List(ctx context.Context, f Filter) ([]Award, error)

	// Count returns the number of stored awards.
	Count(ctx context.Context) int

	Close() error
}
