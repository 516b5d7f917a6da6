package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/bonus/internal/domain/bonus"
	"github.com/okian/bonus/internal/domain/types"
)

// QuoteDependencies defines the interface for synchronous bonus quotes.
type QuoteDependencies interface {
	Quote(ctx context.Context, salary, performanceRating float64) (types.Quote, error)
}

// BonusHandler handles bonus quote requests.
type BonusHandler struct {
	deps QuoteDependencies
}

// NewBonusHandler creates a new bonus handler.
func NewBonusHandler(deps QuoteDependencies) *BonusHandler {
	return &BonusHandler{deps: deps}
}

// bonusRequest mirrors the OpenAPI schema for POST /bonus.
type bonusRequest struct {
	Salary            *float64 `json:"salary"`
	PerformanceRating *float64 `json:"performance_rating"`
}

func (b bonusRequest) validate() error {
	switch {
	case b.Salary == nil:
		return errors.New("missing salary")
	case b.PerformanceRating == nil:
		return errors.New("missing performance_rating")
	}
	return nil
}

// HandlePostBonus handles POST /bonus requests.
func (h *BonusHandler) HandlePostBonus(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_bonus"
	var req bonusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	q, err := h.deps.Quote(r.Context(), *req.Salary, *req.PerformanceRating)
	if err != nil {
		if errors.Is(err, bonus.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_input", WrapKind(op, ErrUnprocessable, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, q)
}
