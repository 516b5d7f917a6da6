package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/bonus/internal/domain/finance"
)

// FinanceDependencies defines the interface for finance formula evaluation.
type FinanceDependencies interface {
	Evaluate(ctx context.Context, formula string, args ...float64) (float64, error)
}

// FinanceHandler handles finance formula requests.
type FinanceHandler struct {
	deps FinanceDependencies
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(deps FinanceDependencies) *FinanceHandler {
	return &FinanceHandler{deps: deps}
}

type financeResponse struct {
	Formula string  `json:"formula"`
	Result  float64 `json:"result"`
}

// HandleEvaluate handles POST /finance/{formula} requests. The body is an
// object keyed by the formula's parameter names.
func (h *FinanceHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_finance"
	name := r.PathValue("formula")
	formula, err := finance.Lookup(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}

	var body map[string]float64
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	args := make([]float64, len(formula.Params))
	for i, p := range formula.Params {
		v, ok := body[p]
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("missing %s", p)))
			return
		}
		args[i] = v
	}

	result, err := h.deps.Evaluate(r.Context(), formula.Name, args...)
	if err != nil {
		if errors.Is(err, finance.ErrZeroRevenue) || errors.Is(err, finance.ErrZeroInvestment) {
			writeError(w, http.StatusUnprocessableEntity, "unprocessable", WrapKind(op, ErrUnprocessable, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, financeResponse{Formula: formula.Name, Result: result})
}
