package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/bonus/internal/adapters/repository"
	"github.com/okian/bonus/internal/domain/bonus"
	"github.com/okian/bonus/internal/domain/dedupe"
	"github.com/okian/bonus/internal/domain/model"
	"github.com/okian/bonus/internal/domain/stats"
	"github.com/okian/bonus/internal/domain/types"
)

// AwardDependencies defines the interface for award submission and reads.
type AwardDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, req model.AwardRequest) (bool, error)
	Award(ctx context.Context, requestID string) (types.AwardView, error)
	Awards(ctx context.Context, employeeID string, limit int) ([]types.AwardView, error)
	Summary(ctx context.Context, employeeID, tier string) (stats.Summary, error)
}

// AwardsHandler handles award requests.
type AwardsHandler struct {
	deps     AwardDependencies
	maxLimit int
	now      func() time.Time
}

// NewAwardsHandler creates a new awards handler.
func NewAwardsHandler(deps AwardDependencies, maxLimit int) *AwardsHandler {
	return &AwardsHandler{
		deps:     deps,
		maxLimit: maxLimit,
		now:      time.Now,
	}
}

// awardRequest mirrors the OpenAPI schema for POST /awards.
type awardRequest struct {
	RequestID         string   `json:"request_id"`
	EmployeeID        string   `json:"employee_id"`
	Salary            *float64 `json:"salary"`
	PerformanceRating *float64 `json:"performance_rating"`
	TS                string   `json:"ts"`
}

func (a awardRequest) validate() error {
	switch {
	case strings.TrimSpace(a.EmployeeID) == "":
		return errors.New("missing employee_id")
	case a.Salary == nil:
		return errors.New("missing salary")
	case a.PerformanceRating == nil:
		return errors.New("missing performance_rating")
	}
	if a.TS != "" {
		if _, err := time.Parse(time.RFC3339, a.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

// toModel fills in a generated request id and the current time when absent.
// Call validate first.
func (a awardRequest) toModel(now time.Time) model.AwardRequest {
	id := strings.TrimSpace(a.RequestID)
	if id == "" {
		id = uuid.NewString()
	}
	ts := now
	if a.TS != "" {
		ts, _ = time.Parse(time.RFC3339, a.TS)
	}
	return model.AwardRequest{
		RequestID:         id,
		EmployeeID:        strings.TrimSpace(a.EmployeeID),
		Salary:            *a.Salary,
		PerformanceRating: *a.PerformanceRating,
		TS:                ts.UTC(),
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	RequestID string `json:"request_id"`
}

// HandlePostAward handles POST /awards requests.
func (h *AwardsHandler) HandlePostAward(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_award"
	var body awardRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req := body.toModel(h.now())

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, RequestID: req.RequestID})
		return
	}

	ok, err := h.deps.Enqueue(r.Context(), req)
	if err != nil || !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.RequestID)
	}
	switch {
	case errors.Is(err, bonus.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", WrapKind(op, ErrUnprocessable, err))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	case !ok:
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", RequestID: req.RequestID})
	}
}

// HandleListAwards handles GET /awards?employee_id=&limit=N requests.
func (h *AwardsHandler) HandleListAwards(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_awards"
	q := r.URL.Query()

	n := h.maxLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
	}

	awards, err := h.deps.Awards(r.Context(), strings.TrimSpace(q.Get("employee_id")), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, awards)
}

// HandleGetAward handles GET /awards/{request_id} requests.
func (h *AwardsHandler) HandleGetAward(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_award"
	id := strings.TrimSpace(r.PathValue("request_id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	award, err := h.deps.Award(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, award)
}

// HandleSummary handles GET /awards/summary?employee_id=&tier= requests.
func (h *AwardsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.awards_summary"
	q := r.URL.Query()
	tier := q.Get("tier")
	if tier != "" && tier != string(bonus.TierHigh) && tier != string(bonus.TierStandard) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("tier must be high or standard")))
		return
	}

	sum, err := h.deps.Summary(r.Context(), strings.TrimSpace(q.Get("employee_id")), tier)
	if err != nil {
		if errors.Is(err, stats.ErrEmpty) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
