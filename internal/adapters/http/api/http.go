// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bonus/internal/domain/dedupe"
	"github.com/okian/bonus/internal/domain/model"
	"github.com/okian/bonus/internal/domain/stats"
	"github.com/okian/bonus/internal/domain/types"
)

const (
	defaultMaxListLimit = 100
	maxBodyBytes        = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Quote computes a bonus synchronously.
	Quote(ctx context.Context, salary, performanceRating float64) (types.Quote, error)

	// Evaluate runs a named finance formula.
	Evaluate(ctx context.Context, formula string, args ...float64) (float64, error)

	// Enqueue pushes an award request for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, req model.AwardRequest) (bool, error)

	// Read operations over stored awards.
	Award(ctx context.Context, requestID string) (types.AwardView, error)
	Awards(ctx context.Context, employeeID string, limit int) ([]types.AwardView, error)
	Summary(ctx context.Context, employeeID, tier string) (stats.Summary, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	bonusHandler   *BonusHandler
	awardsHandler  *AwardsHandler
	financeHandler *FinanceHandler
}

// NewServer creates a new API server with all handlers. maxListLimit bounds
// the limit accepted by GET /awards; values < 1 use 100.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxListLimit int) *Server {
	if maxListLimit < 1 {
		maxListLimit = defaultMaxListLimit
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		bonusHandler:   NewBonusHandler(deps),
		awardsHandler:  NewAwardsHandler(deps, maxListLimit),
		financeHandler: NewFinanceHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /bonus", MetricsMiddleware(s.bonusHandler.HandlePostBonus, "bonus"))
	mux.HandleFunc("POST /awards", MetricsMiddleware(s.awardsHandler.HandlePostAward, "awards"))
	mux.HandleFunc("GET /awards", MetricsMiddleware(s.awardsHandler.HandleListAwards, "awards"))
	mux.HandleFunc("GET /awards/summary", MetricsMiddleware(s.awardsHandler.HandleSummary, "awards_summary"))
	mux.HandleFunc("GET /awards/{request_id}", MetricsMiddleware(s.awardsHandler.HandleGetAward, "award"))
	mux.HandleFunc("POST /finance/{formula}", MetricsMiddleware(s.financeHandler.HandleEvaluate, "finance"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
