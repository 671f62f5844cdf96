package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripledger/tripledger/internal/adapter/http/dto"
	"github.com/tripledger/tripledger/internal/calculator"
)

// StatsService defines the behavior needed by StatsHandler.
type StatsService interface {
	Balances(ctx context.Context, tripID string) (map[string]int64, error)
	Settlement(ctx context.Context, tripID string) ([]calculator.Transfer, error)
	Summary(ctx context.Context, tripID string, r calculator.Range) (*calculator.Summary, error)
	ByCategory(ctx context.Context, tripID string, r calculator.Range, txnType string) ([]calculator.CategoryTotal, error)
	Trend(ctx context.Context, tripID string, r calculator.Range, bucket calculator.Bucket, txnType string) ([]calculator.TrendPoint, error)
	PerPerson(ctx context.Context, tripID string) (*calculator.PerPersonReport, error)
	WalletSummaries(ctx context.Context, tripID string) ([]*calculator.WalletSummary, error)
	CheckConsistency(ctx context.Context, tripID string) error
}

// StatsHandler handles reporting and settlement HTTP requests.
type StatsHandler struct {
	statsUC StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsUC StatsService) *StatsHandler {
	return &StatsHandler{statsUC: statsUC}
}

// Balances returns the per-member net balances for a trip.
func (h *StatsHandler) Balances(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	balances, err := h.statsUC.Balances(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromMap(tripID, balances))
}

// Settlement returns the minimal transfer plan that zeroes a trip's
// balances.
func (h *StatsHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	transfers, err := h.statsUC.Settlement(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to plan settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromPlan(tripID, transfers))
}

// Summary returns inflow, outflow and net totals for the requested
// period, for one trip or across all trips.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid time range", err.Error())
		return
	}

	summary, err := h.statsUC.Summary(r.Context(), aggregationTripID(r), rng)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromCalculator(summary))
}

// ByCategory returns per-category totals sorted by descending amount,
// for one trip or across all trips.
func (h *StatsHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid time range", err.Error())
		return
	}

	totals, err := h.statsUC.ByCategory(r.Context(), aggregationTripID(r), rng, r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute category totals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryTotalsFromCalculator(totals))
}

// Trend returns zero-filled time series buckets for the requested
// period, for one trip or across all trips.
func (h *StatsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid time range", err.Error())
		return
	}

	bucket := calculator.Bucket(r.URL.Query().Get("bucket"))
	if bucket == "" {
		bucket = calculator.BucketDay
	}

	points, err := h.statsUC.Trend(r.Context(), aggregationTripID(r), rng, bucket, r.URL.Query().Get("type"))
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidBucket) || errors.Is(err, calculator.ErrUnboundedRange) {
			writeError(w, http.StatusBadRequest, "invalid trend query", err.Error())
			return
		}
		writeError(w, mapDomainError(err), "failed to compute trend", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrendFromCalculator(points))
}

// PerPerson returns the per-member expense breakdown for a trip.
func (h *StatsHandler) PerPerson(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	report, err := h.statsUC.PerPerson(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute per-person report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PerPersonFromCalculator(tripID, report))
}

// WalletSummaries returns per-wallet activity summaries for a trip.
func (h *StatsHandler) WalletSummaries(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	summaries, err := h.statsUC.WalletSummaries(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute wallet summaries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletSummariesFromCalculator(summaries))
}

// Consistency verifies that applying the settlement plan zeroes all
// balances.
func (h *StatsHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	if err := h.statsUC.CheckConsistency(r.Context(), tripID); err != nil {
		writeError(w, mapDomainError(err), "ledger consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "consistent"})
}

// aggregationTripID resolves the trip scope of an aggregation request. On
// trip-mounted routes it is the id path parameter; on the global statistics
// routes it falls back to the trip_id query parameter, and an empty result
// means all trips.
func aggregationTripID(r *http.Request) string {
	if id := chi.URLParam(r, "id"); id != "" {
		return id
	}
	return r.URL.Query().Get("trip_id")
}

func rangeFromQuery(r *http.Request) (calculator.Range, error) {
	var rng calculator.Range

	from, err := parseTimeQuery(r, "from")
	if err != nil {
		return rng, err
	}
	if from != nil {
		rng.From = *from
	}

	to, err := parseTimeQuery(r, "to")
	if err != nil {
		return rng, err
	}
	if to != nil {
		rng.To = *to
	}

	return rng, nil
}
