package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripledger/tripledger/internal/adapter/http/dto"
	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
)

// TripService defines the behavior needed by TripHandler.
type TripService interface {
	CreateTrip(ctx context.Context, input usecase.CreateTripInput) (*domain.Trip, error)
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	ListTrips(ctx context.Context, input usecase.ListTripsInput) ([]*domain.Trip, error)
	UpdateTrip(ctx context.Context, id string, input usecase.UpdateTripInput) (*domain.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
}

// TripHandler handles trip-related HTTP requests.
type TripHandler struct {
	tripUC TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripUC TripService) *TripHandler {
	return &TripHandler{tripUC: tripUC}
}

// Create creates a new trip.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	trip, err := h.tripUC.CreateTrip(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create trip", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TripFromDomain(trip))
}

// Get retrieves a trip by ID.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trip, err := h.tripUC.GetTrip(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// List lists trips.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.tripUC.ListTrips(r.Context(), usecase.ListTripsInput{
		Status: r.URL.Query().Get("status"),
		Limit:  parseIntQuery(r, "limit", usecase.DefaultPageSize),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trips", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripsFromDomain(trips))
}

// Update applies a partial update to a trip.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	trip, err := h.tripUC.UpdateTrip(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// Delete removes a trip.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.tripUC.DeleteTrip(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete trip", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
