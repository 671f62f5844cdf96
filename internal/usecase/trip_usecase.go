package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tripledger/tripledger/internal/domain"
)

// TripUseCase handles trip business logic.
type TripUseCase struct {
	tripRepo TripRepository
	idGen    IDGenerator
}

// NewTripUseCase creates a new TripUseCase.
func NewTripUseCase(tripRepo TripRepository, idGen IDGenerator) *TripUseCase {
	return &TripUseCase{
		tripRepo: tripRepo,
		idGen:    idGen,
	}
}

// CreateTripInput represents input for creating a trip.
type CreateTripInput struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Name        string
	Description string
	Status      string
}

// CreateTrip creates a new trip. An empty status defaults to planning.
func (uc *TripUseCase) CreateTrip(ctx context.Context, input CreateTripInput) (*domain.Trip, error) {
	now := time.Now().UTC()

	status := input.Status
	if status == "" {
		status = domain.TripStatusPlanning
	}

	trip := &domain.Trip{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := trip.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	return trip, nil
}

// GetTrip retrieves a trip by ID.
func (uc *TripUseCase) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	return uc.tripRepo.GetByID(ctx, id)
}

// ListTripsInput represents input for listing trips.
type ListTripsInput struct {
	Status string
	Limit  int
	Offset int
}

// ListTrips lists trips with pagination, optionally filtered by status.
func (uc *TripUseCase) ListTrips(ctx context.Context, input ListTripsInput) ([]*domain.Trip, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageSize
	}
	if input.Limit > MaxPageSize {
		input.Limit = MaxPageSize
	}

	return uc.tripRepo.List(ctx, input.Status, input.Limit, input.Offset)
}

// UpdateTripInput represents input for updating a trip. Nil fields are
// left unchanged.
type UpdateTripInput struct {
	Name        *string
	Description *string
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateTrip applies a partial update to a trip.
func (uc *TripUseCase) UpdateTrip(ctx context.Context, id string, input UpdateTripInput) (*domain.Trip, error) {
	trip, err := uc.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trip.Name = *input.Name
	}
	if input.Description != nil {
		trip.Description = *input.Description
	}
	if input.Status != nil {
		trip.Status = *input.Status
	}
	if input.StartDate != nil {
		trip.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		trip.EndDate = input.EndDate
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := trip.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tripRepo.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("update trip: %w", err)
	}

	return trip, nil
}

// DeleteTrip removes a trip and everything that hangs off it.
func (uc *TripUseCase) DeleteTrip(ctx context.Context, id string) error {
	if _, err := uc.tripRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.tripRepo.Delete(ctx, id)
}
