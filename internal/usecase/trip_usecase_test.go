package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/usecase"
	"github.com/tripledger/tripledger/internal/usecase/mocks"
)

func TestCreateTrip(t *testing.T) {
	uc := usecase.NewTripUseCase(mocks.NewMockTripRepository(), mocks.NewMockIDGenerator())

	trip, err := uc.CreateTrip(context.Background(), usecase.CreateTripInput{Name: "Alps 2026"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusPlanning {
		t.Errorf("expected default status planning, got %s", trip.Status)
	}
	if trip.Version != 0 {
		t.Errorf("expected version 0 on a fresh trip, got %d", trip.Version)
	}
}

func TestCreateTripRejectsEmptyName(t *testing.T) {
	uc := usecase.NewTripUseCase(mocks.NewMockTripRepository(), mocks.NewMockIDGenerator())

	_, err := uc.CreateTrip(context.Background(), usecase.CreateTripInput{Name: "   "})
	if !errors.Is(err, domain.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestCreateTripRejectsUnknownStatus(t *testing.T) {
	uc := usecase.NewTripUseCase(mocks.NewMockTripRepository(), mocks.NewMockIDGenerator())

	_, err := uc.CreateTrip(context.Background(), usecase.CreateTripInput{Name: "Alps", Status: "archived"})
	if err == nil {
		t.Fatal("expected an error for unknown status")
	}
}

func TestUpdateTrip(t *testing.T) {
	repo := mocks.NewMockTripRepository()
	uc := usecase.NewTripUseCase(repo, mocks.NewMockIDGenerator())

	trip, err := uc.CreateTrip(context.Background(), usecase.CreateTripInput{Name: "Alps"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := domain.TripStatusActive
	updated, err := uc.UpdateTrip(context.Background(), trip.ID, usecase.UpdateTripInput{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != domain.TripStatusActive {
		t.Errorf("expected status active, got %s", updated.Status)
	}
	if updated.Name != "Alps" {
		t.Errorf("expected untouched fields to survive, got name %s", updated.Name)
	}
}

func TestDeleteTripUnknown(t *testing.T) {
	uc := usecase.NewTripUseCase(mocks.NewMockTripRepository(), mocks.NewMockIDGenerator())

	err := uc.DeleteTrip(context.Background(), "missing")
	if !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestListTripsCapsPageSize(t *testing.T) {
	repo := mocks.NewMockTripRepository()
	uc := usecase.NewTripUseCase(repo, mocks.NewMockIDGenerator())

	var gotLimit int
	repo.ListFunc = func(ctx context.Context, status string, limit, offset int) ([]*domain.Trip, error) {
		gotLimit = limit
		return nil, nil
	}

	if _, err := uc.ListTrips(context.Background(), usecase.ListTripsInput{Limit: 5000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotLimit != usecase.MaxPageSize {
		t.Errorf("expected limit capped at %d, got %d", usecase.MaxPageSize, gotLimit)
	}
}
