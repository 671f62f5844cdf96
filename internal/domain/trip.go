package domain

import (
	"fmt"
	"strings"
	"time"
)

// Trip statuses.
const (
	TripStatusPlanning = "planning"
	TripStatusActive   = "active"
	TripStatusClosed   = "closed"
)

// Trip is the top-level grouping of members, wallets and transactions.
type Trip struct {
	StartDate   *time.Time
	EndDate     *time.Time
	ID          string
	Name        string
	Description string
	Status      string
	// Version is bumped on every transaction write belonging to this
	// trip. Derived statistics are cached keyed on (trip ID, version) so
	// a member always observes balances that include their latest edit.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks structural validity of the trip.
func (t *Trip) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: trip name", ErrEmptyName)
	}

	switch t.Status {
	case TripStatusPlanning, TripStatusActive, TripStatusClosed:
	default:
		return fmt.Errorf("invalid trip status %q", t.Status)
	}

	return nil
}
