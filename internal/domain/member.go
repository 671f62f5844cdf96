package domain

import (
	"fmt"
	"strings"
	"time"
)

// Member belongs to exactly one trip. A member referenced by any
// transaction (as payer or in a split) must not be deleted.
type Member struct {
	ID        string
	TripID    string
	Name      string
	CreatedAt time.Time
}

// Validate checks structural validity of the member.
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: member name", ErrEmptyName)
	}

	return nil
}
