package domain

import (
	"fmt"
	"strings"
)

// Category is a global transaction label, independent of any trip.
type Category struct {
	ID        string
	Name      string
	SortOrder int
}

// Validate checks structural validity of the category.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name", ErrEmptyName)
	}

	return nil
}
