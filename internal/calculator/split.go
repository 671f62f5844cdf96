package calculator

import (
	"github.com/tripledger/tripledger/internal/domain"
)

// AllocateSplits distributes amount across splits proportionally to their
// share weights using integer arithmetic only. Each split receives
// amount*share/totalShare truncated toward zero; the leftover minor units
// are then assigned one at a time to the splits in input order, skipping
// zero-weight splits. The allocations always sum to amount exactly, so no
// currency unit is created or destroyed, and the result depends only on
// split input order.
//
// Example: 100 over shares {1,1,1} allocates 34,33,33.
func AllocateSplits(amount int64, splits []domain.Split) []int64 {
	allocations := make([]int64, len(splits))

	var totalShare int64
	for _, s := range splits {
		totalShare += s.Share
	}

	if totalShare <= 0 {
		return allocations
	}

	var allocated int64
	for i, s := range splits {
		allocations[i] = amount * s.Share / totalShare
		allocated += allocations[i]
	}

	remainder := amount - allocated

	step := int64(1)
	if remainder < 0 {
		step = -1
	}

	for i := 0; remainder != 0; i = (i + 1) % len(splits) {
		if splits[i].Share == 0 {
			continue
		}

		allocations[i] += step
		remainder -= step
	}

	return allocations
}
