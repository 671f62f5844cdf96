package calculator

import (
	"github.com/tripledger/tripledger/internal/domain"
)

// Transfer is a recommended settlement payment from a debtor to a creditor.
type Transfer struct {
	FromMemberID string
	ToMemberID   string
	Amount       int64
}

// PlanSettlement reduces per-member net balances to an ordered sequence of
// transfers that drives every balance to zero.
//
// Strategy: repeatedly match the largest creditor with the largest-magnitude
// debtor and transfer min(credit, debt); ties break by ascending member ID.
// This produces at most n-1 transfers for n non-zero-balance members. Exact
// transfer-count minimization is NP-hard; the greedy plan settles for
// determinism over minimality.
//
// Fails with domain.ErrUnbalancedLedger when the balances do not sum to
// zero rather than emitting a silently-wrong plan.
func PlanSettlement(balances map[string]int64) ([]Transfer, error) {
	var sum int64
	for _, b := range balances {
		sum += b
	}

	if sum != 0 {
		return nil, domain.ErrUnbalancedLedger
	}

	creditors := make(map[string]int64)
	debtors := make(map[string]int64)
	for id, b := range balances {
		switch {
		case b > 0:
			creditors[id] = b
		case b < 0:
			debtors[id] = -b
		}
	}

	transfers := make([]Transfer, 0, len(balances))
	for len(creditors) > 0 && len(debtors) > 0 {
		creditor := selectLargest(creditors)
		debtor := selectLargest(debtors)

		amount := creditors[creditor]
		if debtors[debtor] < amount {
			amount = debtors[debtor]
		}

		transfers = append(transfers, Transfer{
			FromMemberID: debtor,
			ToMemberID:   creditor,
			Amount:       amount,
		})

		creditors[creditor] -= amount
		if creditors[creditor] == 0 {
			delete(creditors, creditor)
		}

		debtors[debtor] -= amount
		if debtors[debtor] == 0 {
			delete(debtors, debtor)
		}
	}

	return transfers, nil
}

// selectLargest returns the key with the largest amount, breaking ties by
// ascending key for deterministic output.
func selectLargest(parties map[string]int64) string {
	var best string
	var bestAmount int64

	for id, amount := range parties {
		if amount > bestAmount || (amount == bestAmount && (best == "" || id < best)) {
			best = id
			bestAmount = amount
		}
	}

	return best
}
