package calculator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripledger/tripledger/internal/calculator"
	"github.com/tripledger/tripledger/internal/domain"
)

func TestPlanSettlement(t *testing.T) {
	t.Run("single creditor two equal debtors", func(t *testing.T) {
		transfers, err := calculator.PlanSettlement(map[string]int64{"a": 60, "b": -30, "c": -30})
		require.NoError(t, err)

		// Equal debts tie-break by ascending member ID.
		require.Equal(t, []calculator.Transfer{
			{FromMemberID: "b", ToMemberID: "a", Amount: 30},
			{FromMemberID: "c", ToMemberID: "a", Amount: 30},
		}, transfers)
	})

	t.Run("largest debtor pays largest creditor first", func(t *testing.T) {
		transfers, err := calculator.PlanSettlement(map[string]int64{"a": 70, "b": 30, "c": -80, "d": -20})
		require.NoError(t, err)

		require.Equal(t, []calculator.Transfer{
			{FromMemberID: "c", ToMemberID: "a", Amount: 70},
			{FromMemberID: "d", ToMemberID: "b", Amount: 20},
			{FromMemberID: "c", ToMemberID: "b", Amount: 10},
		}, transfers)
	})

	t.Run("zero balances produce no transfers", func(t *testing.T) {
		transfers, err := calculator.PlanSettlement(map[string]int64{"a": 0, "b": 0})
		require.NoError(t, err)
		require.Empty(t, transfers)
	})

	t.Run("empty input produces no transfers", func(t *testing.T) {
		transfers, err := calculator.PlanSettlement(nil)
		require.NoError(t, err)
		require.Empty(t, transfers)
	})

	t.Run("unbalanced ledger is refused", func(t *testing.T) {
		_, err := calculator.PlanSettlement(map[string]int64{"a": 10, "b": -5})
		require.ErrorIs(t, err, domain.ErrUnbalancedLedger)
	})
}

func TestPlanSettlementZeroesBalances(t *testing.T) {
	balances := map[string]int64{
		"a": 137, "b": -42, "c": -95, "d": 63, "e": -63, "f": 0,
	}

	transfers, err := calculator.PlanSettlement(balances)
	require.NoError(t, err)

	applied := make(map[string]int64, len(balances))
	for id, b := range balances {
		applied[id] = b
	}

	for _, tr := range transfers {
		require.Positive(t, tr.Amount)
		applied[tr.FromMemberID] += tr.Amount
		applied[tr.ToMemberID] -= tr.Amount
	}

	for id, b := range applied {
		require.Zerof(t, b, "member %s should end settled", id)
	}
}

func TestPlanSettlementTransferBound(t *testing.T) {
	balances := map[string]int64{
		"a": 100, "b": 50, "c": 25, "d": -75, "e": -60, "f": -40, "g": 0,
	}

	transfers, err := calculator.PlanSettlement(balances)
	require.NoError(t, err)

	nonZero := 0
	for _, b := range balances {
		if b != 0 {
			nonZero++
		}
	}

	require.LessOrEqual(t, len(transfers), nonZero-1)
}

func TestPlanSettlementDeterminism(t *testing.T) {
	balances := map[string]int64{"a": 40, "b": 40, "c": -40, "d": -40}

	first, err := calculator.PlanSettlement(balances)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := calculator.PlanSettlement(balances)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
