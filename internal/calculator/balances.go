package calculator

import (
	"github.com/tripledger/tripledger/internal/domain"
)

// Balances folds transactions into per-member net balances for a trip.
// Positive means the member is owed money, negative means the member owes.
//
// For each transaction the payer's balance increases by the full amount and
// each split member's balance decreases by their allocated share, so the
// resulting balances always sum to zero. A single pass suffices; the result
// is deterministic regardless of map iteration order because allocation
// follows split input order.
//
// Fails with *domain.UnknownMemberError when a transaction references a
// member absent from the roster.
func Balances(roster []domain.Member, txns []domain.Transaction) (map[string]int64, error) {
	balances := make(map[string]int64, len(roster))
	for _, m := range roster {
		balances[m.ID] = 0
	}

	for i := range txns {
		t := &txns[i]

		if _, ok := balances[t.PayerID]; !ok {
			return nil, &domain.UnknownMemberError{MemberID: t.PayerID, TransactionID: t.ID}
		}

		allocations := AllocateSplits(t.Amount, t.Splits)
		for j, s := range t.Splits {
			if _, ok := balances[s.MemberID]; !ok {
				return nil, &domain.UnknownMemberError{MemberID: s.MemberID, TransactionID: t.ID}
			}

			balances[s.MemberID] -= allocations[j]
		}

		balances[t.PayerID] += t.Amount
	}

	return balances, nil
}

// WalletSummary reports the balance fold restricted to a single wallet's
// transactions together with its flow totals. TargetDelta is net balance
// minus the wallet's target balance; nil when no target is set.
type WalletSummary struct {
	PerMember        map[string]int64
	TargetDelta      *int64
	WalletID         string
	WalletName       string
	TotalInflow      int64
	TotalOutflow     int64
	NetBalance       int64
	TransactionCount int
}

// SummarizeWallet runs the balance engine over the subsequence of
// transactions tagged with the wallet. Transfers count toward inflow,
// expenses toward outflow. Participant validation uses the wallet's own
// membership rather than the full trip roster, so a wallet transaction
// that references a non-participant fails with *domain.UnknownMemberError.
func SummarizeWallet(wallet domain.Wallet, roster []domain.Member, txns []domain.Transaction) (*WalletSummary, error) {
	filtered := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.WalletID != nil && *t.WalletID == wallet.ID {
			filtered = append(filtered, t)
		}
	}

	participants := make([]domain.Member, 0, len(wallet.MemberIDs))
	for _, m := range roster {
		if wallet.HasMember(m.ID) {
			participants = append(participants, m)
		}
	}

	perMember, err := Balances(participants, filtered)
	if err != nil {
		return nil, err
	}

	summary := &WalletSummary{
		WalletID:         wallet.ID,
		WalletName:       wallet.Name,
		PerMember:        perMember,
		TransactionCount: len(filtered),
	}

	for _, t := range filtered {
		switch t.Type {
		case domain.TxnTypeTransfer:
			summary.TotalInflow += t.Amount
		case domain.TxnTypeExpense:
			summary.TotalOutflow += t.Amount
		}
	}

	summary.NetBalance = summary.TotalInflow - summary.TotalOutflow

	if wallet.TargetBalance != nil {
		delta := summary.NetBalance - *wallet.TargetBalance
		summary.TargetDelta = &delta
	}

	return summary, nil
}
