package calculator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripledger/tripledger/internal/calculator"
	"github.com/tripledger/tripledger/internal/domain"
)

func roster(ids ...string) []domain.Member {
	members := make([]domain.Member, len(ids))
	for i, id := range ids {
		members[i] = domain.Member{ID: id, Name: id, TripID: "trip-1"}
	}

	return members
}

func equalSplits(ids ...string) []domain.Split {
	splits := make([]domain.Split, len(ids))
	for i, id := range ids {
		splits[i] = domain.Split{MemberID: id, Share: 1}
	}

	return splits
}

func TestBalances(t *testing.T) {
	t.Run("single expense split three ways", func(t *testing.T) {
		txns := []domain.Transaction{
			{
				ID:      "t1",
				TripID:  "trip-1",
				Type:    domain.TxnTypeExpense,
				Amount:  90,
				PayerID: "a",
				Splits:  equalSplits("a", "b", "c"),
			},
		}

		balances, err := calculator.Balances(roster("a", "b", "c"), txns)
		require.NoError(t, err)
		require.Equal(t, map[string]int64{"a": 60, "b": -30, "c": -30}, balances)
	})

	t.Run("transfer offsets expense", func(t *testing.T) {
		txns := []domain.Transaction{
			{
				ID:      "t1",
				Type:    domain.TxnTypeExpense,
				Amount:  90,
				PayerID: "a",
				Splits:  equalSplits("a", "b", "c"),
			},
			{
				ID:      "t2",
				Type:    domain.TxnTypeTransfer,
				Amount:  30,
				PayerID: "b",
				Splits:  equalSplits("a"),
			},
			{
				ID:      "t3",
				Type:    domain.TxnTypeTransfer,
				Amount:  30,
				PayerID: "c",
				Splits:  equalSplits("a"),
			},
		}

		balances, err := calculator.Balances(roster("a", "b", "c"), txns)
		require.NoError(t, err)
		require.Equal(t, map[string]int64{"a": 0, "b": 0, "c": 0}, balances)
	})

	t.Run("empty transaction set yields zero balances", func(t *testing.T) {
		balances, err := calculator.Balances(roster("a", "b"), nil)
		require.NoError(t, err)
		require.Equal(t, map[string]int64{"a": 0, "b": 0}, balances)
	})

	t.Run("unknown payer surfaces error", func(t *testing.T) {
		txns := []domain.Transaction{
			{ID: "t1", Type: domain.TxnTypeExpense, Amount: 10, PayerID: "ghost", Splits: equalSplits("a")},
		}

		_, err := calculator.Balances(roster("a"), txns)

		var unknownErr *domain.UnknownMemberError
		require.True(t, errors.As(err, &unknownErr))
		require.Equal(t, "ghost", unknownErr.MemberID)
		require.Equal(t, "t1", unknownErr.TransactionID)
	})

	t.Run("unknown split member surfaces error", func(t *testing.T) {
		txns := []domain.Transaction{
			{ID: "t1", Type: domain.TxnTypeExpense, Amount: 10, PayerID: "a", Splits: equalSplits("a", "ghost")},
		}

		_, err := calculator.Balances(roster("a"), txns)

		var unknownErr *domain.UnknownMemberError
		require.True(t, errors.As(err, &unknownErr))
		require.Equal(t, "ghost", unknownErr.MemberID)
	})
}

func TestBalancesConservation(t *testing.T) {
	txns := []domain.Transaction{
		{ID: "t1", Type: domain.TxnTypeExpense, Amount: 100, PayerID: "a", Splits: equalSplits("a", "b", "c")},
		{ID: "t2", Type: domain.TxnTypeExpense, Amount: 77, PayerID: "b", Splits: []domain.Split{{MemberID: "a", Share: 2}, {MemberID: "c", Share: 3}}},
		{ID: "t3", Type: domain.TxnTypeTransfer, Amount: 13, PayerID: "c", Splits: equalSplits("a")},
		{ID: "t4", Type: domain.TxnTypeExpense, Amount: -5, PayerID: "a", Splits: equalSplits("b", "c")},
	}

	balances, err := calculator.Balances(roster("a", "b", "c", "d"), txns)
	require.NoError(t, err)

	var sum int64
	for _, b := range balances {
		sum += b
	}
	require.Zero(t, sum, "balances must always sum to zero")

	// Uninvolved members keep a zero balance but stay in the result.
	require.Contains(t, balances, "d")
	require.Zero(t, balances["d"])
}

func TestBalancesDeterminism(t *testing.T) {
	txns := []domain.Transaction{
		{ID: "t1", Type: domain.TxnTypeExpense, Amount: 100, PayerID: "a", Splits: equalSplits("a", "b", "c")},
		{ID: "t2", Type: domain.TxnTypeExpense, Amount: 31, PayerID: "c", Splits: equalSplits("b", "a")},
	}

	first, err := calculator.Balances(roster("a", "b", "c"), txns)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := calculator.Balances(roster("a", "b", "c"), txns)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestSummarizeWallet(t *testing.T) {
	walletID := "w1"
	otherID := "w2"
	wallet := domain.Wallet{ID: walletID, Name: "Pool", TripID: "trip-1", MemberIDs: []string{"a", "b"}}

	txns := []domain.Transaction{
		{ID: "t1", WalletID: &walletID, Type: domain.TxnTypeTransfer, Amount: 500, PayerID: "a", Splits: equalSplits("a", "b")},
		{ID: "t2", WalletID: &walletID, Type: domain.TxnTypeExpense, Amount: 120, PayerID: "b", Splits: equalSplits("a", "b")},
		{ID: "t3", WalletID: &otherID, Type: domain.TxnTypeExpense, Amount: 999, PayerID: "a", Splits: equalSplits("a")},
		{ID: "t4", Type: domain.TxnTypeExpense, Amount: 999, PayerID: "a", Splits: equalSplits("a")},
	}

	summary, err := calculator.SummarizeWallet(wallet, roster("a", "b"), txns)
	require.NoError(t, err)

	require.Equal(t, walletID, summary.WalletID)
	require.Equal(t, "Pool", summary.WalletName)
	require.Equal(t, 2, summary.TransactionCount)
	require.Equal(t, int64(500), summary.TotalInflow)
	require.Equal(t, int64(120), summary.TotalOutflow)
	require.Equal(t, int64(380), summary.NetBalance)
	require.Nil(t, summary.TargetDelta)

	// t1: a +500 -250, b -250; t2: b +120 -60, a -60.
	require.Equal(t, map[string]int64{"a": 190, "b": -190}, summary.PerMember)
}

func TestSummarizeWalletRejectsNonParticipant(t *testing.T) {
	walletID := "w1"
	wallet := domain.Wallet{ID: walletID, Name: "Pool", TripID: "trip-1", MemberIDs: []string{"a", "b"}}

	// c is on the trip roster but not a wallet participant; a wallet
	// expense split to c must fail instead of folding silently.
	txns := []domain.Transaction{
		{ID: "t1", WalletID: &walletID, Type: domain.TxnTypeExpense, Amount: 90, PayerID: "a", Splits: equalSplits("b", "c")},
	}

	_, err := calculator.SummarizeWallet(wallet, roster("a", "b", "c"), txns)

	var unknownErr *domain.UnknownMemberError
	require.True(t, errors.As(err, &unknownErr))
	require.Equal(t, "c", unknownErr.MemberID)
	require.Equal(t, "t1", unknownErr.TransactionID)
}

func TestSummarizeWalletTargetDelta(t *testing.T) {
	walletID := "w1"
	target := int64(300)
	wallet := domain.Wallet{ID: walletID, Name: "Kitty", TripID: "trip-1", MemberIDs: []string{"a", "b"}, TargetBalance: &target}

	txns := []domain.Transaction{
		{ID: "t1", WalletID: &walletID, Type: domain.TxnTypeTransfer, Amount: 500, PayerID: "a", Splits: equalSplits("a", "b")},
		{ID: "t2", WalletID: &walletID, Type: domain.TxnTypeExpense, Amount: 120, PayerID: "b", Splits: equalSplits("a", "b")},
	}

	summary, err := calculator.SummarizeWallet(wallet, roster("a", "b"), txns)
	require.NoError(t, err)

	require.Equal(t, int64(380), summary.NetBalance)
	require.NotNil(t, summary.TargetDelta)
	require.Equal(t, int64(80), *summary.TargetDelta)
}
