package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tripledger/tripledger/internal/calculator"
	"github.com/tripledger/tripledger/internal/domain"
	"github.com/tripledger/tripledger/internal/infrastructure/metrics"
)

// StatsUseCase computes balances, settlement plans and aggregate reports.
// Results are cached keyed on the trip's ledger version, so a cache entry
// can never serve data older than the latest committed write.
type StatsUseCase struct {
	tripRepo     TripRepository
	memberRepo   MemberRepository
	walletRepo   WalletRepository
	categoryRepo CategoryRepository
	txnRepo      TransactionRepository
	cache        Cache
	metrics      *metrics.Metrics
}

// NewStatsUseCase creates a new StatsUseCase. The cache is optional; a nil
// cache disables memoization and every call recomputes.
func NewStatsUseCase(
	tripRepo TripRepository,
	memberRepo MemberRepository,
	walletRepo WalletRepository,
	categoryRepo CategoryRepository,
	txnRepo TransactionRepository,
	cache Cache,
) *StatsUseCase {
	return &StatsUseCase{
		tripRepo:     tripRepo,
		memberRepo:   memberRepo,
		walletRepo:   walletRepo,
		categoryRepo: categoryRepo,
		txnRepo:      txnRepo,
		cache:        cache,
	}
}

// WithMetrics attaches Prometheus instrumentation.
func (uc *StatsUseCase) WithMetrics(m *metrics.Metrics) *StatsUseCase {
	uc.metrics = m
	return uc
}

// Balances folds the trip's full transaction history into net balances per
// member. Positive means the member is owed money.
func (uc *StatsUseCase) Balances(ctx context.Context, tripID string) (map[string]int64, error) {
	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	var balances map[string]int64
	if uc.fromCache(ctx, "balances", cacheKey("balances", trip), &balances) {
		return balances, nil
	}

	roster, txns, err := uc.loadLedger(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances, err = calculator.Balances(roster, txns)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceComputations.Inc()
	}

	uc.toCache(ctx, cacheKey("balances", trip), balances)

	return balances, nil
}

// Settlement plans the minimal greedy transfer list that settles the trip.
func (uc *StatsUseCase) Settlement(ctx context.Context, tripID string) ([]calculator.Transfer, error) {
	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	var transfers []calculator.Transfer
	if uc.fromCache(ctx, "settlement", cacheKey("settlement", trip), &transfers) {
		return transfers, nil
	}

	roster, txns, err := uc.loadLedger(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances, err := calculator.Balances(roster, txns)
	if err != nil {
		return nil, err
	}

	transfers, err = calculator.PlanSettlement(balances)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsPlanned.Inc()
		uc.metrics.SettlementTransfers.Observe(float64(len(transfers)))
	}

	uc.toCache(ctx, cacheKey("settlement", trip), transfers)

	return transfers, nil
}

// Summary returns total inflow, outflow and net over the given range. An
// empty tripID aggregates across all trips.
func (uc *StatsUseCase) Summary(ctx context.Context, tripID string, r calculator.Range) (*calculator.Summary, error) {
	if err := uc.checkTrip(ctx, tripID); err != nil {
		return nil, err
	}

	txns, err := uc.loadTransactions(ctx, tripID)
	if err != nil {
		return nil, err
	}

	summary := calculator.Summarize(txns, r)

	return &summary, nil
}

// ByCategory returns per-category totals over the given range, sorted by
// descending amount. An empty tripID aggregates across all trips.
func (uc *StatsUseCase) ByCategory(ctx context.Context, tripID string, r calculator.Range, txnType string) ([]calculator.CategoryTotal, error) {
	if err := uc.checkTrip(ctx, tripID); err != nil {
		return nil, err
	}

	categories, err := uc.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	txns, err := uc.loadTransactions(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return calculator.ByCategory(txns, categories, r, txnType), nil
}

// Trend returns zero-filled time buckets over a bounded range. An empty
// tripID aggregates across all trips.
func (uc *StatsUseCase) Trend(ctx context.Context, tripID string, r calculator.Range, bucket calculator.Bucket, txnType string) ([]calculator.TrendPoint, error) {
	if err := uc.checkTrip(ctx, tripID); err != nil {
		return nil, err
	}

	txns, err := uc.loadTransactions(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return calculator.Trend(txns, r, bucket, txnType)
}

// PerPerson returns the per-member expense breakdown for a trip.
func (uc *StatsUseCase) PerPerson(ctx context.Context, tripID string) (*calculator.PerPersonReport, error) {
	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	var report calculator.PerPersonReport
	if uc.fromCache(ctx, "per-person", cacheKey("per-person", trip), &report) {
		return &report, nil
	}

	roster, txns, err := uc.loadLedger(ctx, tripID)
	if err != nil {
		return nil, err
	}

	categories, err := uc.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	result, err := calculator.PerPerson(roster, categories, txns)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, cacheKey("per-person", trip), result)

	return result, nil
}

// WalletSummaries reports every wallet of a trip.
func (uc *StatsUseCase) WalletSummaries(ctx context.Context, tripID string) ([]*calculator.WalletSummary, error) {
	if _, err := uc.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	wallets, err := uc.walletRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	roster, txns, err := uc.loadLedger(ctx, tripID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*calculator.WalletSummary, 0, len(wallets))
	for _, w := range wallets {
		summary, err := calculator.SummarizeWallet(*w, roster, txns)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// CheckConsistency verifies that the trip's balances sum to zero and that
// the settlement plan, applied to those balances, settles every member.
func (uc *StatsUseCase) CheckConsistency(ctx context.Context, tripID string) error {
	roster, txns, err := uc.loadLedger(ctx, tripID)
	if err != nil {
		return err
	}

	balances, err := calculator.Balances(roster, txns)
	if err != nil {
		return err
	}

	transfers, err := calculator.PlanSettlement(balances)
	if err != nil {
		return err
	}

	for _, tr := range transfers {
		balances[tr.FromMemberID] += tr.Amount
		balances[tr.ToMemberID] -= tr.Amount
	}

	for id, b := range balances {
		if b != 0 {
			return fmt.Errorf("member %s left with balance %d after settlement: %w", id, b, domain.ErrUnbalancedLedger)
		}
	}

	return nil
}

// checkTrip verifies that a trip exists when the aggregation is scoped to
// one. The empty tripID means all trips and needs no lookup.
func (uc *StatsUseCase) checkTrip(ctx context.Context, tripID string) error {
	if tripID == "" {
		return nil
	}

	_, err := uc.tripRepo.GetByID(ctx, tripID)
	return err
}

func (uc *StatsUseCase) loadLedger(ctx context.Context, tripID string) ([]domain.Member, []domain.Transaction, error) {
	members, err := uc.memberRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	roster := make([]domain.Member, len(members))
	for i, m := range members {
		roster[i] = *m
	}

	txns, err := uc.loadTransactions(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	return roster, txns, nil
}

func (uc *StatsUseCase) loadTransactions(ctx context.Context, tripID string) ([]domain.Transaction, error) {
	rows, err := uc.txnRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	txns := make([]domain.Transaction, len(rows))
	for i, t := range rows {
		txns[i] = *t
	}

	return txns, nil
}

func (uc *StatsUseCase) loadCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, len(rows))
	for i, c := range rows {
		categories[i] = *c
	}

	return categories, nil
}

func cacheKey(view string, trip *domain.Trip) string {
	return fmt.Sprintf("stats:%s:%s:v%d", view, trip.ID, trip.Version)
}

// fromCache reports whether dest was populated from the cache. Cache
// failures degrade to recomputation.
func (uc *StatsUseCase) fromCache(ctx context.Context, view, key string, dest any) bool {
	if uc.cache == nil {
		return false
	}

	data, err := uc.cache.Get(ctx, key)
	hit := err == nil && data != nil && json.Unmarshal(data, dest) == nil

	if uc.metrics != nil {
		if hit {
			uc.metrics.StatsCacheHits.WithLabelValues(view).Inc()
		} else {
			uc.metrics.StatsCacheMisses.WithLabelValues(view).Inc()
		}
	}

	return hit
}

func (uc *StatsUseCase) toCache(ctx context.Context, key string, value any) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	// Best effort; a failed write only costs a recomputation later.
	_ = uc.cache.Set(ctx, key, data, StatsCacheTTL)
}
