package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripledger/tripledger/internal/calculator"
	"github.com/tripledger/tripledger/internal/domain"
)

// minorUnitExponent is the decimal exponent between minor and major
// currency units. Amounts are stored and computed in integer minor units;
// decimal rendering happens only here, at the presentation boundary.
const minorUnitExponent = -2

func major(amount int64) decimal.Decimal {
	return decimal.New(amount, minorUnitExponent)
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TripResponse represents a trip in API responses.
type TripResponse struct {
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TripFromDomain converts a domain trip to a response.
func TripFromDomain(t *domain.Trip) *TripResponse {
	return &TripResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TripsFromDomain converts domain trips to responses.
func TripsFromDomain(trips []*domain.Trip) []*TripResponse {
	result := make([]*TripResponse, len(trips))
	for i, t := range trips {
		result[i] = TripFromDomain(t)
	}
	return result
}

// MemberResponse represents a member in API responses.
type MemberResponse struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberFromDomain converts a domain member to a response.
func MemberFromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		TripID:    m.TripID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = MemberFromDomain(m)
	}
	return result
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	TargetBalance *int64    `json:"target_balance,omitempty"`
	ID            string    `json:"id"`
	TripID        string    `json:"trip_id"`
	Name          string    `json:"name"`
	MemberIDs     []string  `json:"member_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	memberIDs := w.MemberIDs
	if memberIDs == nil {
		memberIDs = []string{}
	}

	return &WalletResponse{
		ID:            w.ID,
		TripID:        w.TripID,
		Name:          w.Name,
		MemberIDs:     memberIDs,
		TargetBalance: w.TargetBalance,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// CategoryFromDomain converts a domain category to a response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		SortOrder: c.SortOrder,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// SplitResponse represents a split in API responses.
type SplitResponse struct {
	MemberID string `json:"member_id"`
	Share    int64  `json:"share"`
}

// TransactionResponse represents a transaction in API responses. Amount
// appears both in minor units and as a decimal string.
type TransactionResponse struct {
	OccurredAt    time.Time       `json:"occurred_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	WalletID      *string         `json:"wallet_id,omitempty"`
	ID            string          `json:"id"`
	TripID        string          `json:"trip_id"`
	CategoryID    string          `json:"category_id"`
	Type          string          `json:"type"`
	PayerID       string          `json:"payer_id"`
	Note          string          `json:"note"`
	Amount        int64           `json:"amount"`
	AmountDecimal decimal.Decimal `json:"amount_decimal"`
	Splits        []SplitResponse `json:"splits"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	splits := make([]SplitResponse, len(t.Splits))
	for i, s := range t.Splits {
		splits[i] = SplitResponse{MemberID: s.MemberID, Share: s.Share}
	}

	return &TransactionResponse{
		ID:            t.ID,
		TripID:        t.TripID,
		WalletID:      t.WalletID,
		CategoryID:    t.CategoryID,
		Type:          t.Type,
		PayerID:       t.PayerID,
		Note:          t.Note,
		Amount:        t.Amount,
		AmountDecimal: major(t.Amount),
		Splits:        splits,
		OccurredAt:    t.OccurredAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// BalanceEntry is one member's net position.
type BalanceEntry struct {
	MemberID      string          `json:"member_id"`
	Amount        int64           `json:"amount"`
	AmountDecimal decimal.Decimal `json:"amount_decimal"`
}

// BalancesResponse lists net balances sorted by member ID.
type BalancesResponse struct {
	TripID   string         `json:"trip_id"`
	Balances []BalanceEntry `json:"balances"`
}

// BalancesFromMap converts a balance map to a response with stable order.
func BalancesFromMap(tripID string, balances map[string]int64) *BalancesResponse {
	entries := make([]BalanceEntry, 0, len(balances))
	for id, amount := range balances {
		entries = append(entries, BalanceEntry{
			MemberID:      id,
			Amount:        amount,
			AmountDecimal: major(amount),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MemberID < entries[j].MemberID })

	return &BalancesResponse{TripID: tripID, Balances: entries}
}

// SettlementTransferResponse is one planned settlement payment.
type SettlementTransferResponse struct {
	FromMemberID  string          `json:"from_member_id"`
	ToMemberID    string          `json:"to_member_id"`
	Amount        int64           `json:"amount"`
	AmountDecimal decimal.Decimal `json:"amount_decimal"`
}

// SettlementResponse is the full settlement plan for a trip.
type SettlementResponse struct {
	TripID    string                       `json:"trip_id"`
	Transfers []SettlementTransferResponse `json:"transfers"`
}

// SettlementFromPlan converts planned transfers to a response.
func SettlementFromPlan(tripID string, transfers []calculator.Transfer) *SettlementResponse {
	result := make([]SettlementTransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = SettlementTransferResponse{
			FromMemberID:  t.FromMemberID,
			ToMemberID:    t.ToMemberID,
			Amount:        t.Amount,
			AmountDecimal: major(t.Amount),
		}
	}

	return &SettlementResponse{TripID: tripID, Transfers: result}
}

// SummaryResponse reports inflow, outflow and net over a range.
type SummaryResponse struct {
	Inflow         int64           `json:"inflow"`
	Outflow        int64           `json:"outflow"`
	Net            int64           `json:"net"`
	InflowDecimal  decimal.Decimal `json:"inflow_decimal"`
	OutflowDecimal decimal.Decimal `json:"outflow_decimal"`
	NetDecimal     decimal.Decimal `json:"net_decimal"`
}

// SummaryFromCalculator converts a summary to a response.
func SummaryFromCalculator(s *calculator.Summary) *SummaryResponse {
	return &SummaryResponse{
		Inflow:         s.Inflow,
		Outflow:        s.Outflow,
		Net:            s.Net,
		InflowDecimal:  major(s.Inflow),
		OutflowDecimal: major(s.Outflow),
		NetDecimal:     major(s.Net),
	}
}

// CategoryTotalResponse is one category's share of spending. Ratio is a
// percentage of the grand total with two decimal places.
type CategoryTotalResponse struct {
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	Amount        int64           `json:"amount"`
	AmountDecimal decimal.Decimal `json:"amount_decimal"`
	Ratio         decimal.Decimal `json:"ratio"`
}

// CategoryTotalsFromCalculator converts category totals to responses,
// computing each category's percentage of the overall total.
func CategoryTotalsFromCalculator(totals []calculator.CategoryTotal) []CategoryTotalResponse {
	var grand int64
	for _, t := range totals {
		grand += t.Amount
	}

	result := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		ratio := decimal.Zero
		if grand != 0 {
			ratio = decimal.NewFromInt(t.Amount).
				Div(decimal.NewFromInt(grand)).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}

		result[i] = CategoryTotalResponse{
			CategoryID:    t.CategoryID,
			CategoryName:  t.CategoryName,
			Amount:        t.Amount,
			AmountDecimal: major(t.Amount),
			Ratio:         ratio,
		}
	}

	return result
}

// TrendPointResponse is one time bucket in a spending trend.
type TrendPointResponse struct {
	BucketStart   time.Time       `json:"bucket_start"`
	Amount        int64           `json:"amount"`
	AmountDecimal decimal.Decimal `json:"amount_decimal"`
}

// TrendFromCalculator converts trend points to responses.
func TrendFromCalculator(points []calculator.TrendPoint) []TrendPointResponse {
	result := make([]TrendPointResponse, len(points))
	for i, p := range points {
		result[i] = TrendPointResponse{
			BucketStart:   p.BucketStart,
			Amount:        p.Amount,
			AmountDecimal: major(p.Amount),
		}
	}
	return result
}

// MemberStatResponse is one member's expense breakdown.
type MemberStatResponse struct {
	ByCategory    map[string]int64 `json:"by_category"`
	MemberID      string           `json:"member_id"`
	MemberName    string           `json:"member_name"`
	Total         int64            `json:"total"`
	TotalDecimal  decimal.Decimal  `json:"total_decimal"`
}

// PerPersonResponse is the per-member expense report of a trip.
type PerPersonResponse struct {
	TripID         string                  `json:"trip_id"`
	MemberStats    []MemberStatResponse    `json:"member_stats"`
	CategoryTotals []CategoryTotalResponse `json:"category_totals"`
	TotalExpense   int64                   `json:"total_expense"`
	AverageExpense int64                   `json:"average_expense"`
	MemberCount    int                     `json:"member_count"`
}

// PerPersonFromCalculator converts a per-person report to a response.
func PerPersonFromCalculator(tripID string, report *calculator.PerPersonReport) *PerPersonResponse {
	stats := make([]MemberStatResponse, len(report.MemberStats))
	for i, s := range report.MemberStats {
		stats[i] = MemberStatResponse{
			MemberID:     s.MemberID,
			MemberName:   s.MemberName,
			Total:        s.Total,
			TotalDecimal: major(s.Total),
			ByCategory:   s.ByCategory,
		}
	}

	return &PerPersonResponse{
		TripID:         tripID,
		MemberStats:    stats,
		CategoryTotals: CategoryTotalsFromCalculator(report.CategoryTotals),
		TotalExpense:   report.TotalExpense,
		AverageExpense: report.AverageExpense,
		MemberCount:    report.MemberCount,
	}
}

// WalletSummaryResponse reports one wallet's activity. TargetDelta is only
// present for wallets with a target balance set.
type WalletSummaryResponse struct {
	PerMember        map[string]int64 `json:"per_member"`
	TargetDelta      *int64           `json:"target_delta,omitempty"`
	WalletID         string           `json:"wallet_id"`
	WalletName       string           `json:"wallet_name"`
	TotalInflow      int64            `json:"total_inflow"`
	TotalOutflow     int64            `json:"total_outflow"`
	NetBalance       int64            `json:"net_balance"`
	TransactionCount int              `json:"transaction_count"`
}

// WalletSummariesFromCalculator converts wallet summaries to responses.
func WalletSummariesFromCalculator(summaries []*calculator.WalletSummary) []*WalletSummaryResponse {
	result := make([]*WalletSummaryResponse, len(summaries))
	for i, s := range summaries {
		result[i] = &WalletSummaryResponse{
			WalletID:         s.WalletID,
			WalletName:       s.WalletName,
			PerMember:        s.PerMember,
			TotalInflow:      s.TotalInflow,
			TotalOutflow:     s.TotalOutflow,
			NetBalance:       s.NetBalance,
			TargetDelta:      s.TargetDelta,
			TransactionCount: s.TransactionCount,
		}
	}
	return result
}
