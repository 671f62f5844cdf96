package calculator

import (
	"errors"
	"sort"
	"time"

	"github.com/tripledger/tripledger/internal/domain"
)

// Trend bucket sizes.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// ErrInvalidBucket is returned for an unrecognized trend bucket size.
var ErrInvalidBucket = errors.New("invalid trend bucket")

// ErrUnboundedRange is returned when a trend is requested without both
// range bounds.
var ErrUnboundedRange = errors.New("trend requires a bounded time range")

// Range is a closed time interval. A zero From or To leaves that side
// unbounded.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}

	if !r.To.IsZero() && t.After(r.To) {
		return false
	}

	return true
}

// Summary is the total inflow, outflow and net over a transaction set.
type Summary struct {
	Inflow  int64
	Outflow int64
	Net     int64
}

// Summarize totals transfers (inflow) and expenses (outflow) within the
// range.
func Summarize(txns []domain.Transaction, r Range) Summary {
	var s Summary
	for _, t := range txns {
		if !r.Contains(t.OccurredAt) {
			continue
		}

		switch t.Type {
		case domain.TxnTypeTransfer:
			s.Inflow += t.Amount
		case domain.TxnTypeExpense:
			s.Outflow += t.Amount
		}
	}

	s.Net = s.Inflow - s.Outflow

	return s
}

// CategoryTotal is a per-category aggregate.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Amount       int64
}

// ByCategory groups transaction amounts by category within the range,
// sorted by descending total with ties broken by category name. txnType
// filters by transaction type; empty means all types.
func ByCategory(txns []domain.Transaction, categories []domain.Category, r Range, txnType string) []CategoryTotal {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	totals := make(map[string]int64)
	for _, t := range txns {
		if !r.Contains(t.OccurredAt) {
			continue
		}

		if txnType != "" && t.Type != txnType {
			continue
		}

		totals[t.CategoryID] += t.Amount
	}

	result := make([]CategoryTotal, 0, len(totals))
	for id, amount := range totals {
		result = append(result, CategoryTotal{
			CategoryID:   id,
			CategoryName: names[id],
			Amount:       amount,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount != result[j].Amount {
			return result[i].Amount > result[j].Amount
		}

		return result[i].CategoryName < result[j].CategoryName
	})

	return result
}

// TrendPoint is one time bucket of the trend view.
type TrendPoint struct {
	BucketStart time.Time
	Amount      int64
}

// Trend buckets transaction amounts into fixed intervals. The result has
// one point per bucket between From and To even when the total is zero, so
// callers never see gaps. Both range bounds must be set. The sequence is
// recomputed on every call; no iterator state is retained.
func Trend(txns []domain.Transaction, r Range, bucket Bucket, txnType string) ([]TrendPoint, error) {
	switch bucket {
	case BucketDay, BucketWeek, BucketMonth:
	default:
		return nil, ErrInvalidBucket
	}

	if r.From.IsZero() || r.To.IsZero() {
		return nil, ErrUnboundedRange
	}

	var points []TrendPoint
	index := make(map[time.Time]int)
	for start := truncateToBucket(r.From, bucket); !start.After(r.To); start = nextBucket(start, bucket) {
		index[start] = len(points)
		points = append(points, TrendPoint{BucketStart: start})
	}

	for _, t := range txns {
		if !r.Contains(t.OccurredAt) {
			continue
		}

		if txnType != "" && t.Type != txnType {
			continue
		}

		if i, ok := index[truncateToBucket(t.OccurredAt, bucket)]; ok {
			points[i].Amount += t.Amount
		}
	}

	return points, nil
}

// truncateToBucket returns the UTC start of the bucket containing t. Weeks
// start on Monday.
func truncateToBucket(t time.Time, bucket Bucket) time.Time {
	t = t.UTC()

	switch bucket {
	case BucketWeek:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		t = t.AddDate(0, 0, -(weekday - 1))

		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func nextBucket(start time.Time, bucket Bucket) time.Time {
	switch bucket {
	case BucketWeek:
		return start.AddDate(0, 0, 7)
	case BucketMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// MemberStat is one member's spending breakdown.
type MemberStat struct {
	ByCategory map[string]int64
	MemberID   string
	MemberName string
	Total      int64
}

// PerPersonReport is the per-member spending view for a trip.
type PerPersonReport struct {
	MemberStats    []MemberStat
	CategoryTotals []CategoryTotal
	TotalExpense   int64
	AverageExpense int64
	MemberCount    int
}

// PerPerson computes each member's share of trip expenses with a
// per-category breakdown, plus trip-wide category totals. Allocation uses
// the same exact-conservation rule as the balance engine.
func PerPerson(roster []domain.Member, categories []domain.Category, txns []domain.Transaction) (*PerPersonReport, error) {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	stats := make(map[string]*MemberStat, len(roster))
	for _, m := range roster {
		stats[m.ID] = &MemberStat{
			MemberID:   m.ID,
			MemberName: m.Name,
			ByCategory: make(map[string]int64),
		}
	}

	categoryTotals := make(map[string]int64)

	var total int64
	for i := range txns {
		t := &txns[i]
		if t.Type != domain.TxnTypeExpense {
			continue
		}

		allocations := AllocateSplits(t.Amount, t.Splits)
		for j, s := range t.Splits {
			stat, ok := stats[s.MemberID]
			if !ok {
				return nil, &domain.UnknownMemberError{MemberID: s.MemberID, TransactionID: t.ID}
			}

			stat.ByCategory[t.CategoryID] += allocations[j]
			stat.Total += allocations[j]
		}

		categoryTotals[t.CategoryID] += t.Amount
		total += t.Amount
	}

	report := &PerPersonReport{
		TotalExpense: total,
		MemberCount:  len(roster),
	}

	if len(roster) > 0 {
		report.AverageExpense = total / int64(len(roster))
	}

	report.MemberStats = make([]MemberStat, 0, len(stats))
	for _, m := range roster {
		report.MemberStats = append(report.MemberStats, *stats[m.ID])
	}

	report.CategoryTotals = make([]CategoryTotal, 0, len(categoryTotals))
	for id, amount := range categoryTotals {
		report.CategoryTotals = append(report.CategoryTotals, CategoryTotal{
			CategoryID:   id,
			CategoryName: names[id],
			Amount:       amount,
		})
	}

	sort.Slice(report.CategoryTotals, func(i, j int) bool {
		if report.CategoryTotals[i].Amount != report.CategoryTotals[j].Amount {
			return report.CategoryTotals[i].Amount > report.CategoryTotals[j].Amount
		}

		return report.CategoryTotals[i].CategoryName < report.CategoryTotals[j].CategoryName
	})

	return report, nil
}
