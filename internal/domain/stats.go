package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyTrendWindow is how many of the most recent calendar months (present
// in the data) the monthly trend retains.
const MonthlyTrendWindow = 6

// MonthlyStat holds the income and expense sums of one calendar month.
type MonthlyStat struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Label renders the bucket as MM/YYYY for display.
func (m MonthlyStat) Label() string {
	return fmt.Sprintf("%02d/%04d", int(m.Month), m.Year)
}

// Stats is the derived view over a transaction snapshot.
type Stats struct {
	TotalIncome  decimal.Decimal            `json:"totalIncome"`
	TotalExpense decimal.Decimal            `json:"totalExpense"`
	NetBalance   decimal.Decimal            `json:"netBalance"`
	ByCategory   map[string]decimal.Decimal `json:"byCategory"`
	ByMonth      []MonthlyStat              `json:"byMonth"`
}

// ComputeStats projects a transaction snapshot into summary statistics. It is
// pure and deterministic: the input order does not affect the output.
//
// ByCategory is a magnitude-of-activity metric: income and expense amounts
// both add positively to a category's total. ByMonth buckets by the calendar
// month of the transaction date, sorted ascending, keeping only the last
// MonthlyTrendWindow months present in the data; a transaction whose date is
// the zero value has no calendar month and is counted in the totals only.
func ComputeStats(transactions []Transaction) Stats {
	stats := Stats{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		NetBalance:   decimal.Zero,
		ByCategory:   make(map[string]decimal.Decimal),
		ByMonth:      []MonthlyStat{},
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	buckets := make(map[monthKey]*MonthlyStat)

	for _, tx := range transactions {
		if tx.Type == TypeIncome {
			stats.TotalIncome = stats.TotalIncome.Add(tx.Amount)
		} else {
			stats.TotalExpense = stats.TotalExpense.Add(tx.Amount)
		}

		current, ok := stats.ByCategory[tx.Category]
		if !ok {
			current = decimal.Zero
		}
		stats.ByCategory[tx.Category] = current.Add(tx.Amount)

		if tx.Date.IsZero() {
			continue
		}
		key := monthKey{year: tx.Date.Year(), month: tx.Date.Month()}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthlyStat{
				Year:    key.year,
				Month:   key.month,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			buckets[key] = bucket
		}
		if tx.Type == TypeIncome {
			bucket.Income = bucket.Income.Add(tx.Amount)
		} else {
			bucket.Expense = bucket.Expense.Add(tx.Amount)
		}
	}

	stats.NetBalance = stats.TotalIncome.Sub(stats.TotalExpense)

	months := make([]MonthlyStat, 0, len(buckets))
	for _, bucket := range buckets {
		months = append(months, *bucket)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	if len(months) > MonthlyTrendWindow {
		months = months[len(months)-MonthlyTrendWindow:]
	}
	stats.ByMonth = months

	return stats
}
