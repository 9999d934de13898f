// Package report turns a user's ledger into dashboard KPIs and chart series.
package report

import (
	"math"

	"github.com/shopspring/decimal"

	"ledgerboard/internal/core"
	"ledgerboard/internal/taxonomy"
)

// MonthSummary is the per-month reduction of a ledger month against a taxonomy.
type MonthSummary struct {
	Year           int
	Month          int // 0-11
	Income         float64
	Expense        float64
	ExpenseByGroup map[string]float64
}

// NormalizeMonth sums the daily values of every category in rec. A missing
// or empty record yields an empty map; it never fails.
func NormalizeMonth(rec core.MonthRecord) map[string]float64 {
	sums := normalize(rec)
	out := make(map[string]float64, len(sums))
	for key, v := range sums {
		out[key] = v.InexactFloat64()
	}
	return out
}

func normalize(rec core.MonthRecord) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal, len(rec.Categories))
	for key, days := range rec.Categories {
		total := decimal.Zero
		for _, v := range days {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			total = total.Add(decimal.NewFromFloat(v))
		}
		sums[key] = total
	}
	return sums
}

// Summarize classifies the category sums of one month. Keys missing from
// the taxonomy count toward neither income nor any expense group.
func Summarize(tax *taxonomy.Taxonomy, year, month int, rec core.MonthRecord) MonthSummary {
	sums := normalize(rec)

	income := decimal.Zero
	for _, key := range tax.IncomeKeys() {
		income = income.Add(sums[key])
	}

	expense := decimal.Zero
	byGroup := make(map[string]float64)
	for _, g := range tax.ExpenseGroups() {
		groupTotal := decimal.Zero
		for _, key := range g.Keys {
			groupTotal = groupTotal.Add(sums[key])
		}
		byGroup[g.Label] = groupTotal.InexactFloat64()
		expense = expense.Add(groupTotal)
	}

	return MonthSummary{
		Year:           year,
		Month:          month,
		Income:         income.InexactFloat64(),
		Expense:        expense.InexactFloat64(),
		ExpenseByGroup: byGroup,
	}
}
