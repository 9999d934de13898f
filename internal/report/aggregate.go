package report

import (
	"github.com/shopspring/decimal"

	"ledgerboard/internal/core"
	"ledgerboard/internal/taxonomy"
)

// Totals is the reduction of a run of month summaries.
type Totals struct {
	Income   float64
	Expense  float64
	Net      float64
	ByGroup  map[string]float64
	PerMonth []MonthSummary
}

// Aggregate sums months in order. Net is the running total of
// income minus expense; it is exactly 0 for an empty input.
func Aggregate(months []MonthSummary) Totals {
	income, expense, net := decimal.Zero, decimal.Zero, decimal.Zero
	byGroup := map[string]decimal.Decimal{}

	for _, m := range months {
		in := decimal.NewFromFloat(m.Income)
		out := decimal.NewFromFloat(m.Expense)
		income = income.Add(in)
		expense = expense.Add(out)
		net = net.Add(in.Sub(out))
		for label, v := range m.ExpenseByGroup {
			byGroup[label] = byGroup[label].Add(decimal.NewFromFloat(v))
		}
	}

	totals := Totals{
		Income:   income.InexactFloat64(),
		Expense:  expense.InexactFloat64(),
		Net:      net.InexactFloat64(),
		ByGroup:  make(map[string]float64, len(byGroup)),
		PerMonth: months,
	}
	for label, v := range byGroup {
		totals.ByGroup[label] = v.InexactFloat64()
	}
	return totals
}

// summarizeMonths looks each month up in the ledger; months without data
// produce an all-zero summary.
func summarizeMonths(tax *taxonomy.Taxonomy, ledger core.Ledger, months []MonthRef) []MonthSummary {
	out := make([]MonthSummary, 0, len(months))
	for _, ref := range months {
		rec, _ := ledger.Month(ref.YearKey(), ref.Month)
		out = append(out, Summarize(tax, ref.Year, ref.Month, rec))
	}
	return out
}

// summarizeYear covers only the populated months of yearKey.
func summarizeYear(tax *taxonomy.Taxonomy, ledger core.Ledger, yearKey string) []MonthSummary {
	var out []MonthSummary
	for _, p := range ledger.Periods() {
		if p.YearKey != yearKey {
			continue
		}
		rec, _ := ledger.Month(p.YearKey, p.Month)
		out = append(out, Summarize(tax, p.Year, p.Month, rec))
	}
	return out
}
