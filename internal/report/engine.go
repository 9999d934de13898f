package report

import (
	"time"

	"ledgerboard/internal/core"
	"ledgerboard/internal/taxonomy"
)

// DefaultTrendWindow is the number of months in the expense trend chart.
const DefaultTrendWindow = 6

// DefaultRecentLimit is the length of the recent-transactions feed.
const DefaultRecentLimit = 5

// Options configures an Engine.
type Options struct {
	Taxonomy    *taxonomy.Taxonomy
	Colors      Palette
	TrendWindow int
	// RecentLimit caps the transactions feed; 0 disables it.
	RecentLimit int
	Direction   Direction
	EmptySeries EmptySeriesPolicy
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		Taxonomy:    taxonomy.Default(),
		Colors:      DefaultColors,
		TrendWindow: DefaultTrendWindow,
		RecentLimit: DefaultRecentLimit,
		Direction:   DirectionTaxonomy,
		EmptySeries: EmptySeriesSlice,
	}
}

type (
	// Request carries the per-call inputs of Build.
	Request struct {
		// SelectedYear is the optional ?year= value.
		SelectedYear string
		// Now fixes "this month" and the end of the trend window.
		Now time.Time
	}

	// KPI holds the rounded headline figures.
	KPI struct {
		MonthIncome   int64 `json:"monthIncome"`
		MonthExpense  int64 `json:"monthExpense"`
		MonthNet      int64 `json:"monthNet"`
		YearIncome    int64 `json:"yearIncome"`
		YearExpense   int64 `json:"yearExpense"`
		YearNetProfit int64 `json:"yearNetProfit"`
	}

	// Charts holds the chart-ready series.
	Charts struct {
		ExpenseComposition []Slice        `json:"expenseComposition"`
		GroupTotals        []Slice        `json:"groupTotals"`
		IncomeVsExpense    []MonthPoint   `json:"incomeVsExpense"`
		ExpenseTrend       []StackedPoint `json:"expenseTrend"`
	}

	// Report is the dashboard payload for one user.
	Report struct {
		SelectedYear       string        `json:"selectedYear"`
		AvailableYears     []string      `json:"availableYears"`
		HasData            bool          `json:"hasData"`
		KPI                KPI           `json:"kpi"`
		Charts             Charts        `json:"charts"`
		RecentTransactions []Transaction `json:"recentTransactions,omitempty"`
	}
)

// Engine builds reports. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	opts Options
}

// NewEngine fills unset options with defaults. RecentLimit is taken as is.
func NewEngine(opts Options) *Engine {
	if opts.Taxonomy == nil {
		opts.Taxonomy = taxonomy.Default()
	}
	if opts.Colors == nil {
		opts.Colors = DefaultColors
	}
	if opts.TrendWindow <= 0 {
		opts.TrendWindow = DefaultTrendWindow
	}
	if opts.RecentLimit < 0 {
		opts.RecentLimit = 0
	}
	return &Engine{opts: opts}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Empty is the report returned for a ledger without any year.
func (e *Engine) Empty() Report {
	return Report{
		AvailableYears: []string{},
		Charts: Charts{
			ExpenseComposition: emptyComposition(e.opts.EmptySeries),
			GroupTotals:        []Slice{},
			IncomeVsExpense:    []MonthPoint{},
			ExpenseTrend:       []StackedPoint{},
		},
	}
}

// Build reduces ledger into a report. It never fails: malformed entries
// were already defaulted by core.DecodeLedger.
func (e *Engine) Build(ledger core.Ledger, req Request) Report {
	year, ok := ResolveYear(ledger, req.SelectedYear)
	if !ok {
		return e.Empty()
	}

	tax := e.opts.Taxonomy
	groups := tax.ExpenseGroups()
	now := CurrentMonth(req.Now)

	current := summarizeMonths(tax, ledger, []MonthRef{now})[0]
	yearTotals := Aggregate(summarizeYear(tax, ledger, year))

	yearSeries := summarizeMonths(tax, ledger, YearMonths(ledger, year))
	window := TrailingWindow(ledger, now, e.opts.TrendWindow)
	windowSeries := summarizeMonths(tax, ledger, window)

	return Report{
		SelectedYear:   year,
		AvailableYears: ledger.YearKeys(),
		HasData:        true,
		KPI: KPI{
			MonthIncome:   RoundKPI(current.Income),
			MonthExpense:  RoundKPI(current.Expense),
			MonthNet:      RoundKPI(current.Income - current.Expense),
			YearIncome:    RoundKPI(yearTotals.Income),
			YearExpense:   RoundKPI(yearTotals.Expense),
			YearNetProfit: RoundKPI(yearTotals.Net),
		},
		Charts: Charts{
			ExpenseComposition: ShapeComposition(yearTotals.ByGroup, groups, e.opts.Colors, e.opts.EmptySeries),
			GroupTotals:        ShapeGroupTotals(yearTotals.ByGroup, groups, e.opts.Colors),
			IncomeVsExpense:    ShapeIncomeVsExpense(yearSeries, false),
			ExpenseTrend:       ShapeExpenseTrend(windowSeries, groups, spansYears(window)),
		},
		RecentTransactions: RecentTransactions(ledger, tax, e.opts.Direction, e.opts.RecentLimit),
	}
}
