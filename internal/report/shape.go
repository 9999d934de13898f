package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerboard/internal/taxonomy"
)

// NeutralGray colors labels missing from the palette and the placeholder row.
const NeutralGray = "#9CA3AF"

// NoDataLabel names the placeholder row of an empty composition series.
const NoDataLabel = "No data"

// Palette maps group labels to chart colors.
type Palette map[string]string

// DefaultColors covers the groups of taxonomy.DefaultGroups.
var DefaultColors = Palette{
	"Income":            "#22C55E",
	"Suppliers":         "#F59E0B",
	"Fixed Expenses":    "#3B82F6",
	"Personnel":         "#10B981",
	"Taxes":             "#EF4444",
	"Variable Expenses": "#8B5CF6",
}

// Color returns the color for label, NeutralGray when unmapped.
func (p Palette) Color(label string) string {
	if c, ok := p[label]; ok && c != "" {
		return c
	}
	return NeutralGray
}

// EmptySeriesPolicy decides what an empty composition series looks like.
type EmptySeriesPolicy int

const (
	// EmptySeriesSlice returns an empty sequence.
	EmptySeriesSlice EmptySeriesPolicy = iota
	// EmptySeriesPlaceholder returns one gray NoDataLabel row.
	EmptySeriesPlaceholder
)

// ParseEmptySeries maps "empty" and "placeholder" to a policy.
func ParseEmptySeries(s string) (EmptySeriesPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "empty":
		return EmptySeriesSlice, nil
	case "placeholder":
		return EmptySeriesPlaceholder, nil
	default:
		return 0, fmt.Errorf("unknown empty series policy %q", s)
	}
}

func (p EmptySeriesPolicy) String() string {
	if p == EmptySeriesPlaceholder {
		return "placeholder"
	}
	return "empty"
}

type (
	// Slice is a named, colored value (pie slices, bar rows).
	Slice struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
		Color string  `json:"color,omitempty"`
	}

	// MonthPoint pairs income and expense for one month.
	MonthPoint struct {
		Name    string  `json:"name"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}

	// StackedPoint holds one month of per-group expense values.
	StackedPoint struct {
		Name   string             `json:"name"`
		Values map[string]float64 `json:"values"`
	}
)

// ShapeComposition drops groups with a total <= 0 and sorts the rest by
// value, descending. Equal values keep taxonomy order.
func ShapeComposition(byGroup map[string]float64, groups []taxonomy.Group, colors Palette, policy EmptySeriesPolicy) []Slice {
	out := make([]Slice, 0, len(groups))
	for _, g := range groups {
		v := roundCents(byGroup[g.Label])
		if v <= 0 {
			continue
		}
		out = append(out, Slice{Name: g.Label, Value: v, Color: colors.Color(g.Label)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	if len(out) == 0 {
		return emptyComposition(policy)
	}
	return out
}

func emptyComposition(policy EmptySeriesPolicy) []Slice {
	if policy == EmptySeriesPlaceholder {
		return []Slice{{Name: NoDataLabel, Value: 1, Color: NeutralGray}}
	}
	return []Slice{}
}

// ShapeGroupTotals lists every group in taxonomy order, zeros included.
func ShapeGroupTotals(byGroup map[string]float64, groups []taxonomy.Group, colors Palette) []Slice {
	out := make([]Slice, 0, len(groups))
	for _, g := range groups {
		out = append(out, Slice{Name: g.Label, Value: roundCents(byGroup[g.Label]), Color: colors.Color(g.Label)})
	}
	return out
}

// ShapeIncomeVsExpense emits one point per summary, in order.
func ShapeIncomeVsExpense(months []MonthSummary, withYear bool) []MonthPoint {
	out := make([]MonthPoint, 0, len(months))
	for _, m := range months {
		out = append(out, MonthPoint{
			Name:    MonthRef{Year: m.Year, Month: m.Month}.Label(withYear),
			Income:  roundCents(m.Income),
			Expense: roundCents(m.Expense),
		})
	}
	return out
}

// ShapeExpenseTrend emits one stacked point per summary with a value for
// every expense group.
func ShapeExpenseTrend(months []MonthSummary, groups []taxonomy.Group, withYear bool) []StackedPoint {
	out := make([]StackedPoint, 0, len(months))
	for _, m := range months {
		values := make(map[string]float64, len(groups))
		for _, g := range groups {
			values[g.Label] = roundCents(m.ExpenseByGroup[g.Label])
		}
		out = append(out, StackedPoint{
			Name:   MonthRef{Year: m.Year, Month: m.Month}.Label(withYear),
			Values: values,
		})
	}
	return out
}

// RoundKPI rounds to the nearest integer, halves away from zero.
func RoundKPI(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
