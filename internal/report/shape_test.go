package report

import (
	"reflect"
	"testing"

	"ledgerboard/internal/taxonomy"
)

func TestShapeComposition(t *testing.T) {
	groups := []taxonomy.Group{
		{Label: "Suppliers"}, {Label: "Fixed Expenses"}, {Label: "Personnel"}, {Label: "Unmapped"}, {Label: "Taxes"},
	}
	byGroup := map[string]float64{
		"Suppliers":      75.5,
		"Fixed Expenses": 500,
		"Personnel":      75.5,
		"Unmapped":       10,
		"Taxes":          -3,
	}
	got := ShapeComposition(byGroup, groups, DefaultColors, EmptySeriesSlice)
	want := []Slice{
		{Name: "Fixed Expenses", Value: 500, Color: "#3B82F6"},
		{Name: "Suppliers", Value: 75.5, Color: "#F59E0B"},
		{Name: "Personnel", Value: 75.5, Color: "#10B981"},
		{Name: "Unmapped", Value: 10, Color: NeutralGray},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("composition = %+v\nwant %+v", got, want)
	}
}

func TestShapeCompositionEmpty(t *testing.T) {
	groups := []taxonomy.Group{{Label: "Suppliers"}}
	zero := map[string]float64{"Suppliers": 0}

	got := ShapeComposition(zero, groups, DefaultColors, EmptySeriesSlice)
	if got == nil || len(got) != 0 {
		t.Fatalf("empty policy should give a non-nil empty slice, got %#v", got)
	}

	got = ShapeComposition(zero, groups, DefaultColors, EmptySeriesPlaceholder)
	want := []Slice{{Name: NoDataLabel, Value: 1, Color: NeutralGray}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("placeholder = %+v", got)
	}
}

func TestShapeGroupTotalsKeepsZeros(t *testing.T) {
	groups := []taxonomy.Group{{Label: "A"}, {Label: "B"}}
	got := ShapeGroupTotals(map[string]float64{"B": 2.345}, groups, Palette{"A": "#000"})
	want := []Slice{{Name: "A", Value: 0, Color: "#000"}, {Name: "B", Value: 2.35, Color: NeutralGray}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("group totals = %+v", got)
	}
}

func TestShapeSeries(t *testing.T) {
	groups := []taxonomy.Group{{Label: "A"}, {Label: "B"}}
	months := []MonthSummary{
		{Year: 2024, Month: 11, Income: 10, Expense: 4, ExpenseByGroup: map[string]float64{"A": 4}},
		{Year: 2025, Month: 0},
	}

	points := ShapeIncomeVsExpense(months, true)
	if len(points) != 2 || points[0].Name != "Dec 2024" || points[1].Name != "Jan 2025" {
		t.Fatalf("points = %+v", points)
	}
	if points[1].Income != 0 || points[1].Expense != 0 {
		t.Fatalf("empty month should be zero, got %+v", points[1])
	}

	trend := ShapeExpenseTrend(months, groups, false)
	want := []StackedPoint{
		{Name: "Dec", Values: map[string]float64{"A": 4, "B": 0}},
		{Name: "Jan", Values: map[string]float64{"A": 0, "B": 0}},
	}
	if !reflect.DeepEqual(trend, want) {
		t.Fatalf("trend = %+v", trend)
	}
}

func TestRoundKPI(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{2.4, 2},
		{2.5, 3},
		{655.5, 656},
		{-2.5, -3},
		{-205.5, -206},
		{1999.999, 2000},
	}
	for _, tt := range tests {
		if got := RoundKPI(tt.in); got != tt.want {
			t.Errorf("RoundKPI(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParsePolicies(t *testing.T) {
	if p, err := ParseEmptySeries("Placeholder"); err != nil || p != EmptySeriesPlaceholder {
		t.Errorf("ParseEmptySeries = %v, %v", p, err)
	}
	if _, err := ParseEmptySeries("nope"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
	if d, err := ParseDirection("sign"); err != nil || d != DirectionSign {
		t.Errorf("ParseDirection = %v, %v", d, err)
	}
	if d, err := ParseDirection(""); err != nil || d != DirectionTaxonomy {
		t.Errorf("ParseDirection default = %v, %v", d, err)
	}
	if _, err := ParseDirection("magnitude"); err == nil {
		t.Errorf("expected error for unknown direction")
	}
}
