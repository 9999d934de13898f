package taxonomy

import (
	"reflect"
	"testing"
)

func TestDefaultGroupsHaveUniqueKeys(t *testing.T) {
	seen := map[string]string{}
	for _, g := range DefaultGroups {
		for _, key := range g.Keys {
			if other, ok := seen[key]; ok {
				t.Fatalf("key %q in both %q and %q", key, other, g.Label)
			}
			seen[key] = g.Label
		}
	}
}

func TestLookup(t *testing.T) {
	tax := Default()

	g, ok := tax.Lookup("sales_cash")
	if !ok || g.Label != "Income" || !g.Income {
		t.Fatalf("sales_cash -> %+v, %v", g, ok)
	}
	g, ok = tax.Lookup("rent")
	if !ok || g.Label != "Fixed Expenses" || g.Income {
		t.Fatalf("rent -> %+v, %v", g, ok)
	}
	if _, ok := tax.Lookup("mystery"); ok {
		t.Fatalf("unknown key should not resolve")
	}
	if tax.IsIncome("mystery") || tax.IsIncome("rent") || !tax.IsIncome("other_income") {
		t.Fatalf("IsIncome classification wrong")
	}
}

func TestIncomeAndExpenseGroups(t *testing.T) {
	tax := New([]Group{
		{ID: "in", Label: "In", Income: true, Keys: []string{"a", "b"}},
		{ID: "x", Label: "X", Keys: []string{"c"}},
		{ID: "in2", Label: "In2", Income: true, Keys: []string{"d"}},
		{ID: "y", Label: "Y", Keys: []string{"e", "f"}},
	})
	if got := tax.IncomeKeys(); !reflect.DeepEqual(got, []string{"a", "b", "d"}) {
		t.Errorf("IncomeKeys = %v", got)
	}
	var labels []string
	for _, g := range tax.ExpenseGroups() {
		labels = append(labels, g.Label)
	}
	if !reflect.DeepEqual(labels, []string{"X", "Y"}) {
		t.Errorf("ExpenseGroups = %v", labels)
	}
}

func TestNewCopiesInput(t *testing.T) {
	groups := []Group{{ID: "x", Label: "X", Keys: []string{"a"}}}
	tax := New(groups)
	groups[0].Keys[0] = "changed"
	if _, ok := tax.Lookup("a"); !ok {
		t.Fatalf("taxonomy should not alias caller slices")
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key       string
		overrides map[string]string
		want      string
	}{
		{"sales_cash", nil, "sales cash"},
		{"internet_phone", map[string]string{"internet_phone": "Fiber"}, "Fiber"},
		{"rent", map[string]string{"rent": "  "}, "rent"},
		{"a_b_c", map[string]string{"other": "x"}, "a b c"},
	}
	for _, tt := range tests {
		if got := Label(tt.key, tt.overrides); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
