// Package taxonomy classifies flat ledger category keys into named income
// and expense groups.
package taxonomy

import "strings"

// Group is a named set of category keys sharing one role.
type Group struct {
	ID     string
	Label  string
	Income bool
	Keys   []string
}

// DefaultGroups is the category table used by the dashboard. Keys must be
// unique across all groups. Integrators extend it by passing a longer slice
// to New.
var DefaultGroups = []Group{
	{
		ID:     "income",
		Label:  "Income",
		Income: true,
		Keys:   []string{"sales_cash", "sales_card", "sales_transfer", "sales_delivery", "other_income"},
	},
	{
		ID:    "suppliers",
		Label: "Suppliers",
		Keys:  []string{"suppliers_food", "suppliers_beverage", "suppliers_packaging", "suppliers_other"},
	},
	{
		ID:    "fixed",
		Label: "Fixed Expenses",
		Keys:  []string{"rent", "utilities", "insurance", "internet_phone", "accounting", "software"},
	},
	{
		ID:    "personnel",
		Label: "Personnel",
		Keys:  []string{"salaries", "social_security", "freelancers", "training"},
	},
	{
		ID:    "taxes",
		Label: "Taxes",
		Keys:  []string{"vat", "income_tax", "local_taxes"},
	},
	{
		ID:    "variable",
		Label: "Variable Expenses",
		Keys:  []string{"maintenance", "marketing", "bank_fees", "cleaning", "fuel", "other_expenses"},
	},
}

// Taxonomy is an immutable lookup built from a group table.
type Taxonomy struct {
	groups []Group
	owner  map[string]int
}

// New indexes groups by category key. Group order is preserved and drives
// the order of every per-group series.
func New(groups []Group) *Taxonomy {
	t := &Taxonomy{
		groups: make([]Group, len(groups)),
		owner:  make(map[string]int),
	}
	for i, g := range groups {
		g.Keys = append([]string(nil), g.Keys...)
		t.groups[i] = g
		for _, key := range g.Keys {
			t.owner[key] = i
		}
	}
	return t
}

// Default returns a taxonomy built from DefaultGroups.
func Default() *Taxonomy {
	return New(DefaultGroups)
}

// Lookup returns the group owning key. ok is false for unclassified keys.
func (t *Taxonomy) Lookup(key string) (g Group, ok bool) {
	i, ok := t.owner[key]
	if !ok {
		return Group{}, false
	}
	return t.groups[i], true
}

// IsIncome reports whether key belongs to an income group.
func (t *Taxonomy) IsIncome(key string) bool {
	g, ok := t.Lookup(key)
	return ok && g.Income
}

// IncomeKeys lists every key of every income group, in table order.
func (t *Taxonomy) IncomeKeys() []string {
	var keys []string
	for _, g := range t.groups {
		if g.Income {
			keys = append(keys, g.Keys...)
		}
	}
	return keys
}

// ExpenseGroups lists the expense groups in table order.
func (t *Taxonomy) ExpenseGroups() []Group {
	var out []Group
	for _, g := range t.groups {
		if !g.Income {
			out = append(out, g)
		}
	}
	return out
}

// Label resolves the display label of key: the override when present,
// otherwise the key with underscores replaced by spaces.
func Label(key string, overrides map[string]string) string {
	if name, ok := overrides[key]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return strings.ReplaceAll(key, "_", " ")
}
