package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"ledgerboard/internal/core"
	"ledgerboard/internal/taxonomy"
)

// Direction selects how the recent-transactions feed decides inflow/outflow.
type Direction int

const (
	// DirectionTaxonomy derives entries from positive daily category values;
	// income-group keys are inflows, everything else outflows.
	DirectionTaxonomy Direction = iota
	// DirectionSign derives entries from the per-month transactions list;
	// positive amounts are inflows, negative amounts outflows, zero rows are
	// skipped.
	DirectionSign
)

const (
	TypeInflow  = "inflow"
	TypeOutflow = "outflow"
)

// ParseDirection maps "taxonomy" and "sign" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "taxonomy":
		return DirectionTaxonomy, nil
	case "sign":
		return DirectionSign, nil
	default:
		return 0, fmt.Errorf("unknown transaction direction %q", s)
	}
}

func (d Direction) String() string {
	if d == DirectionSign {
		return "sign"
	}
	return "taxonomy"
}

// Transaction is one row of the recent-transactions feed.
type Transaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`

	at time.Time
}

// At returns the transaction date.
func (t Transaction) At() time.Time {
	return t.at
}

// daysIn returns the length of the zero-based month.
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

func newTransaction(id, desc string, amount float64, kind string, year, month, day int) Transaction {
	at := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
	return Transaction{
		ID:          id,
		Description: desc,
		Amount:      roundCents(amount),
		Type:        kind,
		Date:        at.Format("2006-01-02"),
		at:          at,
	}
}

// RecentTransactions derives the feed from the whole ledger, newest first,
// truncated to limit. Entries sharing a date keep ledger order.
func RecentTransactions(ledger core.Ledger, tax *taxonomy.Taxonomy, dir Direction, limit int) []Transaction {
	if limit <= 0 {
		return nil
	}
	var txs []Transaction
	if dir == DirectionSign {
		txs = signTransactions(ledger)
	} else {
		txs = taxonomyTransactions(ledger, tax)
	}
	return latest(txs, limit)
}

func latest(txs []Transaction, limit int) []Transaction {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].at.After(txs[j].at)
	})
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs
}

func taxonomyTransactions(ledger core.Ledger, tax *taxonomy.Taxonomy) []Transaction {
	var txs []Transaction
	for _, p := range ledger.Periods() {
		rec, _ := ledger.Month(p.YearKey, p.Month)
		lastDay := daysIn(p.Year, p.Month)
		keys := make([]string, 0, len(rec.Categories))
		for key := range rec.Categories {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			kind := TypeOutflow
			if tax.IsIncome(key) {
				kind = TypeInflow
			}
			label := taxonomy.Label(key, rec.CustomNames)
			for i, v := range rec.Categories[key] {
				day := i + 1
				if day > lastDay {
					break
				}
				if !(v > 0) || math.IsInf(v, 0) {
					continue
				}
				id := fmt.Sprintf("%s-%d-%d-%s", p.YearKey, p.Month, day, key)
				txs = append(txs, newTransaction(id, label, v, kind, p.Year, p.Month, day))
			}
		}
	}
	return txs
}

func signTransactions(ledger core.Ledger) []Transaction {
	var txs []Transaction
	for _, p := range ledger.Periods() {
		rec, _ := ledger.Month(p.YearKey, p.Month)
		lastDay := daysIn(p.Year, p.Month)
		for i, ft := range rec.Transactions {
			if ft.Amount == 0 || math.IsNaN(ft.Amount) || math.IsInf(ft.Amount, 0) {
				continue
			}
			kind := TypeInflow
			if ft.Amount < 0 {
				kind = TypeOutflow
			}
			day := ft.Day
			if day < 1 {
				day = 1
			}
			if day > lastDay {
				day = lastDay
			}
			desc := strings.TrimSpace(ft.Description)
			if desc == "" && ft.Category != "" {
				desc = taxonomy.Label(ft.Category, rec.CustomNames)
			}
			id := fmt.Sprintf("%s-%d-%d-%d-%s", p.YearKey, p.Month, day, i, kind)
			txs = append(txs, newTransaction(id, desc, math.Abs(ft.Amount), kind, p.Year, p.Month, day))
		}
	}
	return txs
}
