// Package core holds the ledger data model shared by the readers, the
// import worker and the reporting engine.
package core

import (
	"sort"
	"strconv"
)

type (
	// Ledger is one user's document: year key -> month index (0-11) -> record.
	// Year keys are kept as strings; ordering between years is lexical.
	Ledger map[string]Year

	// Year maps a zero-based month index to its record.
	Year map[int]MonthRecord

	// MonthRecord is a fully populated month. Missing daily values are
	// already coerced to zero by DecodeLedger.
	MonthRecord struct {
		Categories   map[string][]float64
		CustomNames  map[string]string
		Transactions []FlatTransaction
	}

	// FlatTransaction is an entry of the optional per-month transactions list.
	FlatTransaction struct {
		Day         int
		Amount      float64
		Description string
		Category    string
	}

	// Period identifies one populated (year, month) pair of a ledger.
	Period struct {
		YearKey string
		Year    int
		Month   int // 0-11
	}
)

// YearKeys returns the year keys in lexical descending order, most recent first.
func (l Ledger) YearKeys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// HasYear reports whether the ledger holds at least one month for the year key.
func (l Ledger) HasYear(key string) bool {
	return len(l[key]) > 0
}

// Month returns the record for a year key and month index.
func (l Ledger) Month(yearKey string, month int) (MonthRecord, bool) {
	y, ok := l[yearKey]
	if !ok {
		return MonthRecord{}, false
	}
	rec, ok := y[month]
	return rec, ok
}

// Periods lists every populated (year, month) pair in ascending order.
func (l Ledger) Periods() []Period {
	var out []Period
	for key, months := range l {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		for m := range months {
			out = append(out, Period{YearKey: key, Year: year, Month: m})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// Months returns the populated month indexes of a year in ascending order.
func (y Year) Months() []int {
	out := make([]int, 0, len(y))
	for m := range y {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}
