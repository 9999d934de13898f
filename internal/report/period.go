package report

import (
	"strconv"
	"strings"
	"time"

	"ledgerboard/internal/core"
)

// MonthNames labels month indexes 0-11.
var MonthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthRef is a calendar month with a zero-based month index.
type MonthRef struct {
	Year  int
	Month int
}

// CurrentMonth returns the calendar month of now.
func CurrentMonth(now time.Time) MonthRef {
	return MonthRef{Year: now.Year(), Month: int(now.Month()) - 1}
}

func (m MonthRef) index() int {
	return m.Year*12 + m.Month
}

func monthAt(index int) MonthRef {
	return MonthRef{Year: index / 12, Month: index % 12}
}

// YearKey is the ledger key of the month's year.
func (m MonthRef) YearKey() string {
	return strconv.Itoa(m.Year)
}

// Label is the bare month name, or "Jan 2025" when withYear is set.
func (m MonthRef) Label(withYear bool) string {
	if withYear {
		return MonthNames[m.Month] + " " + strconv.Itoa(m.Year)
	}
	return MonthNames[m.Month]
}

// ResolveYear picks the year key to report on: selected when the ledger has
// data for it, otherwise the lexically largest key. ok is false when the
// ledger has no years at all.
func ResolveYear(ledger core.Ledger, selected string) (year string, ok bool) {
	keys := ledger.YearKeys()
	if len(keys) == 0 {
		return "", false
	}
	selected = strings.TrimSpace(selected)
	if selected != "" && ledger.HasYear(selected) {
		return selected, true
	}
	return keys[0], true
}

// YearMonths returns January through the last populated month of yearKey,
// including months without data.
func YearMonths(ledger core.Ledger, yearKey string) []MonthRef {
	year, err := strconv.Atoi(yearKey)
	if err != nil {
		return nil
	}
	months := ledger[yearKey].Months()
	if len(months) == 0 {
		return nil
	}
	last := months[len(months)-1]
	out := make([]MonthRef, 0, last+1)
	for m := 0; m <= last; m++ {
		out = append(out, MonthRef{Year: year, Month: m})
	}
	return out
}

// TrailingWindow returns up to n consecutive months ending at now. The
// window starts later than now-(n-1) only when the ledger's earliest entry
// is more recent than that.
func TrailingWindow(ledger core.Ledger, now MonthRef, n int) []MonthRef {
	if n <= 0 {
		return nil
	}
	end := now.index()
	start := end - (n - 1)
	if periods := ledger.Periods(); len(periods) > 0 {
		first := MonthRef{Year: periods[0].Year, Month: periods[0].Month}.index()
		if first > start && first <= end {
			start = first
		}
	}
	out := make([]MonthRef, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, monthAt(i))
	}
	return out
}

func spansYears(months []MonthRef) bool {
	return len(months) > 0 && months[0].Year != months[len(months)-1].Year
}
