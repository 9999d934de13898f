package google

import (
	"fmt"
	"strconv"
	"strings"

	"ledgerboard/internal/core"
)

// parseLedgerRows builds one user's ledger from a values matrix. The first
// row is a header with User, Year, Month (1-12), Day (1-31), Category and
// Value columns, in any order, plus an optional Label column carrying a
// display name for the category. Rows of other users are ignored.
func parseLedgerRows(sheet string, values [][]interface{}, userID string) (core.Ledger, error) {
	if len(values) == 0 {
		return nil, core.ErrNotFound
	}
	headers := toStrings(values[0])
	cols := map[string]int{}
	var missing []string
	for _, name := range []string{"User", "Year", "Month", "Day", "Category", "Value"} {
		idx := indexOf(headers, name)
		if idx == -1 {
			missing = append(missing, name)
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, &core.DataShapeError{
			Path:   sheet,
			Reason: fmt.Sprintf("missing columns %s; got headers=%v", strings.Join(missing, ","), headers),
		}
	}
	colLabel := indexOf(headers, "Label")

	ledger := core.Ledger{}
	found := false
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if safeGet(row, cols["User"]) != userID {
			continue
		}
		found = true

		yearKey := safeGet(row, cols["Year"])
		if _, err := strconv.Atoi(yearKey); err != nil {
			continue
		}
		month, err := strconv.Atoi(safeGet(row, cols["Month"]))
		if err != nil || month < 1 || month > 12 {
			continue
		}
		day, err := strconv.Atoi(safeGet(row, cols["Day"]))
		if err != nil || day < 1 || day > 31 {
			continue
		}
		key := safeGet(row, cols["Category"])
		if key == "" {
			continue
		}

		year, ok := ledger[yearKey]
		if !ok {
			year = core.Year{}
			ledger[yearKey] = year
		}
		rec, ok := year[month-1]
		if !ok {
			rec = core.MonthRecord{Categories: map[string][]float64{}, CustomNames: map[string]string{}}
		}

		daily := rec.Categories[key]
		for len(daily) < day {
			daily = append(daily, 0)
		}
		daily[day-1] += parseValue(safeGet(row, cols["Value"]))
		rec.Categories[key] = daily

		if label := safeGet(row, colLabel); label != "" {
			rec.CustomNames[key] = label
		}
		year[month-1] = rec
	}

	if !found {
		return nil, core.ErrNotFound
	}
	return ledger, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseValue reads a cell as a number, accepting a decimal comma. Anything
// else counts as zero.
func parseValue(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
