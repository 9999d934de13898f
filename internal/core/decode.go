package core

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DecodeLedger parses a raw ledger document.
//
// It is the single place where loosely typed input is defaulted: non-numeric
// daily values become 0, month keys outside 0-11 and non-integer year keys
// are dropped, null branches are treated as absent. Only structural fields
// of the wrong type (an object where an array is expected and vice versa)
// produce a *DataShapeError.
func DecodeLedger(data []byte) (Ledger, error) {
	if isNull(data) {
		return Ledger{}, nil
	}
	var years map[string]json.RawMessage
	if err := json.Unmarshal(data, &years); err != nil {
		return nil, &DataShapeError{Path: "$", Reason: "ledger must be an object", Err: err}
	}

	ledger := make(Ledger, len(years))
	for yearKey, rawYear := range years {
		if _, err := strconv.Atoi(yearKey); err != nil || isNull(rawYear) {
			continue
		}
		yearPath := "$." + yearKey

		var months map[string]json.RawMessage
		if err := json.Unmarshal(rawYear, &months); err != nil {
			return nil, &DataShapeError{Path: yearPath, Reason: "year must be an object", Err: err}
		}

		year := make(Year, len(months))
		for monthKey, rawMonth := range months {
			m, err := strconv.Atoi(monthKey)
			if err != nil || m < 0 || m > 11 || isNull(rawMonth) {
				continue
			}
			rec, err := decodeMonth(rawMonth, yearPath+"."+monthKey)
			if err != nil {
				return nil, err
			}
			year[m] = rec
		}
		if len(year) > 0 {
			ledger[yearKey] = year
		}
	}
	return ledger, nil
}

func decodeMonth(raw json.RawMessage, path string) (MonthRecord, error) {
	var doc struct {
		Categories   json.RawMessage `json:"categories"`
		CustomNames  json.RawMessage `json:"customNames"`
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return MonthRecord{}, &DataShapeError{Path: path, Reason: "month must be an object", Err: err}
	}

	rec := MonthRecord{
		Categories:  map[string][]float64{},
		CustomNames: map[string]string{},
	}

	if !isNull(doc.Categories) {
		var cats map[string]json.RawMessage
		if err := json.Unmarshal(doc.Categories, &cats); err != nil {
			return MonthRecord{}, &DataShapeError{Path: path + ".categories", Reason: "categories must be an object", Err: err}
		}
		for key, rawDays := range cats {
			if isNull(rawDays) {
				continue
			}
			var days []json.RawMessage
			if err := json.Unmarshal(rawDays, &days); err != nil {
				return MonthRecord{}, &DataShapeError{Path: path + ".categories." + key, Reason: "daily values must be an array", Err: err}
			}
			values := make([]float64, len(days))
			for i, d := range days {
				values[i] = number(d)
			}
			rec.Categories[key] = values
		}
	}

	if !isNull(doc.CustomNames) {
		var names map[string]json.RawMessage
		if err := json.Unmarshal(doc.CustomNames, &names); err != nil {
			return MonthRecord{}, &DataShapeError{Path: path + ".customNames", Reason: "customNames must be an object", Err: err}
		}
		for key, rawName := range names {
			if name, ok := text(rawName); ok && name != "" {
				rec.CustomNames[key] = name
			}
		}
	}

	if !isNull(doc.Transactions) {
		var entries []json.RawMessage
		if err := json.Unmarshal(doc.Transactions, &entries); err != nil {
			return MonthRecord{}, &DataShapeError{Path: path + ".transactions", Reason: "transactions must be an array", Err: err}
		}
		for _, rawEntry := range entries {
			var entry struct {
				Day         json.RawMessage `json:"day"`
				Amount      json.RawMessage `json:"amount"`
				Description json.RawMessage `json:"description"`
				Category    json.RawMessage `json:"category"`
			}
			if err := json.Unmarshal(rawEntry, &entry); err != nil {
				continue
			}
			tx := FlatTransaction{
				Day:    int(number(entry.Day)),
				Amount: number(entry.Amount),
			}
			tx.Description, _ = text(entry.Description)
			tx.Category, _ = text(entry.Category)
			rec.Transactions = append(rec.Transactions, tx)
		}
	}

	return rec, nil
}

// number returns the JSON number held by raw, or 0 for anything else.
func number(raw json.RawMessage) float64 {
	if isNull(raw) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return f
}

func text(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
