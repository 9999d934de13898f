package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeLedger(t *testing.T) {
	raw := []byte(`{
		"2025": {
			"6": {
				"categories": {"sales_cash": [100, "oops", 50, null, true], "rent": []},
				"customNames": {"sales_cash": "Cash sales", "rent": 12}
			},
			"12": {"categories": {"rent": [1]}},
			"x": {"categories": {"rent": [1]}}
		},
		"2024": {"0": null},
		"abc": {"0": {"categories": {"rent": [1]}}}
	}`)

	ledger, err := DecodeLedger(raw)
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if got := ledger.YearKeys(); !reflect.DeepEqual(got, []string{"2025"}) {
		t.Fatalf("YearKeys = %v, want [2025]", got)
	}
	rec, ok := ledger.Month("2025", 6)
	if !ok {
		t.Fatalf("July 2025 missing")
	}
	if want := []float64{100, 0, 50, 0, 0}; !reflect.DeepEqual(rec.Categories["sales_cash"], want) {
		t.Errorf("sales_cash = %v, want %v", rec.Categories["sales_cash"], want)
	}
	if rec.CustomNames["sales_cash"] != "Cash sales" {
		t.Errorf("custom name = %q", rec.CustomNames["sales_cash"])
	}
	if _, ok := rec.CustomNames["rent"]; ok {
		t.Errorf("non-string custom name should be dropped")
	}
	if len(ledger["2025"]) != 1 {
		t.Errorf("out of range month keys should be skipped, got %d months", len(ledger["2025"]))
	}
}

func TestDecodeLedgerTransactions(t *testing.T) {
	raw := []byte(`{"2025": {"5": {"transactions": [
		{"day": 2, "amount": -40.5, "description": "Fuel", "category": "fuel"},
		"garbage",
		{"day": 3, "amount": 10}
	]}}}`)
	ledger, err := DecodeLedger(raw)
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	rec, _ := ledger.Month("2025", 5)
	want := []FlatTransaction{
		{Day: 2, Amount: -40.5, Description: "Fuel", Category: "fuel"},
		{Day: 3, Amount: 10},
	}
	if !reflect.DeepEqual(rec.Transactions, want) {
		t.Fatalf("transactions = %+v, want %+v", rec.Transactions, want)
	}
}

func TestDecodeLedgerShapeErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		path string
	}{
		{"top level array", `[1,2]`, "$"},
		{"year not object", `{"2025": [1]}`, "$.2025"},
		{"month not object", `{"2025": {"1": 5}}`, "$.2025.1"},
		{"categories not object", `{"2025": {"1": {"categories": []}}}`, "$.2025.1.categories"},
		{"daily values not array", `{"2025": {"1": {"categories": {"rent": 5}}}}`, "$.2025.1.categories.rent"},
		{"transactions not array", `{"2025": {"1": {"transactions": {}}}}`, "$.2025.1.transactions"},
		{"custom names not object", `{"2025": {"1": {"customNames": "x"}}}`, "$.2025.1.customNames"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeLedger([]byte(tc.raw))
			var shapeErr *DataShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("expected DataShapeError, got %v", err)
			}
			if shapeErr.Path != tc.path {
				t.Errorf("path = %q, want %q", shapeErr.Path, tc.path)
			}
			if !IsDataShape(err) {
				t.Errorf("IsDataShape = false")
			}
		})
	}
}

func TestDecodeLedgerEmpty(t *testing.T) {
	for _, raw := range []string{``, `null`, `{}`, `{"2025": {}}`} {
		ledger, err := DecodeLedger([]byte(raw))
		if err != nil {
			t.Fatalf("%q: unexpected error %v", raw, err)
		}
		if len(ledger.YearKeys()) != 0 {
			t.Fatalf("%q: expected no years, got %v", raw, ledger.YearKeys())
		}
	}
}

func TestLedgerOrdering(t *testing.T) {
	ledger := Ledger{
		"2024": Year{11: {}, 2: {}},
		"2025": Year{0: {}},
		"2023": Year{5: {}},
	}
	if got := ledger.YearKeys(); !reflect.DeepEqual(got, []string{"2025", "2024", "2023"}) {
		t.Fatalf("YearKeys = %v", got)
	}
	want := []Period{
		{YearKey: "2023", Year: 2023, Month: 5},
		{YearKey: "2024", Year: 2024, Month: 2},
		{YearKey: "2024", Year: 2024, Month: 11},
		{YearKey: "2025", Year: 2025, Month: 0},
	}
	if got := ledger.Periods(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Periods = %+v, want %+v", got, want)
	}
	if got := ledger["2024"].Months(); !reflect.DeepEqual(got, []int{2, 11}) {
		t.Fatalf("Months = %v", got)
	}
}
