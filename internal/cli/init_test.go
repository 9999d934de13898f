package cli

import (
	"testing"

	"ledgerboard/internal/config"
	"ledgerboard/internal/report"
)

func TestEngineOptions(t *testing.T) {
	cfg := &config.Config{
		TrendWindowMonths:       12,
		RecentTransactionsLimit: 7,
		TransactionDirection:    "Sign",
		EmptySeries:             "placeholder",
	}

	opts, err := EngineOptions(cfg)
	if err != nil {
		t.Fatalf("EngineOptions: %v", err)
	}
	if opts.TrendWindow != 12 || opts.RecentLimit != 7 {
		t.Errorf("window=%d limit=%d", opts.TrendWindow, opts.RecentLimit)
	}
	if opts.Direction != report.DirectionSign {
		t.Errorf("direction = %v", opts.Direction)
	}
	if opts.EmptySeries != report.EmptySeriesPlaceholder {
		t.Errorf("empty series = %v", opts.EmptySeries)
	}
	if opts.Taxonomy == nil || opts.Colors == nil {
		t.Errorf("defaults not carried over")
	}
}

func TestEngineOptionsRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"direction", config.Config{TransactionDirection: "sideways"}},
		{"empty series", config.Config{EmptySeries: "zero"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EngineOptions(&tt.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
