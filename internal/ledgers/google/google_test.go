package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"server error", &googleapi.Error{Code: http.StatusBadGateway}, true},
		{"wrapped server error", fmt.Errorf("get: %w", &googleapi.Error{Code: http.StatusInternalServerError}), true},
		{"not found", &googleapi.Error{Code: http.StatusNotFound}, false},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, false},
		{"plain error", errors.New("boom"), false},
		{"cancelled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewClientRequiresSpreadsheetID(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{SpreadsheetID: "  "}); err == nil {
		t.Fatal("expected error for blank spreadsheet id")
	}
}

func TestUninitializedClient(t *testing.T) {
	var c Client
	if _, err := c.ReadLedger(context.Background(), "u1"); err == nil {
		t.Error("ReadLedger should fail without a service")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Error("Ping should fail without a service")
	}
}
