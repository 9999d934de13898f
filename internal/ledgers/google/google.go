package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ledgerboard/internal/core"
	"ledgerboard/internal/ledgers"
)

// Read retries for throttled or failing Sheets calls. The total stays
// well inside the HTTP request timeout.
const (
	readAttempts = 3
	readDelay    = 250 * time.Millisecond
)

// Config selects the spreadsheet and credentials.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Client reads ledgers from a single sheet holding one row per daily
// category value. See parseLedgerRows for the expected columns.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var (
	_ ledgers.LedgerReader = (*Client)(nil)
	_ ledgers.Pinger       = (*Client)(nil)
)

// NewClient creates a read-only Sheets client authenticated with a service
// account.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Ledger"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		sheetName:     sheet,
	}, nil
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsReadonlyScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ReadLedger implements ledgers.LedgerReader. The whole sheet is fetched on
// every call.
func (c *Client) ReadLedger(ctx context.Context, userID string) (core.Ledger, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	if !ledgers.ValidUserID(userID) {
		return nil, core.ErrNotFound
	}

	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	var resp *gsheet.ValueRange
	err := retry.Do(
		func() error {
			var err error
			resp, err = c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
				ValueRenderOption("UNFORMATTED_VALUE").
				Context(ctx).
				Do()
			return err
		},
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			slog.WarnContext(ctx, "Sheets read failed, retrying", "attempt", n+1, "error", err)
		}),
		retry.Attempts(readAttempts),
		retry.Delay(readDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("read ledger sheet: %w", err)
	}

	return parseLedgerRows(c.sheetName, resp.Values, userID)
}

// retryable reports whether a Sheets API error is worth another attempt:
// rate limiting and server-side failures.
func retryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}

// Ping implements ledgers.Pinger by fetching the spreadsheet id only.
func (c *Client) Ping(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	return nil
}
