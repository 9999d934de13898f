package ledgers

import (
	"context"

	"ledgerboard/internal/core"
)

// Ports for ledger stores.
type (
	// LedgerReader fetches one user's ledger. It returns core.ErrNotFound
	// when the user has no ledger and a *core.DataShapeError when the stored
	// document cannot be read as a ledger.
	LedgerReader interface {
		ReadLedger(ctx context.Context, userID string) (core.Ledger, error)
	}

	// LedgerWriter replaces a user's ledger document.
	LedgerWriter interface {
		SaveLedger(ctx context.Context, userID string, document []byte) error
	}

	// Pinger is implemented by readers that can report their own health.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// ValidUserID reports whether id can name a ledger: non-empty, at most 128
// bytes, letters, digits, '-', '_' and '.' only, and not a dot path.
func ValidUserID(id string) bool {
	if id == "" || len(id) > 128 || id == "." || id == ".." {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
