package worker

import (
	"context"
	"errors"
	"fmt"

	"ledgerboard/internal/amqp"
	"ledgerboard/internal/core"
	"ledgerboard/internal/ledgers"
	applog "ledgerboard/internal/log"
	"ledgerboard/internal/storage"
)

// infoReader is implemented by stores that track when a ledger was last
// written.
type infoReader interface {
	GetLedgerInfo(ctx context.Context, userID string) (storage.LedgerInfo, error)
}

// ImportWorker validates incoming ledger documents and writes them to the
// store.
type ImportWorker struct {
	store  ledgers.LedgerWriter
	logger *applog.Logger
}

func NewImportWorker(store ledgers.LedgerWriter, logger *applog.Logger) *ImportWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ImportWorker{
		store:  store,
		logger: logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleLedgerUpdate processes one message. Invalid user IDs and documents
// that fail decoding wrap amqp.ErrDiscard; store failures are returned as is
// so the message is retried. Messages older than the stored document are
// acknowledged and dropped.
func (w *ImportWorker) HandleLedgerUpdate(ctx context.Context, msg *amqp.LedgerUpdateMessage) error {
	if !ledgers.ValidUserID(msg.UserID) {
		return fmt.Errorf("%w: invalid user id %q", amqp.ErrDiscard, msg.UserID)
	}

	ledger, err := core.DecodeLedger(msg.Ledger)
	if err != nil {
		w.logger.WarnContext(ctx, "Rejecting malformed ledger",
			applog.FieldUserID, msg.UserID,
			applog.FieldError, err)
		return fmt.Errorf("%w: %v", amqp.ErrDiscard, err)
	}

	if stale, err := w.isStale(ctx, msg); err != nil {
		return err
	} else if stale {
		w.logger.InfoContext(ctx, "Skipping stale ledger update",
			applog.FieldUserID, msg.UserID,
			"timestamp", msg.Timestamp)
		return nil
	}

	if err := w.store.SaveLedger(ctx, msg.UserID, msg.Ledger); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	w.logger.InfoContext(ctx, "Imported ledger",
		applog.FieldUserID, msg.UserID,
		applog.FieldOperation, applog.OpImport,
		"years", len(ledger.YearKeys()),
		"periods", len(ledger.Periods()))
	return nil
}

func (w *ImportWorker) isStale(ctx context.Context, msg *amqp.LedgerUpdateMessage) (bool, error) {
	ir, ok := w.store.(infoReader)
	if !ok || msg.Timestamp.IsZero() {
		return false, nil
	}
	info, err := ir.GetLedgerInfo(ctx, msg.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get ledger info: %w", err)
	}
	return msg.Timestamp.Before(info.UpdatedAt), nil
}
