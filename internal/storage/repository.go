package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ledgerboard/internal/core"
	"ledgerboard/internal/ledgers"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores one JSON ledger document per user.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ledgers.LedgerReader = (*SQLiteRepository)(nil)
	_ ledgers.LedgerWriter = (*SQLiteRepository)(nil)
	_ ledgers.Pinger       = (*SQLiteRepository)(nil)
)

// LedgerInfo describes a stored document without decoding it.
type LedgerInfo struct {
	UserID    string
	Version   int64
	UpdatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Ledger schema ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadLedger implements ledgers.LedgerReader.
func (r *SQLiteRepository) ReadLedger(ctx context.Context, userID string) (core.Ledger, error) {
	var doc string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM ledgers WHERE user_id = ?`, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select ledger: %w", err)
	}
	return core.DecodeLedger([]byte(doc))
}

// SaveLedger implements ledgers.LedgerWriter. Each save bumps the version.
func (r *SQLiteRepository) SaveLedger(ctx context.Context, userID string, document []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ledgers (user_id, document, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			document = excluded.document,
			version = ledgers.version + 1,
			updated_at = excluded.updated_at`,
		userID, string(document), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger saved to SQLite",
		"user_id", userID,
		"size", len(document))
	return nil
}

// GetLedgerInfo returns the version and update time of a stored ledger.
func (r *SQLiteRepository) GetLedgerInfo(ctx context.Context, userID string) (LedgerInfo, error) {
	info := LedgerInfo{UserID: userID}
	err := r.db.QueryRowContext(ctx,
		`SELECT version, updated_at FROM ledgers WHERE user_id = ?`, userID).
		Scan(&info.Version, &info.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return info, core.ErrNotFound
	}
	if err != nil {
		return info, fmt.Errorf("select ledger info: %w", err)
	}
	return info, nil
}

// Ping implements ledgers.Pinger.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
