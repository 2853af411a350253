package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx"
	_ "modernc.org/sqlite"             // driver "sqlite"

	"github.com/dhana112/PDF-Invoice-Extractor/internal/common"
	"github.com/dhana112/PDF-Invoice-Extractor/internal/fields"
)

const schema = `
CREATE TABLE IF NOT EXISTS invoice_records (
	run_id         TEXT NOT NULL,
	strategy       TEXT NOT NULL,
	source_file    TEXT NOT NULL,
	doc_type       TEXT NOT NULL,
	invoice_number TEXT,
	invoice_date   TEXT,
	vendor_name    TEXT,
	total_amount   DOUBLE PRECISION,
	currency       TEXT,
	created_at     TIMESTAMP NOT NULL
)`

// Store persists extracted records per run. The DSN picks the backend:
// postgres:// goes through pgx, anything else is treated as a SQLite path.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open connects, pings, and ensures the schema exists.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, common.WrapError(err, "open "+driver+" store")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "ping "+driver+" store")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "init store schema")
	}

	logger.Info("store.open", "driver", driver)
	return &Store{db: db, driver: driver, logger: logger}, nil
}

// SaveRun inserts every record under one run ID, atomically, tagged with the
// strategy that produced it. A comparison run saves twice under the same run
// ID, once per strategy.
func (s *Store) SaveRun(ctx context.Context, runID, strategy string, records []fields.FieldRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin store tx: %w", err)
	}

	stmt := fmt.Sprintf(`INSERT INTO invoice_records
		(run_id, strategy, source_file, doc_type, invoice_number, invoice_date, vendor_name, total_amount, currency, created_at)
		VALUES (%s)`, s.placeholders(10))
	now := time.Now().UTC()
	for _, r := range records {
		if _, err := tx.ExecContext(ctx, stmt,
			runID, strategy, r.SourceFile, r.DocType,
			r.InvoiceNumber, r.InvoiceDate, r.VendorName,
			r.TotalAmount, r.Currency, now,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert record %s: %w", r.SourceFile, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit store tx: %w", err)
	}

	s.logger.Info("store.run_saved", "run_id", runID, "strategy", strategy, "records", len(records))
	return nil
}

// CountRun reports how many records a run wrote; used by health checks and
// tests.
func (s *Store) CountRun(ctx context.Context, runID string) (int, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM invoice_records WHERE run_id = %s", s.placeholder(1))
	var n int
	if err := s.db.QueryRowContext(ctx, q, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count run: %w", err)
	}
	return n, nil
}

// CountRunStrategy reports how many records one strategy wrote within a run.
func (s *Store) CountRunStrategy(ctx context.Context, runID, strategy string) (int, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM invoice_records WHERE run_id = %s AND strategy = %s",
		s.placeholder(1), s.placeholder(2))
	var n int
	if err := s.db.QueryRowContext(ctx, q, runID, strategy).Scan(&n); err != nil {
		return 0, fmt.Errorf("count run strategy: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) placeholder(i int) string {
	if s.driver == "pgx" {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

func (s *Store) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}
