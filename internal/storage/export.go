package storage

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
)

// Export bookkeeping. Purchases and income entries carry an
// export_status that moves pending -> exported (or error) as the worker
// appends them to the remote ledger sheet.

const (
	ExportPending  = "pending"
	ExportExported = "exported"
	ExportError    = "error"
)

const (
	ExportKindPurchase = "compra"
	ExportKindEntry    = "receita"
)

// PendingExport identifies a row waiting to be appended to the ledger
// sheet.
type PendingExport struct {
	Kind string
	ID   int64
}

// LedgerRecord is the denormalized view of a purchase or entry the
// worker writes out. Category and Account are resolved names, empty when
// the row has no such link.
type LedgerRecord struct {
	Kind        string
	ID          int64
	UserID      int64
	Date        time.Time
	Description string
	AmountCents int64
	Direction   core.EntryDirection
	Category    string
	Account     string
}

// GetPendingExports lists up to limit rows still waiting for export,
// oldest first, purchases and entries interleaved.
func (r *Repository) GetPendingExports(ctx context.Context, limit int) ([]PendingExport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, id FROM (
		    SELECT 'compra' AS kind, id, created_at FROM compras WHERE export_status = 'pending'
		    UNION ALL
		    SELECT 'receita' AS kind, id, created_at FROM receitas WHERE export_status = 'pending'
		 ) ORDER BY created_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending exports: %w", err)
	}
	defer rows.Close()

	var pending []PendingExport
	for rows.Next() {
		var p PendingExport
		if err := rows.Scan(&p.Kind, &p.ID); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// GetLedgerRecord re-reads a purchase or entry as the row the export
// worker appends. The worker trusts the queue message only for the kind
// and id; everything else comes from the database at export time.
func (r *Repository) GetLedgerRecord(ctx context.Context, kind string, id int64) (LedgerRecord, error) {
	switch kind {
	case ExportKindPurchase:
		return r.purchaseLedgerRecord(ctx, id)
	case ExportKindEntry:
		return r.entryLedgerRecord(ctx, id)
	default:
		return LedgerRecord{}, fmt.Errorf("unknown export kind %q", kind)
	}
}

func (r *Repository) purchaseLedgerRecord(ctx context.Context, id int64) (LedgerRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT c.id, c.user_id, c.date, c.establishment, c.value_cents,
		        COALESCE(cat.name, ''), COALESCE(ct.name, '')
		 FROM compras c
		 LEFT JOIN categorias cat ON cat.id = c.category_id
		 LEFT JOIN contas ct ON ct.id = c.account_id
		 WHERE c.id = ?`, id)

	rec := LedgerRecord{Kind: ExportKindPurchase, Direction: core.DirectionOut}
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Description, &rec.AmountCents,
		&rec.Category, &rec.Account)
	if err != nil {
		return LedgerRecord{}, notFound(err, "purchase")
	}
	return rec, nil
}

func (r *Repository) entryLedgerRecord(ctx context.Context, id int64) (LedgerRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.user_id, e.date, e.name, e.value_cents, e.direction,
		        COALESCE(cat.name, ''), COALESCE(ct.name, '')
		 FROM receitas e
		 LEFT JOIN categorias cat ON cat.id = e.category_id
		 LEFT JOIN contas ct ON ct.id = e.account_id
		 WHERE e.id = ?`, id)

	rec := LedgerRecord{Kind: ExportKindEntry}
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Description, &rec.AmountCents,
		&rec.Direction, &rec.Category, &rec.Account)
	if err != nil {
		return LedgerRecord{}, notFound(err, "entry")
	}
	return rec, nil
}

func (r *Repository) MarkExported(ctx context.Context, kind string, id int64) error {
	return r.setExportStatus(ctx, kind, id, ExportExported)
}

func (r *Repository) MarkExportError(ctx context.Context, kind string, id int64) error {
	return r.setExportStatus(ctx, kind, id, ExportError)
}

func (r *Repository) setExportStatus(ctx context.Context, kind string, id int64, status string) error {
	var table string
	switch kind {
	case ExportKindPurchase:
		table = "compras"
	case ExportKindEntry:
		table = "receitas"
	default:
		return fmt.Errorf("unknown export kind %q", kind)
	}

	n, err := execRowsAffected(ctx, r.db,
		`UPDATE `+table+` SET export_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set export status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, core.ErrNotFound)
	}
	return nil
}
