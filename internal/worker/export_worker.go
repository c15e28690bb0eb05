// Package worker moves purchases and income entries from SQLite to the
// remote ledger sheet. The queue is the fast path; a periodic scan over
// rows still marked pending is the backup for lost messages.
package worker

import (
	"context"
	"fmt"
	"time"

	"financas/internal/amqp"
	"financas/internal/export"
	applog "financas/internal/log"
	"financas/internal/storage"
)

type ExportWorker struct {
	storage   *storage.Repository
	ledger    export.LedgerWriter
	batchSize int
	interval  time.Duration
	logger    *applog.Logger
}

func NewExportWorker(repo *storage.Repository, ledger export.LedgerWriter, batchSize int, interval time.Duration, logger *applog.Logger) *ExportWorker {
	return &ExportWorker{
		storage:   repo,
		ledger:    ledger,
		batchSize: batchSize,
		interval:  interval,
		logger:    logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleExportMessage processes one queue message. The message carries
// only the kind and id; the row itself is re-read at export time so the
// sheet always gets current data. A returned error requeues the message.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.LedgerExportMessage) error {
	w.logger.InfoContext(ctx, "processing export message",
		applog.FieldExportKind, msg.Kind, "id", msg.ID)

	if err := w.exportRecord(ctx, msg.Kind, msg.ID); err != nil {
		return fmt.Errorf("export %s %d: %w", msg.Kind, msg.ID, err)
	}
	return nil
}

// ProcessPending exports rows still marked pending, oldest first. Errors
// on individual rows are logged and skipped so one bad row cannot stall
// the batch.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "processing pending exports", "count", len(pending))

	for _, p := range pending {
		if err := w.exportRecord(ctx, p.Kind, p.ID); err != nil {
			w.logger.ErrorContext(ctx, "pending export failed",
				applog.FieldExportKind, p.Kind, "id", p.ID, applog.FieldError, err)
		}
	}
	return nil
}

// StartupCheck drains the pending backlog once at worker start, with a
// larger batch than the periodic scan. Recovers from worker downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingExports(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending exports on startup: %w", err)
	}
	if len(pending) == 0 {
		w.logger.InfoContext(ctx, "no pending exports on startup")
		return nil
	}

	w.logger.InfoContext(ctx, "pending exports found on startup", "count", len(pending))

	exported, failed := 0, 0
	for _, p := range pending {
		if err := w.exportRecord(ctx, p.Kind, p.ID); err != nil {
			w.logger.ErrorContext(ctx, "startup export failed",
				applog.FieldExportKind, p.Kind, "id", p.ID, applog.FieldError, err)
			failed++
			continue
		}
		exported++
	}

	w.logger.InfoContext(ctx, "startup check completed",
		"total", len(pending), "exported", exported, "errors", failed)
	return nil
}

// Run blocks, scanning for pending rows every interval until the context
// is cancelled.
func (w *ExportWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				w.logger.ErrorContext(ctx, "pending scan failed", applog.FieldError, err)
			}
		}
	}
}

func (w *ExportWorker) exportRecord(ctx context.Context, kind string, id int64) error {
	rec, err := w.storage.GetLedgerRecord(ctx, kind, id)
	if err != nil {
		if markErr := w.storage.MarkExportError(ctx, kind, id); markErr != nil {
			w.logger.ErrorContext(ctx, "failed to mark export error",
				applog.FieldExportKind, kind, "id", id, applog.FieldError, markErr)
		}
		return fmt.Errorf("read ledger record: %w", err)
	}

	ref, err := w.ledger.Append(ctx, export.Row{
		Kind:        rec.Kind,
		Date:        rec.Date,
		Description: rec.Description,
		AmountCents: rec.AmountCents,
		Direction:   string(rec.Direction),
		Category:    rec.Category,
		Account:     rec.Account,
	})
	if err != nil {
		if markErr := w.storage.MarkExportError(ctx, kind, id); markErr != nil {
			w.logger.ErrorContext(ctx, "failed to mark export error",
				applog.FieldExportKind, kind, "id", id, applog.FieldError, markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkExported(ctx, kind, id); err != nil {
		// the append landed, keep going
		w.logger.ErrorContext(ctx, "failed to mark exported",
			applog.FieldExportKind, kind, "id", id, applog.FieldError, err)
	}

	w.logger.InfoContext(ctx, "exported ledger record",
		applog.FieldExportKind, kind, "id", id,
		applog.FieldExportRef, ref,
		applog.FieldAmountCents, rec.AmountCents)
	return nil
}
