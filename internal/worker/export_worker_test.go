package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/export/memory"
	applog "financas/internal/log"
	"financas/internal/storage"
)

func newTestWorker(t *testing.T) (*ExportWorker, *storage.Repository, *memory.Store) {
	t.Helper()

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "worker_test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	store := memory.New()
	logger := applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	return NewExportWorker(repo, store, 10, time.Second, logger), repo, store
}

func seedPurchase(t *testing.T, repo *storage.Repository) core.Purchase {
	t.Helper()

	ctx := context.Background()
	user, err := repo.CreateUser(ctx, core.User{Name: "Maria", Email: "maria@test.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	account, err := repo.CreateAccount(ctx, core.BankAccount{UserID: user.ID, Name: "Nubank", Balance: core.Money{Cents: 100000}})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	purchase, err := repo.CreatePurchase(ctx, core.Purchase{
		UserID:        user.ID,
		Establishment: "Padaria",
		Value:         core.Money{Cents: 2500},
		Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Method:        core.MethodPix,
		AccountID:     account.ID,
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	return purchase
}

func TestHandleExportMessage(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()
	purchase := seedPurchase(t, repo)

	msg := amqp.NewLedgerExportMessage(storage.ExportKindPurchase, purchase.ID)
	if err := w.HandleExportMessage(ctx, msg); err != nil {
		t.Fatalf("HandleExportMessage: %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Description != "Padaria" || row.AmountCents != 2500 || row.Account != "Nubank" {
		t.Errorf("row = %+v", row)
	}
	if row.Direction != string(core.DirectionOut) {
		t.Errorf("direction = %q", row.Direction)
	}

	pending, err := repo.GetPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingExports: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("still pending: %v", pending)
	}
}

func TestHandleExportMessageAppendFailure(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()
	purchase := seedPurchase(t, repo)

	store.FailWith(errors.New("sheets unavailable"))

	msg := amqp.NewLedgerExportMessage(storage.ExportKindPurchase, purchase.ID)
	if err := w.HandleExportMessage(ctx, msg); err == nil {
		t.Fatal("expected error when append fails")
	}

	// marked error so the periodic scan does not retry it forever
	pending, err := repo.GetPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingExports: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("row still pending after append failure: %v", pending)
	}
}

func TestHandleExportMessageUnknownRecord(t *testing.T) {
	w, _, store := newTestWorker(t)

	msg := amqp.NewLedgerExportMessage(storage.ExportKindPurchase, 9999)
	if err := w.HandleExportMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown purchase")
	}
	if len(store.Rows()) != 0 {
		t.Error("append happened for unknown record")
	}
}

func TestProcessPendingDrainsBacklog(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()

	purchase := seedPurchase(t, repo)
	entry, err := repo.CreateEntry(ctx, core.IncomeEntry{
		UserID:    purchase.UserID,
		Value:     core.Money{Cents: 50000},
		Direction: core.DirectionIn,
		Name:      "Salario",
		Date:      time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	rows := store.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Kind != storage.ExportKindPurchase || rows[1].Kind != storage.ExportKindEntry {
		t.Errorf("order = %s, %s", rows[0].Kind, rows[1].Kind)
	}
	if rows[1].Description != entry.Name {
		t.Errorf("entry description = %q", rows[1].Description)
	}

	// second scan finds nothing
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("second ProcessPending: %v", err)
	}
	if got := len(store.Rows()); got != 2 {
		t.Errorf("rows after second scan = %d", got)
	}
}

func TestStartupCheckSkipsFailedRows(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()

	seedPurchase(t, repo)
	store.FailWith(errors.New("sheets unavailable"))

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("StartupCheck: %v", err)
	}
	if len(store.Rows()) != 0 {
		t.Error("append succeeded despite failure injection")
	}

	// healed store, but the row was marked error and is no longer pending
	store.FailWith(nil)
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(store.Rows()) != 0 {
		t.Error("errored row re-exported by pending scan")
	}
}
