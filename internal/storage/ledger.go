package storage

import (
	"context"
	"database/sql"
	"fmt"

	"financas/internal/core"
)

// nullID maps a zero id onto SQL NULL so optional references stay NULL
// in the schema instead of pointing at row 0.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func (r *Repository) CreatePurchase(ctx context.Context, p core.Purchase) (core.Purchase, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO compras (user_id, establishment, value_cents, date, method, card_id, category_id, account_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Establishment, p.Value.Cents, p.Date, p.Method,
		nullID(p.CardID), p.CategoryID, nullID(p.AccountID))
	if err != nil {
		return core.Purchase{}, fmt.Errorf("create purchase: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Purchase{}, fmt.Errorf("create purchase id: %w", err)
	}
	return r.GetPurchase(ctx, p.UserID, id)
}

func (r *Repository) GetPurchase(ctx context.Context, userID, id int64) (core.Purchase, error) {
	row := r.db.QueryRowContext(ctx, selectPurchase+` WHERE id = ? AND user_id = ?`, id, userID)
	return scanPurchase(row)
}

func (r *Repository) ListPurchases(ctx context.Context, userID int64) ([]core.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, selectPurchase+` WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []core.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// UpdatePurchase rewrites the descriptive fields only. Value, method and
// funding references are immutable after creation because the balances
// they moved have already been committed.
func (r *Repository) UpdatePurchase(ctx context.Context, p core.Purchase) (core.Purchase, error) {
	n, err := execRowsAffected(ctx, r.db,
		`UPDATE compras SET establishment = ?, date = ?, category_id = ?
		 WHERE id = ? AND user_id = ?`,
		p.Establishment, p.Date, p.CategoryID, p.ID, p.UserID)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("update purchase: %w", err)
	}
	if n == 0 {
		return core.Purchase{}, fmt.Errorf("purchase %d: %w", p.ID, core.ErrNotFound)
	}
	return r.GetPurchase(ctx, p.UserID, p.ID)
}

func (r *Repository) DeletePurchase(ctx context.Context, userID, id int64) error {
	n, err := execRowsAffected(ctx, r.db,
		`DELETE FROM compras WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("purchase %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *Repository) CreateEntry(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO receitas (user_id, value_cents, direction, name, establishment, date, category_id, account_id, purchase_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Value.Cents, e.Direction, e.Name, e.Establishment, e.Date,
		nullID(e.CategoryID), nullID(e.AccountID), nullID(e.PurchaseID))
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("create entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("create entry id: %w", err)
	}
	return r.GetEntry(ctx, e.UserID, id)
}

func (r *Repository) GetEntry(ctx context.Context, userID, id int64) (core.IncomeEntry, error) {
	row := r.db.QueryRowContext(ctx, selectEntry+` WHERE id = ? AND user_id = ?`, id, userID)
	return scanEntry(row)
}

func (r *Repository) ListEntries(ctx context.Context, userID int64) ([]core.IncomeEntry, error) {
	return r.listEntries(ctx, selectEntry+` WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
}

func (r *Repository) ListEntriesByType(ctx context.Context, userID int64, direction core.EntryDirection) ([]core.IncomeEntry, error) {
	return r.listEntries(ctx,
		selectEntry+` WHERE user_id = ? AND direction = ? ORDER BY date DESC, id DESC`,
		userID, direction)
}

func (r *Repository) listEntries(ctx context.Context, query string, args ...any) ([]core.IncomeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.IncomeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetMirrorEntry returns the saida entry mirroring an account-funded
// purchase, if one exists.
func (r *Repository) GetMirrorEntry(ctx context.Context, userID, purchaseID int64) (core.IncomeEntry, error) {
	row := r.db.QueryRowContext(ctx, selectEntry+` WHERE user_id = ? AND purchase_id = ?`, userID, purchaseID)
	return scanEntry(row)
}

func (r *Repository) UpdateEntry(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	n, err := execRowsAffected(ctx, r.db,
		`UPDATE receitas SET name = ?, establishment = ?, date = ?, category_id = ?
		 WHERE id = ? AND user_id = ?`,
		e.Name, e.Establishment, e.Date, nullID(e.CategoryID), e.ID, e.UserID)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("update entry: %w", err)
	}
	if n == 0 {
		return core.IncomeEntry{}, fmt.Errorf("entry %d: %w", e.ID, core.ErrNotFound)
	}
	return r.GetEntry(ctx, e.UserID, e.ID)
}

func (r *Repository) DeleteEntry(ctx context.Context, userID, id int64) error {
	n, err := execRowsAffected(ctx, r.db,
		`DELETE FROM receitas WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// DeleteMirrorEntry removes the saida row linked to a purchase. Deleting
// nothing is fine here: card-funded purchases never had a mirror.
func (r *Repository) DeleteMirrorEntry(ctx context.Context, userID, purchaseID int64) error {
	_, err := execRowsAffected(ctx, r.db,
		`DELETE FROM receitas WHERE user_id = ? AND purchase_id = ?`, userID, purchaseID)
	if err != nil {
		return fmt.Errorf("delete mirror entry: %w", err)
	}
	return nil
}

const selectPurchase = `SELECT id, user_id, establishment, value_cents, date, method, card_id, category_id, account_id FROM compras`

const selectEntry = `SELECT id, user_id, value_cents, direction, name, establishment, date, category_id, account_id, purchase_id FROM receitas`

func scanPurchase(row rowScanner) (core.Purchase, error) {
	var (
		p                 core.Purchase
		cardID, accountID sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Establishment, &p.Value.Cents, &p.Date,
		&p.Method, &cardID, &p.CategoryID, &accountID)
	if err != nil {
		return core.Purchase{}, notFound(err, "purchase")
	}
	p.CardID = cardID.Int64
	p.AccountID = accountID.Int64
	return p, nil
}

func scanEntry(row rowScanner) (core.IncomeEntry, error) {
	var (
		e                             core.IncomeEntry
		categoryID, accountID, purchID sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Value.Cents, &e.Direction, &e.Name,
		&e.Establishment, &e.Date, &categoryID, &accountID, &purchID)
	if err != nil {
		return core.IncomeEntry{}, notFound(err, "entry")
	}
	e.CategoryID = categoryID.Int64
	e.AccountID = accountID.Int64
	e.PurchaseID = purchID.Int64
	return e, nil
}
