package storage

import (
	"context"
	"fmt"

	"financas/internal/core"
)

func (r *Repository) CreateAccount(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contas (user_id, name, balance_cents) VALUES (?, ?, ?)`,
		a.UserID, a.Name, a.Balance.Cents)
	if err != nil {
		return core.BankAccount{}, fmt.Errorf("create account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.BankAccount{}, fmt.Errorf("create account id: %w", err)
	}
	return r.GetAccount(ctx, a.UserID, id)
}

func (r *Repository) GetAccount(ctx context.Context, userID, id int64) (core.BankAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, balance_cents FROM contas WHERE id = ? AND user_id = ?`, id, userID)
	return scanAccount(row)
}

func (r *Repository) GetAccountByName(ctx context.Context, userID int64, name string) (core.BankAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, balance_cents FROM contas WHERE user_id = ? AND name = ?`, userID, name)
	return scanAccount(row)
}

func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]core.BankAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, balance_cents FROM contas WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.BankAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *Repository) UpdateAccount(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	n, err := execRowsAffected(ctx, r.db,
		`UPDATE contas SET name = ?, balance_cents = ? WHERE id = ? AND user_id = ?`,
		a.Name, a.Balance.Cents, a.ID, a.UserID)
	if err != nil {
		return core.BankAccount{}, fmt.Errorf("update account: %w", err)
	}
	if n == 0 {
		return core.BankAccount{}, fmt.Errorf("account %d: %w", a.ID, core.ErrNotFound)
	}
	return r.GetAccount(ctx, a.UserID, a.ID)
}

func (r *Repository) DeleteAccount(ctx context.Context, userID, id int64) error {
	n, err := execRowsAffected(ctx, r.db,
		`DELETE FROM contas WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func scanAccount(row rowScanner) (core.BankAccount, error) {
	var a core.BankAccount
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance.Cents)
	if err != nil {
		return core.BankAccount{}, notFound(err, "account")
	}
	return a, nil
}
