package storage

import (
	"context"
	"fmt"

	"financas/internal/core"
)

// DebitAccount subtracts cents from the account balance and returns the
// new balance. The sufficiency check is part of the UPDATE itself: the
// statement only matches when balance_cents >= cents, so two concurrent
// debits can never drive the balance negative. Zero rows affected means
// either the account does not exist for this user or the funds are
// short; a follow-up read tells the two apart.
func (r *Repository) DebitAccount(ctx context.Context, userID, accountID, cents int64) (int64, error) {
	if cents <= 0 {
		return 0, fmt.Errorf("debit of %d cents: %w", cents, core.ErrInvalidAmount)
	}

	n, err := execRowsAffected(ctx, r.db,
		`UPDATE contas SET balance_cents = balance_cents - ?
		 WHERE id = ? AND user_id = ? AND balance_cents >= ?`,
		cents, accountID, userID, cents)
	if err != nil {
		return 0, fmt.Errorf("debit account: %w", err)
	}
	if n == 0 {
		a, err := r.GetAccount(ctx, userID, accountID)
		if err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("account %d holds %s: %w", accountID, a.Balance, core.ErrInsufficientFunds)
	}

	a, err := r.GetAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	return a.Balance.Cents, nil
}

// CreditAccount adds cents to the account balance and returns the new
// balance. It is also the compensation path when a debit has to be
// undone.
func (r *Repository) CreditAccount(ctx context.Context, userID, accountID, cents int64) (int64, error) {
	if cents <= 0 {
		return 0, fmt.Errorf("credit of %d cents: %w", cents, core.ErrInvalidAmount)
	}

	n, err := execRowsAffected(ctx, r.db,
		`UPDATE contas SET balance_cents = balance_cents + ?
		 WHERE id = ? AND user_id = ?`,
		cents, accountID, userID)
	if err != nil {
		return 0, fmt.Errorf("credit account: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("account %d: %w", accountID, core.ErrNotFound)
	}

	a, err := r.GetAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	return a.Balance.Cents, nil
}

// DebitCardLimit subtracts cents from the card's available limit under
// the same conditional-update contract as DebitAccount.
func (r *Repository) DebitCardLimit(ctx context.Context, userID, cardID, cents int64) (int64, error) {
	if cents <= 0 {
		return 0, fmt.Errorf("debit of %d cents: %w", cents, core.ErrInvalidAmount)
	}

	n, err := execRowsAffected(ctx, r.db,
		`UPDATE cartoes SET limit_cents = limit_cents - ?
		 WHERE id = ? AND user_id = ? AND limit_cents >= ?`,
		cents, cardID, userID, cents)
	if err != nil {
		return 0, fmt.Errorf("debit card limit: %w", err)
	}
	if n == 0 {
		c, err := r.GetCard(ctx, userID, cardID)
		if err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("card %d has %s available: %w", cardID, c.Limit, core.ErrInsufficientFunds)
	}

	c, err := r.GetCard(ctx, userID, cardID)
	if err != nil {
		return 0, err
	}
	return c.Limit.Cents, nil
}

func (r *Repository) CreditCardLimit(ctx context.Context, userID, cardID, cents int64) (int64, error) {
	if cents <= 0 {
		return 0, fmt.Errorf("credit of %d cents: %w", cents, core.ErrInvalidAmount)
	}

	n, err := execRowsAffected(ctx, r.db,
		`UPDATE cartoes SET limit_cents = limit_cents + ?
		 WHERE id = ? AND user_id = ?`,
		cents, cardID, userID)
	if err != nil {
		return 0, fmt.Errorf("credit card limit: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("card %d: %w", cardID, core.ErrNotFound)
	}

	c, err := r.GetCard(ctx, userID, cardID)
	if err != nil {
		return 0, err
	}
	return c.Limit.Cents, nil
}
