package storage

import (
	"context"
	"fmt"

	"financas/internal/core"
)

func (r *Repository) CreateCard(ctx context.Context, c core.Card) (core.Card, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cartoes (user_id, number, cvc, name, validity, close_day, maturity_day, card_type, balance_cents, limit_cents)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Number, c.CVC, c.Name, c.Validity, c.CloseDay, c.MaturityDay, c.Type, c.Balance.Cents, c.Limit.Cents)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Card{}, fmt.Errorf("card %s: %w", c.Number, core.ErrDuplicateCard)
		}
		return core.Card{}, fmt.Errorf("create card: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Card{}, fmt.Errorf("create card id: %w", err)
	}
	return r.GetCard(ctx, c.UserID, id)
}

func (r *Repository) GetCard(ctx context.Context, userID, id int64) (core.Card, error) {
	row := r.db.QueryRowContext(ctx, selectCard+` WHERE id = ? AND user_id = ?`, id, userID)
	return scanCard(row)
}

func (r *Repository) GetCardByNumber(ctx context.Context, userID int64, number string) (core.Card, error) {
	row := r.db.QueryRowContext(ctx, selectCard+` WHERE user_id = ? AND number = ?`, userID, number)
	return scanCard(row)
}

func (r *Repository) ListCards(ctx context.Context, userID int64) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx, selectCard+` WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []core.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *Repository) UpdateCard(ctx context.Context, c core.Card) (core.Card, error) {
	n, err := execRowsAffected(ctx, r.db,
		`UPDATE cartoes SET number = ?, cvc = ?, name = ?, validity = ?, close_day = ?, maturity_day = ?, card_type = ?, balance_cents = ?, limit_cents = ?
		 WHERE id = ? AND user_id = ?`,
		c.Number, c.CVC, c.Name, c.Validity, c.CloseDay, c.MaturityDay, c.Type, c.Balance.Cents, c.Limit.Cents, c.ID, c.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Card{}, fmt.Errorf("card %s: %w", c.Number, core.ErrDuplicateCard)
		}
		return core.Card{}, fmt.Errorf("update card: %w", err)
	}
	if n == 0 {
		return core.Card{}, fmt.Errorf("card %d: %w", c.ID, core.ErrNotFound)
	}
	return r.GetCard(ctx, c.UserID, c.ID)
}

func (r *Repository) DeleteCard(ctx context.Context, userID, id int64) error {
	n, err := execRowsAffected(ctx, r.db,
		`DELETE FROM cartoes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	return nil
}

const selectCard = `SELECT id, user_id, number, cvc, name, validity, close_day, maturity_day, card_type, balance_cents, limit_cents FROM cartoes`

func scanCard(row rowScanner) (core.Card, error) {
	var c core.Card
	err := row.Scan(&c.ID, &c.UserID, &c.Number, &c.CVC, &c.Name, &c.Validity,
		&c.CloseDay, &c.MaturityDay, &c.Type, &c.Balance.Cents, &c.Limit.Cents)
	if err != nil {
		return core.Card{}, notFound(err, "card")
	}
	return c, nil
}
