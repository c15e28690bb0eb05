package storage

import (
	"context"
	"fmt"

	"financas/internal/core"
)

func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categorias (user_id, name, color, spending_limit_cents) VALUES (?, ?, ?, ?)`,
		c.UserID, c.Name, c.Color, c.SpendingLimit.Cents)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, fmt.Errorf("category %q: %w", c.Name, core.ErrDuplicateCategory)
		}
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}
	return r.GetCategory(ctx, c.UserID, id)
}

func (r *Repository) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, spending_limit_cents
		 FROM categorias WHERE id = ? AND user_id = ?`, id, userID)
	return scanCategory(row)
}

func (r *Repository) GetCategoryByName(ctx context.Context, userID int64, name string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, spending_limit_cents
		 FROM categorias WHERE user_id = ? AND name = ?`, userID, name)
	return scanCategory(row)
}

func (r *Repository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, spending_limit_cents
		 FROM categorias WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *Repository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	n, err := execRowsAffected(ctx, r.db,
		`UPDATE categorias SET name = ?, color = ?, spending_limit_cents = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, c.Color, c.SpendingLimit.Cents, c.ID, c.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, fmt.Errorf("category %q: %w", c.Name, core.ErrDuplicateCategory)
		}
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return core.Category{}, fmt.Errorf("category %d: %w", c.ID, core.ErrNotFound)
	}
	return r.GetCategory(ctx, c.UserID, c.ID)
}

func (r *Repository) DeleteCategory(ctx context.Context, userID, id int64) error {
	n, err := execRowsAffected(ctx, r.db,
		`DELETE FROM categorias WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// CategoryTotals returns the entrada and saida sums over income entries
// linked to the category. The derived revenueValue and categoryBalance
// fields come from these, recomputed on every read.
func (r *Repository) CategoryTotals(ctx context.Context, userID, categoryID int64) (in, out int64, err error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT
		    COALESCE(SUM(CASE WHEN direction = 'entrada' THEN value_cents ELSE 0 END), 0),
		    COALESCE(SUM(CASE WHEN direction = 'saida' THEN value_cents ELSE 0 END), 0)
		 FROM receitas WHERE user_id = ? AND category_id = ?`, userID, categoryID)
	if err := row.Scan(&in, &out); err != nil {
		return 0, 0, fmt.Errorf("category totals: %w", err)
	}
	return in, out, nil
}

func scanCategory(row rowScanner) (core.Category, error) {
	var c core.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.SpendingLimit.Cents)
	if err != nil {
		return core.Category{}, notFound(err, "category")
	}
	return c, nil
}
