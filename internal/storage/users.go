package storage

import (
	"context"
	"fmt"

	"financas/internal/core"
)

func (r *Repository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO usuarios (name, age, birth_date, gender, email, password_hash)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, u.Age, u.BirthDate, u.Gender, u.Email, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("email %s: %w", u.Email, core.ErrEmailTaken)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}
	return r.GetUser(ctx, id)
}

func (r *Repository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, age, birth_date, gender, email, password_hash, created_at
		 FROM usuarios WHERE id = ?`, id)
	return scanUser(row)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, age, birth_date, gender, email, password_hash, created_at
		 FROM usuarios WHERE email = ?`, email)
	return scanUser(row)
}

func (r *Repository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, age, birth_date, gender, email, password_hash, created_at
		 FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repository) UpdateUser(ctx context.Context, u core.User) (core.User, error) {
	n, err := execRowsAffected(ctx, r.db,
		`UPDATE usuarios SET name = ?, age = ?, birth_date = ?, gender = ?, email = ?, password_hash = ?
		 WHERE id = ?`,
		u.Name, u.Age, u.BirthDate, u.Gender, u.Email, u.PasswordHash, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("email %s: %w", u.Email, core.ErrEmailTaken)
		}
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return core.User{}, fmt.Errorf("user %d: %w", u.ID, core.ErrNotFound)
	}
	return r.GetUser(ctx, u.ID)
}

func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	n, err := execRowsAffected(ctx, r.db, `DELETE FROM usuarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, core.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Name, &u.Age, &u.BirthDate, &u.Gender, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return core.User{}, notFound(err, "user")
	}
	return u, nil
}
