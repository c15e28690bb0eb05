package services

import (
	"context"
	"errors"
	"strconv"

	"financas/internal/core"
	"financas/internal/storage"
)

// Resolver turns the loose references clients send (a card number, a
// category or account name, or a plain id) into owned rows. Every
// lookup is scoped to the requesting user.
type Resolver struct {
	storage *storage.Repository
}

func NewResolver(st *storage.Repository) *Resolver {
	return &Resolver{storage: st}
}

// ResolveCard looks the reference up as a card number first, then falls
// back to treating it as a numeric id.
func (r *Resolver) ResolveCard(ctx context.Context, userID int64, ref string) (core.Card, error) {
	card, err := r.storage.GetCardByNumber(ctx, userID, ref)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Card{}, err
	}

	if id, idErr := strconv.ParseInt(ref, 10, 64); idErr == nil {
		return r.storage.GetCard(ctx, userID, id)
	}
	return core.Card{}, err
}

// ResolveCategory accepts a category name or id.
func (r *Resolver) ResolveCategory(ctx context.Context, userID int64, ref string) (core.Category, error) {
	cat, err := r.storage.GetCategoryByName(ctx, userID, ref)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Category{}, err
	}

	if id, idErr := strconv.ParseInt(ref, 10, 64); idErr == nil {
		return r.storage.GetCategory(ctx, userID, id)
	}
	return core.Category{}, err
}

// ResolveAccount accepts an account name or id.
func (r *Resolver) ResolveAccount(ctx context.Context, userID int64, ref string) (core.BankAccount, error) {
	account, err := r.storage.GetAccountByName(ctx, userID, ref)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.BankAccount{}, err
	}

	if id, idErr := strconv.ParseInt(ref, 10, 64); idErr == nil {
		return r.storage.GetAccount(ctx, userID, id)
	}
	return core.BankAccount{}, err
}
