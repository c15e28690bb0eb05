package services

import (
	"context"

	"financas/internal/core"
	"financas/internal/storage"
)

type AccountService struct {
	storage *storage.Repository
}

func NewAccountService(st *storage.Repository) *AccountService {
	return &AccountService{storage: st}
}

func (s *AccountService) Create(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	if err := a.Validate(); err != nil {
		return core.BankAccount{}, err
	}
	return s.storage.CreateAccount(ctx, a)
}

func (s *AccountService) Get(ctx context.Context, userID, id int64) (core.BankAccount, error) {
	return s.storage.GetAccount(ctx, userID, id)
}

func (s *AccountService) List(ctx context.Context, userID int64) ([]core.BankAccount, error) {
	return s.storage.ListAccounts(ctx, userID)
}

func (s *AccountService) Update(ctx context.Context, a core.BankAccount) (core.BankAccount, error) {
	if err := a.Validate(); err != nil {
		return core.BankAccount{}, err
	}
	return s.storage.UpdateAccount(ctx, a)
}

func (s *AccountService) Delete(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteAccount(ctx, userID, id)
}
