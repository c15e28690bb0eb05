package services

import (
	"context"

	"financas/internal/core"
	"financas/internal/storage"
)

type CardService struct {
	storage *storage.Repository
}

func NewCardService(st *storage.Repository) *CardService {
	return &CardService{storage: st}
}

func (s *CardService) Create(ctx context.Context, c core.Card) (core.Card, error) {
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}
	return s.storage.CreateCard(ctx, c)
}

func (s *CardService) Get(ctx context.Context, userID, id int64) (core.Card, error) {
	return s.storage.GetCard(ctx, userID, id)
}

func (s *CardService) List(ctx context.Context, userID int64) ([]core.Card, error) {
	return s.storage.ListCards(ctx, userID)
}

func (s *CardService) Update(ctx context.Context, c core.Card) (core.Card, error) {
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}
	return s.storage.UpdateCard(ctx, c)
}

func (s *CardService) Delete(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteCard(ctx, userID, id)
}
