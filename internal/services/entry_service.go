package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/storage"
)

// EntryService manages the receitas ledger. An entrada credits its
// linked account; a saida debits it under the conditional-update
// contract. Entries without an account only move category aggregates.
type EntryService struct {
	storage    *storage.Repository
	resolver   *Resolver
	categories *CategoryService
	queue      ExportQueue
	logger     *log.Logger
}

func NewEntryService(st *storage.Repository, resolver *Resolver, categories *CategoryService, queue ExportQueue, logger *log.Logger) *EntryService {
	return &EntryService{
		storage:    st,
		resolver:   resolver,
		categories: categories,
		queue:      queue,
		logger:     logger,
	}
}

// EntryInput is the client's view of a new ledger entry. CategoryRef
// and AccountRef accept names or ids and are both optional.
type EntryInput struct {
	Value         core.Money
	Direction     core.EntryDirection
	Name          string
	Establishment string
	Date          time.Time
	CategoryRef   string
	AccountRef    string
}

func (s *EntryService) Create(ctx context.Context, userID int64, in EntryInput) (core.IncomeEntry, error) {
	entry := core.IncomeEntry{
		UserID:        userID,
		Value:         in.Value,
		Direction:     in.Direction,
		Name:          in.Name,
		Establishment: in.Establishment,
		Date:          in.Date,
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}
	if err := entry.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}

	if in.CategoryRef != "" {
		category, err := s.resolver.ResolveCategory(ctx, userID, in.CategoryRef)
		if err != nil {
			return core.IncomeEntry{}, fmt.Errorf("category %q: %w", in.CategoryRef, err)
		}
		entry.CategoryID = category.ID
	}

	var refund func() error
	if in.AccountRef != "" {
		account, err := s.resolver.ResolveAccount(ctx, userID, in.AccountRef)
		if err != nil {
			return core.IncomeEntry{}, fmt.Errorf("account %q: %w", in.AccountRef, err)
		}
		entry.AccountID = account.ID

		if entry.Direction == core.DirectionIn {
			if _, err := s.storage.CreditAccount(ctx, userID, account.ID, entry.Value.Cents); err != nil {
				return core.IncomeEntry{}, err
			}
			refund = func() error {
				_, err := s.storage.DebitAccount(ctx, userID, account.ID, entry.Value.Cents)
				return err
			}
		} else {
			if _, err := s.storage.DebitAccount(ctx, userID, account.ID, entry.Value.Cents); err != nil {
				return core.IncomeEntry{}, err
			}
			refund = func() error {
				_, err := s.storage.CreditAccount(ctx, userID, account.ID, entry.Value.Cents)
				return err
			}
		}
	}

	created, err := s.storage.CreateEntry(ctx, entry)
	if err != nil {
		if refund != nil {
			if refundErr := refund(); refundErr != nil {
				s.logger.ErrorContext(ctx, "entry compensation failed, balance and ledger diverged",
					log.FieldUserID, userID,
					log.FieldAmountCents, entry.Value.Cents,
					log.FieldError, refundErr.Error())
				return core.IncomeEntry{}, fmt.Errorf("%w: %v (original: %v)", core.ErrInconsistent, refundErr, err)
			}
		}
		return core.IncomeEntry{}, err
	}

	s.categories.InvalidateUser(userID)
	s.publishExport(ctx, created.ID)
	return created, nil
}

func (s *EntryService) Get(ctx context.Context, userID, id int64) (core.IncomeEntry, error) {
	return s.storage.GetEntry(ctx, userID, id)
}

func (s *EntryService) List(ctx context.Context, userID int64) ([]core.IncomeEntry, error) {
	return s.storage.ListEntries(ctx, userID)
}

func (s *EntryService) ListByType(ctx context.Context, userID int64, direction core.EntryDirection) ([]core.IncomeEntry, error) {
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: type must be entrada or saida", core.ErrValidation)
	}
	return s.storage.ListEntriesByType(ctx, userID, direction)
}

// Update rewrites descriptive fields only, like purchases.
func (s *EntryService) Update(ctx context.Context, userID, id int64, name, establishment string, date time.Time, categoryRef string) (core.IncomeEntry, error) {
	current, err := s.storage.GetEntry(ctx, userID, id)
	if err != nil {
		return core.IncomeEntry{}, err
	}
	if current.PurchaseID != 0 {
		return core.IncomeEntry{}, fmt.Errorf("%w: entry mirrors a purchase, edit the purchase instead", core.ErrForbidden)
	}

	if name != "" {
		current.Name = name
	}
	if establishment != "" {
		current.Establishment = establishment
	}
	if !date.IsZero() {
		current.Date = date
	}
	if categoryRef != "" {
		category, err := s.resolver.ResolveCategory(ctx, userID, categoryRef)
		if err != nil {
			return core.IncomeEntry{}, fmt.Errorf("category %q: %w", categoryRef, err)
		}
		current.CategoryID = category.ID
	}
	if err := current.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}

	updated, err := s.storage.UpdateEntry(ctx, current)
	if err != nil {
		return core.IncomeEntry{}, err
	}
	s.categories.InvalidateUser(userID)
	return updated, nil
}

// Delete removes the entry and reverses its balance effect. Mirror
// entries are refused; deleting the purchase removes them.
func (s *EntryService) Delete(ctx context.Context, userID, id int64) error {
	entry, err := s.storage.GetEntry(ctx, userID, id)
	if err != nil {
		return err
	}
	if entry.PurchaseID != 0 {
		return fmt.Errorf("%w: entry mirrors a purchase, delete the purchase instead", core.ErrForbidden)
	}

	if err := s.storage.DeleteEntry(ctx, userID, id); err != nil {
		return err
	}

	if entry.AccountID != 0 {
		var reverseErr error
		if entry.Direction == core.DirectionIn {
			_, reverseErr = s.storage.DebitAccount(ctx, userID, entry.AccountID, entry.Value.Cents)
		} else {
			_, reverseErr = s.storage.CreditAccount(ctx, userID, entry.AccountID, entry.Value.Cents)
		}
		if reverseErr != nil {
			s.logger.ErrorContext(ctx, "entry deletion left balances diverged",
				log.FieldUserID, userID,
				log.FieldEntryID, id,
				log.FieldError, reverseErr.Error())
			return fmt.Errorf("%w: %v", core.ErrInconsistent, reverseErr)
		}
	}

	s.categories.InvalidateUser(userID)
	return nil
}

func (s *EntryService) publishExport(ctx context.Context, id int64) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishLedgerExport(ctx, storage.ExportKindEntry, id); err != nil {
		s.logger.WarnContext(ctx, "export publish failed",
			log.FieldExportKind, storage.ExportKindEntry,
			log.FieldEntryID, id,
			log.FieldError, err.Error())
	}
}
