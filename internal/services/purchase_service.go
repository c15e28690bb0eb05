package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/storage"
)

// PurchaseService runs the balance-mutation workflow: resolve the
// funding source, debit it conditionally, record the purchase and its
// mirror entry, and queue the export. There is no cross-statement
// transaction; each write commits on its own and a failed follow-up is
// compensated by crediting the funds back. Only a failed compensation
// leaves the books inconsistent, and that surfaces as ErrInconsistent.
type PurchaseService struct {
	storage    *storage.Repository
	resolver   *Resolver
	categories *CategoryService
	queue      ExportQueue
	logger     *log.Logger
}

func NewPurchaseService(st *storage.Repository, resolver *Resolver, categories *CategoryService, queue ExportQueue, logger *log.Logger) *PurchaseService {
	return &PurchaseService{
		storage:    st,
		resolver:   resolver,
		categories: categories,
		queue:      queue,
		logger:     logger,
	}
}

// PurchaseInput is the client's view of a new purchase. CardRef,
// CategoryRef and AccountRef accept either natural keys (card number,
// names) or ids.
type PurchaseInput struct {
	Establishment string
	Value         core.Money
	Date          time.Time
	Method        core.PaymentMethod
	CardRef       string
	CategoryRef   string
	AccountRef    string
}

func (s *PurchaseService) Create(ctx context.Context, userID int64, in PurchaseInput) (core.Purchase, error) {
	purchase := core.Purchase{
		UserID:        userID,
		Establishment: in.Establishment,
		Value:         in.Value,
		Date:          in.Date,
		Method:        in.Method,
	}
	if purchase.Date.IsZero() {
		purchase.Date = time.Now().UTC()
	}
	if err := purchase.Validate(); err != nil {
		return core.Purchase{}, err
	}
	if in.CategoryRef == "" {
		return core.Purchase{}, fmt.Errorf("%w: missing category", core.ErrValidation)
	}

	category, err := s.resolver.ResolveCategory(ctx, userID, in.CategoryRef)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("category %q: %w", in.CategoryRef, err)
	}
	purchase.CategoryID = category.ID

	// Debit the funding source. This is the point of no return: every
	// failure below must credit the amount back.
	var refund func() error
	switch {
	case in.Method == core.MethodCredit:
		if in.CardRef == "" {
			return core.Purchase{}, fmt.Errorf("%w: credit purchase needs a card", core.ErrValidation)
		}
		card, err := s.resolver.ResolveCard(ctx, userID, in.CardRef)
		if err != nil {
			return core.Purchase{}, fmt.Errorf("card %q: %w", in.CardRef, err)
		}
		if card.Type != core.CardCredit {
			return core.Purchase{}, fmt.Errorf("%w: card %s is not a credit card", core.ErrValidation, card.Number)
		}
		if _, err := s.storage.DebitCardLimit(ctx, userID, card.ID, purchase.Value.Cents); err != nil {
			return core.Purchase{}, err
		}
		purchase.CardID = card.ID
		refund = func() error {
			_, err := s.storage.CreditCardLimit(ctx, userID, card.ID, purchase.Value.Cents)
			return err
		}

	default:
		if in.AccountRef == "" {
			return core.Purchase{}, fmt.Errorf("%w: %s purchase needs a bank account", core.ErrValidation, in.Method)
		}
		account, err := s.resolver.ResolveAccount(ctx, userID, in.AccountRef)
		if err != nil {
			return core.Purchase{}, fmt.Errorf("account %q: %w", in.AccountRef, err)
		}
		if _, err := s.storage.DebitAccount(ctx, userID, account.ID, purchase.Value.Cents); err != nil {
			return core.Purchase{}, err
		}
		purchase.AccountID = account.ID
		refund = func() error {
			_, err := s.storage.CreditAccount(ctx, userID, account.ID, purchase.Value.Cents)
			return err
		}
	}

	created, err := s.storage.CreatePurchase(ctx, purchase)
	if err != nil {
		return core.Purchase{}, s.compensate(ctx, userID, purchase, refund, err)
	}

	// Account-funded purchases also land in the receitas ledger as a
	// saida, so aggregations over entries see the full money flow.
	var mirrorID int64
	if purchase.Method.AccountFunded() {
		mirror := core.IncomeEntry{
			UserID:        userID,
			Value:         created.Value,
			Direction:     core.DirectionOut,
			Name:          created.Establishment,
			Establishment: created.Establishment,
			Date:          created.Date,
			CategoryID:    created.CategoryID,
			AccountID:     created.AccountID,
			PurchaseID:    created.ID,
		}
		createdMirror, err := s.storage.CreateEntry(ctx, mirror)
		if err != nil {
			if delErr := s.storage.DeletePurchase(ctx, userID, created.ID); delErr != nil {
				return core.Purchase{}, s.inconsistent(ctx, userID, created.ID, delErr, err)
			}
			return core.Purchase{}, s.compensate(ctx, userID, purchase, refund, err)
		}
		mirrorID = createdMirror.ID
	}

	s.categories.InvalidateUser(userID)
	s.publishExport(ctx, storage.ExportKindPurchase, created.ID)
	if mirrorID != 0 {
		s.publishExport(ctx, storage.ExportKindEntry, mirrorID)
	}
	return created, nil
}

// Update rewrites descriptive fields only. The amount, payment method
// and funding source are immutable; changing them would desynchronize
// the balances already committed.
func (s *PurchaseService) Update(ctx context.Context, userID, id int64, establishment string, date time.Time, categoryRef string) (core.Purchase, error) {
	current, err := s.storage.GetPurchase(ctx, userID, id)
	if err != nil {
		return core.Purchase{}, err
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
			return core.Purchase{}, fmt.Errorf("category %q: %w", categoryRef, err)
		}
		current.CategoryID = category.ID
	}
	if err := current.Validate(); err != nil {
		return core.Purchase{}, err
	}

	updated, err := s.storage.UpdatePurchase(ctx, current)
	if err != nil {
		return core.Purchase{}, err
	}

	// Keep the mirror entry's descriptive fields in step.
	if updated.Method.AccountFunded() {
		mirror, err := s.storage.GetMirrorEntry(ctx, userID, updated.ID)
		if err == nil {
			mirror.Name = updated.Establishment
			mirror.Establishment = updated.Establishment
			mirror.Date = updated.Date
			mirror.CategoryID = updated.CategoryID
			if _, err := s.storage.UpdateEntry(ctx, mirror); err != nil {
				s.logger.WarnContext(ctx, "mirror entry update failed",
					log.FieldPurchaseID, updated.ID,
					log.FieldError, err.Error())
			}
		}
	}

	s.categories.InvalidateUser(userID)
	return updated, nil
}

// Delete removes the purchase and its mirror entry and credits the
// debited amount back to the funding source.
func (s *PurchaseService) Delete(ctx context.Context, userID, id int64) error {
	purchase, err := s.storage.GetPurchase(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteMirrorEntry(ctx, userID, id); err != nil {
		return err
	}
	if err := s.storage.DeletePurchase(ctx, userID, id); err != nil {
		return err
	}

	var refundErr error
	if purchase.Method == core.MethodCredit && purchase.CardID != 0 {
		_, refundErr = s.storage.CreditCardLimit(ctx, userID, purchase.CardID, purchase.Value.Cents)
	} else if purchase.AccountID != 0 {
		_, refundErr = s.storage.CreditAccount(ctx, userID, purchase.AccountID, purchase.Value.Cents)
	}
	if refundErr != nil {
		return s.inconsistent(ctx, userID, id, refundErr, nil)
	}

	s.categories.InvalidateUser(userID)
	return nil
}

func (s *PurchaseService) Get(ctx context.Context, userID, id int64) (core.Purchase, error) {
	return s.storage.GetPurchase(ctx, userID, id)
}

func (s *PurchaseService) List(ctx context.Context, userID int64) ([]core.Purchase, error) {
	return s.storage.ListPurchases(ctx, userID)
}

// compensate credits the debited funds back and returns the original
// failure. If the credit itself fails the books are inconsistent.
func (s *PurchaseService) compensate(ctx context.Context, userID int64, p core.Purchase, refund func() error, cause error) error {
	if err := refund(); err != nil {
		s.logger.ErrorContext(ctx, "compensation failed, balance and ledger diverged",
			log.FieldUserID, userID,
			log.FieldAmountCents, p.Value.Cents,
			log.FieldError, err.Error())
		return fmt.Errorf("%w: %v (original: %v)", core.ErrInconsistent, err, cause)
	}
	return cause
}

func (s *PurchaseService) inconsistent(ctx context.Context, userID, purchaseID int64, err, cause error) error {
	s.logger.ErrorContext(ctx, "purchase state diverged from balances",
		log.FieldUserID, userID,
		log.FieldPurchaseID, purchaseID,
		log.FieldError, err.Error())
	if cause != nil {
		return fmt.Errorf("%w: %v (original: %v)", core.ErrInconsistent, err, cause)
	}
	return fmt.Errorf("%w: %v", core.ErrInconsistent, err)
}

// publishExport is best effort: the periodic pending scan picks up
// anything the queue missed.
func (s *PurchaseService) publishExport(ctx context.Context, kind string, id int64) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishLedgerExport(ctx, kind, id); err != nil {
		s.logger.WarnContext(ctx, "export publish failed",
			log.FieldExportKind, kind,
			log.FieldPurchaseID, id,
			log.FieldError, err.Error())
	}
}
