package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	CardCredit CardType = "credito"
	CardDebit  CardType = "debito"
)

// Payment methods accepted on a purchase. Credit purchases draw on the
// card's available limit; debit and pix draw on a bank account balance.
const (
	MethodCredit PaymentMethod = "credito"
	MethodDebit  PaymentMethod = "debito"
	MethodPix    PaymentMethod = "pix"
)

const (
	DirectionIn  EntryDirection = "entrada"
	DirectionOut EntryDirection = "saida"
)

type (
	CardType       string
	PaymentMethod  string
	EntryDirection string
)

// User owns every other entity through a userId back-reference. The
// password hash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Age          int       `json:"age,omitempty"`
	BirthDate    string    `json:"birthdayDate,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Category groups purchases and income entries. RevenueValue and
// CategoryBalance are derived from linked entries at read time and are
// never persisted.
type Category struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	Name          string `json:"categoryName"`
	Color         string `json:"categoryColor,omitempty"`
	SpendingLimit Money  `json:"spendingLimit,omitempty"`

	RevenueValue    Money `json:"revenueValue"`
	CategoryBalance Money `json:"categoryBalance"`
}

// Card carries an available limit that purchases decrement. The limit must
// never go below zero.
type Card struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"userId"`
	Number      string   `json:"cardNumber"`
	CVC         string   `json:"cardCVC"`
	Name        string   `json:"cardName,omitempty"`
	Validity    string   `json:"cardDateValidity,omitempty"`
	CloseDay    int      `json:"cardDateClose,omitempty"`
	MaturityDay int      `json:"cardDateMaturity,omitempty"`
	Type        CardType `json:"cardType"`
	Balance     Money    `json:"cardBalance"`
	Limit       Money    `json:"cardLimited"`
}

// BankAccount balance must never go negative through a debit.
type BankAccount struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"userId"`
	Name    string `json:"accountBankingName"`
	Balance Money  `json:"accountBalance"`
}

// Purchase documents a balance debit. CardID is set for credit purchases,
// AccountID for debit and pix purchases; both may be set when a debit card
// was used against an account.
type Purchase struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	Establishment string        `json:"establishment"`
	Value         Money         `json:"value"`
	Date          time.Time     `json:"date"`
	Method        PaymentMethod `json:"paymentMethod"`
	CardID        int64         `json:"cardId,omitempty"`
	CategoryID    int64         `json:"categoryId"`
	AccountID     int64         `json:"accountId,omitempty"`
}

// IncomeEntry is a receita row: an inflow (entrada) or outflow (saida).
// PurchaseID links the mirrored saida that documents an account-funded
// purchase, so aggregations scanning entries alone stay complete.
type IncomeEntry struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"userId"`
	Value         Money          `json:"value"`
	Direction     EntryDirection `json:"type"`
	Name          string         `json:"name"`
	Establishment string         `json:"establishment,omitempty"`
	Date          time.Time      `json:"date"`
	CategoryID    int64          `json:"categoryId,omitempty"`
	AccountID     int64          `json:"accountId,omitempty"`
	PurchaseID    int64          `json:"purchaseId,omitempty"`
}

func (t CardType) Valid() bool {
	return t == CardCredit || t == CardDebit
}

func (m PaymentMethod) Valid() bool {
	return m == MethodCredit || m == MethodDebit || m == MethodPix
}

// AccountFunded reports whether the method draws on a bank account
// balance rather than a card limit.
func (m PaymentMethod) AccountFunded() bool {
	return m == MethodDebit || m == MethodPix
}

func (d EntryDirection) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrValidation)
	}
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if u.Gender != "" && u.Gender != "M" && u.Gender != "F" {
		return fmt.Errorf("%w: gender must be M or F", ErrValidation)
	}
	if u.Age < 0 {
		return fmt.Errorf("%w: negative age", ErrValidation)
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: empty category name", ErrValidation)
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("%w: category name too long (max 100 characters)", ErrValidation)
	}
	if c.SpendingLimit.Cents < 0 {
		return fmt.Errorf("%w: negative spending limit", ErrValidation)
	}
	return nil
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Number) == "" {
		return fmt.Errorf("%w: empty card number", ErrValidation)
	}
	if strings.TrimSpace(c.CVC) == "" {
		return fmt.Errorf("%w: empty card CVC", ErrValidation)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: card type must be credito or debito", ErrValidation)
	}
	if c.Limit.Cents < 0 || c.Balance.Cents < 0 {
		return fmt.Errorf("%w: negative card balance", ErrValidation)
	}
	return nil
}

func (a BankAccount) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: empty account name", ErrValidation)
	}
	if a.Balance.Cents < 0 {
		return fmt.Errorf("%w: negative account balance", ErrValidation)
	}
	return nil
}

func (p Purchase) Validate() error {
	if strings.TrimSpace(p.Establishment) == "" {
		return fmt.Errorf("%w: empty establishment", ErrValidation)
	}
	if len(p.Establishment) > 200 {
		return fmt.Errorf("%w: establishment too long (max 200 characters)", ErrValidation)
	}
	if err := p.Value.Validate(); err != nil {
		return err
	}
	if !p.Method.Valid() {
		return fmt.Errorf("%w: payment method must be credito, debito or pix", ErrValidation)
	}
	return nil
}

func (e IncomeEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: empty entry name", ErrValidation)
	}
	if len(e.Name) > 200 {
		return fmt.Errorf("%w: entry name too long (max 200 characters)", ErrValidation)
	}
	if err := e.Value.Validate(); err != nil {
		return err
	}
	if !e.Direction.Valid() {
		return fmt.Errorf("%w: type must be entrada or saida", ErrValidation)
	}
	return nil
}
