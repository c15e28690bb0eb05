package core

import "errors"

// Sentinel errors for the domain. Handlers map these to HTTP statuses with
// errors.Is, so every layer wraps them with fmt.Errorf("...: %w", err)
// instead of returning new opaque errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateCategory  = errors.New("category already exists")
	ErrDuplicateCard      = errors.New("card already registered")
	ErrForbidden          = errors.New("forbidden")

	// ErrInconsistent signals that a balance was mutated but the dependent
	// record write (and its compensation) failed. Callers must log it at
	// error level with the involved entity ids; it indicates money that is
	// no longer accounted for by any Purchase or IncomeEntry row.
	ErrInconsistent = errors.New("balance and records inconsistent")
)
