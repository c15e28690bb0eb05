package http

import (
	"net/http"

	"financas/internal/auth"
	"financas/internal/core"
)

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	balance, err := parser.GetMoney("accountBalance", "balance")
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}

	account := core.BankAccount{
		UserID:  userID,
		Name:    parser.Get("accountBankingName", "accountName", "name"),
		Balance: balance,
	}

	created, err := s.accounts.Create(r.Context(), account)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(accounts).Write(w)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid account id").Write(w)
		return
	}

	account, err := s.accounts.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(account).Write(w)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid account id").Write(w)
		return
	}

	current, err := s.accounts.Get(r.Context(), userID, id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	if name := parser.Get("accountBankingName", "accountName", "name"); name != "" {
		current.Name = name
	}
	if balance, err := parser.GetMoney("accountBalance", "balance"); err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	} else if balance.Cents != 0 {
		current.Balance = balance
	}

	updated, err := s.accounts.Update(r.Context(), current)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid account id").Write(w)
		return
	}

	if err := s.accounts.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
