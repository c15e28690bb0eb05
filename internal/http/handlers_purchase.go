package http

import (
	"net/http"

	"financas/internal/auth"
	"financas/internal/services"
)

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	value, err := parser.GetMoney("value", "valor")
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	date, err := parser.GetDate("date", "data")
	if err != nil {
		BadRequestError("invalid date, use YYYY-MM-DD").Write(w)
		return
	}

	in := services.PurchaseInput{
		Establishment: parser.Get("establishment", "estabelecimento", "store"),
		Value:         value,
		Date:          date,
		Method:        paymentMethod(parser.Get("paymentMethod", "method", "formaPagamento")),
		CardRef:       parser.Get("cardNumber", "number", "cardId"),
		CategoryRef:   parser.Get("categoryName", "category", "categoryId"),
		AccountRef:    parser.Get("accountBankingName", "account", "accountId"),
	}

	created, err := s.purchases.Create(r.Context(), userID, in)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.purchases.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(purchases).Write(w)
}

func (s *Server) handleGetPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid purchase id").Write(w)
		return
	}

	purchase, err := s.purchases.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(purchase).Write(w)
}

// handleUpdatePurchase accepts descriptive fields only. Amount, method
// and funding references in the body are rejected so clients learn the
// contract instead of silently losing edits.
func (s *Server) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid purchase id").Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	if parser.Get("value", "valor") != "" || parser.Get("paymentMethod", "method") != "" ||
		parser.Get("cardNumber", "cardId") != "" || parser.Get("accountBankingName", "accountId") != "" {
		BadRequestError("value, payment method and funding source cannot change; delete and recreate the purchase").Write(w)
		return
	}

	date, err := parser.GetDate("date", "data")
	if err != nil {
		BadRequestError("invalid date, use YYYY-MM-DD").Write(w)
		return
	}

	updated, err := s.purchases.Update(r.Context(), userID, id,
		parser.Get("establishment", "estabelecimento", "store"),
		date,
		parser.Get("categoryName", "category", "categoryId"))
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid purchase id").Write(w)
		return
	}

	if err := s.purchases.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
