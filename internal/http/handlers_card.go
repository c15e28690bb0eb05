package http

import (
	"net/http"

	"financas/internal/auth"
	"financas/internal/core"
)

func (s *Server) cardFromBody(parser *RequestBodyParser, base core.Card) (core.Card, error) {
	if number := parser.Get("cardNumber", "number"); number != "" {
		base.Number = number
	}
	if cvc := parser.Get("cardCVC", "cvc"); cvc != "" {
		base.CVC = cvc
	}
	if name := parser.Get("cardName", "name"); name != "" {
		base.Name = name
	}
	if validity := parser.Get("cardDateValidity", "validity"); validity != "" {
		base.Validity = validity
	}
	if closeDay := parser.GetInt("cardDateClose", "closeDay"); closeDay != 0 {
		base.CloseDay = closeDay
	}
	if maturityDay := parser.GetInt("cardDateMaturity", "maturityDay"); maturityDay != 0 {
		base.MaturityDay = maturityDay
	}
	if cardType := parser.Get("cardType", "type"); cardType != "" {
		base.Type = core.CardType(cardType)
	}

	if balance, err := parser.GetMoney("cardBalance", "balance"); err != nil {
		return core.Card{}, err
	} else if balance.Cents != 0 {
		base.Balance = balance
	}
	if limit, err := parser.GetMoney("cardLimited", "cardLimit", "limit"); err != nil {
		return core.Card{}, err
	} else if limit.Cents != 0 {
		base.Limit = limit
	}
	return base, nil
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	card, err := s.cardFromBody(parser, core.Card{UserID: userID})
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}

	created, err := s.cards.Create(r.Context(), card)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.cards.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(cards).Write(w)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid card id").Write(w)
		return
	}

	card, err := s.cards.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(card).Write(w)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid card id").Write(w)
		return
	}

	current, err := s.cards.Get(r.Context(), userID, id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	card, err := s.cardFromBody(parser, current)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}

	updated, err := s.cards.Update(r.Context(), card)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid card id").Write(w)
		return
	}

	if err := s.cards.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
