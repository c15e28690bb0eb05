package http

import (
	"net/http"
	"strings"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/services"
)

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	value, err := parser.GetMoney("value", "valor", "revenueValue")
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	date, err := parser.GetDate("date", "data")
	if err != nil {
		BadRequestError("invalid date, use YYYY-MM-DD").Write(w)
		return
	}

	direction := core.EntryDirection(strings.ToLower(parser.Get("type", "tipo", "direction")))
	if direction == "" {
		direction = core.DirectionIn
	}

	in := services.EntryInput{
		Value:         value,
		Direction:     direction,
		Name:          parser.Get("name", "nome"),
		Establishment: parser.Get("establishment", "estabelecimento"),
		Date:          date,
		CategoryRef:   parser.Get("categoryName", "category", "categoryId"),
		AccountRef:    parser.Get("accountBankingName", "account", "accountId"),
	}

	created, err := s.entries.Create(r.Context(), userID, in)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(entries).Write(w)
}

func (s *Server) handleListEntriesByType(w http.ResponseWriter, r *http.Request) {
	direction := core.EntryDirection(strings.ToLower(r.PathValue("tipo")))
	entries, err := s.entries.ListByType(r.Context(), auth.UserIDFromContext(r.Context()), direction)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(entries).Write(w)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid entry id").Write(w)
		return
	}

	entry, err := s.entries.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(entry).Write(w)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid entry id").Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	if parser.Get("value", "valor") != "" || parser.Get("type", "tipo") != "" ||
		parser.Get("accountBankingName", "accountId") != "" {
		BadRequestError("value, type and account cannot change; delete and recreate the entry").Write(w)
		return
	}

	date, err := parser.GetDate("date", "data")
	if err != nil {
		BadRequestError("invalid date, use YYYY-MM-DD").Write(w)
		return
	}

	updated, err := s.entries.Update(r.Context(), userID, id,
		parser.Get("name", "nome"),
		parser.Get("establishment", "estabelecimento"),
		date,
		parser.Get("categoryName", "category", "categoryId"))
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid entry id").Write(w)
		return
	}

	if err := s.entries.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
