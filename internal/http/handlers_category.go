package http

import (
	"net/http"

	"financas/internal/auth"
	"financas/internal/core"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	limit, err := parser.GetMoney("spendingLimit", "limit")
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}

	category := core.Category{
		UserID:        userID,
		Name:          parser.Get("categoryName", "name"),
		Color:         parser.Get("categoryColor", "color"),
		SpendingLimit: limit,
	}

	created, err := s.categories.Create(r.Context(), category)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(created).Write(w)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(categories).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid category id").Write(w)
		return
	}

	category, err := s.categories.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(category).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid category id").Write(w)
		return
	}

	current, err := s.categories.Get(r.Context(), userID, id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	if name := parser.Get("categoryName", "name"); name != "" {
		current.Name = name
	}
	if color := parser.Get("categoryColor", "color"); color != "" {
		current.Color = color
	}
	if limit, err := parser.GetMoney("spendingLimit", "limit"); err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	} else if limit.Cents != 0 {
		current.SpendingLimit = limit
	}

	updated, err := s.categories.Update(r.Context(), current)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(updated).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid category id").Write(w)
		return
	}

	if err := s.categories.Delete(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
