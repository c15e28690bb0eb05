package http

import (
	"net/http"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/services"
)

type authResponse struct {
	User  core.User `json:"user"`
	Token string    `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	in := services.RegisterInput{
		Name:            parser.Get("name", "nome"),
		Age:             parser.GetInt("age", "idade"),
		BirthDate:       parser.Get("birthdayDate", "birthDate"),
		Gender:          parser.Get("gender", "sexo"),
		Email:           parser.Get("email"),
		Password:        parser.Get("password", "senha"),
		ConfirmPassword: parser.Get("confirmPassword", "confirmpassword", "confirmarSenha"),
	}

	result, err := s.users.Register(r.Context(), in)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(authResponse{User: result.User, Token: result.Token}).Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	result, err := s.users.Login(r.Context(), parser.Get("email"), parser.Get("password", "senha"))
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(authResponse{User: result.User, Token: result.Token}).Write(w)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(users).Write(w)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid user id").Write(w)
		return
	}

	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(user).Write(w)
}

// handleUpdateUser only lets users change their own profile.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid user id").Write(w)
		return
	}
	if id != auth.UserIDFromContext(r.Context()) {
		WriteDomainError(r.Context(), w, core.ErrForbidden)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	in := services.RegisterInput{
		Name:            parser.Get("name", "nome"),
		Age:             parser.GetInt("age", "idade"),
		BirthDate:       parser.Get("birthdayDate", "birthDate"),
		Gender:          parser.Get("gender", "sexo"),
		Email:           parser.Get("email"),
		Password:        parser.Get("password", "senha"),
		ConfirmPassword: parser.Get("confirmPassword", "confirmpassword", "confirmarSenha"),
	}

	user, err := s.users.Update(r.Context(), id, in)
	if err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Body(user).Write(w)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid user id").Write(w)
		return
	}
	if id != auth.UserIDFromContext(r.Context()) {
		WriteDomainError(r.Context(), w, core.ErrForbidden)
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		WriteDomainError(r.Context(), w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
