package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/storage"
)

// UserService handles registration, login and account maintenance.
type UserService struct {
	storage    *storage.Repository
	issuer     *auth.Issuer
	bcryptCost int
}

func NewUserService(st *storage.Repository, issuer *auth.Issuer, bcryptCost int) *UserService {
	return &UserService{storage: st, issuer: issuer, bcryptCost: bcryptCost}
}

// RegisterInput carries the registration form. ConfirmPassword must
// match Password exactly.
type RegisterInput struct {
	Name            string
	Age             int
	BirthDate       string
	Gender          string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthResult is what login and registration hand back to the client.
type AuthResult struct {
	User  core.User
	Token string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if in.Password != in.ConfirmPassword {
		return AuthResult{}, core.ErrPasswordMismatch
	}

	user := core.User{
		Name:      strings.TrimSpace(in.Name),
		Age:       in.Age,
		BirthDate: strings.TrimSpace(in.BirthDate),
		Gender:    strings.TrimSpace(in.Gender),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
	}
	if err := user.Validate(); err != nil {
		return AuthResult{}, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return AuthResult{}, err
	}
	user.PasswordHash = hash

	created, err := s.storage.CreateUser(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.issuer.Issue(created.ID, created.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: created, Token: token}, nil
}

// Login verifies credentials and returns a fresh token. Unknown email
// and wrong password both surface as ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return AuthResult{}, core.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return AuthResult{}, err
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *UserService) Get(ctx context.Context, userID int64) (core.User, error) {
	return s.storage.GetUser(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]core.User, error) {
	return s.storage.ListUsers(ctx)
}

// Update rewrites profile fields. A non-empty password replaces the
// stored hash.
func (s *UserService) Update(ctx context.Context, userID int64, in RegisterInput) (core.User, error) {
	current, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return core.User{}, err
	}

	if in.Name != "" {
		current.Name = strings.TrimSpace(in.Name)
	}
	if in.Email != "" {
		current.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.BirthDate != "" {
		current.BirthDate = strings.TrimSpace(in.BirthDate)
	}
	if in.Gender != "" {
		current.Gender = strings.TrimSpace(in.Gender)
	}
	if in.Age != 0 {
		current.Age = in.Age
	}
	if err := current.Validate(); err != nil {
		return core.User{}, err
	}

	if in.Password != "" {
		if in.Password != in.ConfirmPassword {
			return core.User{}, core.ErrPasswordMismatch
		}
		hash, err := auth.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return core.User{}, err
		}
		current.PasswordHash = hash
	}

	return s.storage.UpdateUser(ctx, current)
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.storage.DeleteUser(ctx, userID)
}
