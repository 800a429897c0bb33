package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/synergysphere/backend/internal/auth"
	"github.com/synergysphere/backend/internal/domain"
)

type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the signup/login result: the bearer token plus the account.
type Session struct {
	Token string          `json:"token"`
	User  *domain.UserRef `json:"user"`
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*Session, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type authService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalid)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalid)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", domain.ErrInvalid)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.session(user)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Indistinguishable from a wrong password on purpose.
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := auth.CheckPassword(user.Password, in.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return s.session(user)
}

func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *authService) session(user *domain.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	ref := user.Ref()
	return &Session{Token: token, User: &ref}, nil
}
