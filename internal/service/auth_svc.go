package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/saarock/sopy-ecommerce/internal/domain"
	"github.com/saarock/sopy-ecommerce/pkg/auth"
)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
	ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
}

// AuthSvc is the identity collaborator: it issues JWTs carrying {id, role}
// which the core then trusts as given.
type AuthSvc struct {
	users  UserStore
	tokens *auth.Tokens
	ttl    time.Duration
}

func NewAuthSvc(users UserStore, tokens *auth.Tokens, ttl time.Duration) *AuthSvc {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthSvc{users: users, tokens: tokens, ttl: ttl}
}

func (s *AuthSvc) Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", domain.ErrValidation)
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{Email: email, PasswordHash: string(hash), Name: name, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthSvc) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("bad credentials: %w", domain.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("bad credentials: %w", domain.ErrForbidden)
	}
	access, err := s.tokens.Create(u.ID, string(u.Role), u.Email, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return u, access, nil
}
