//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"
	"slices"
	"time"

	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"

	"github.com/google/uuid"
)

type IAuthService interface {
	Register(name, password string) (Token, error)
	Login(name, password string) (Token, error)
}

type Token string

type AuthService struct {
	users         repositories.IUserRepository
	tokenDuration time.Duration
	// moderators lists account names granted the moderator role at
	// registration. Privilege is an explicit capability on the account
	// from then on; the name list is only the bootstrap.
	moderators []string
}

func NewAuthService(users repositories.IUserRepository, tokenDuration time.Duration, moderators []string) *AuthService {
	return &AuthService{users: users, tokenDuration: tokenDuration, moderators: moderators}
}

func (s *AuthService) Register(name, password string) (Token, error) {
	valReq := auth.RegisterRequest{
		Name:     name,
		Password: password,
	}

	// 1. Validate business rules (name format, password complexity)
	// before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	// 2. Hash the password with Argon2id. Done here so the repository
	// never sees a plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	roles := []string{domain.RoleUser}
	if slices.Contains(s.moderators, name) {
		roles = append(roles, domain.RoleModerator)
	}

	// 3. Persist the account.
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		PasswordHash: hashedPassword,
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		return "", err // Propagates ErrUserAlreadyExists if the name is taken
	}

	// 4. Issue the initial session token.
	token, err := auth.GenerateToken(user.ID, user.Name, user.Roles, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(name, password string) (Token, error) {
	user, err := s.users.GetByName(name)
	if err != nil {
		// Generic error to prevent user enumeration attacks.
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	// A banned account keeps its credentials but gets no session.
	if user.Banned {
		return "", errors.ErrUserBanned
	}

	token, err := auth.GenerateToken(user.ID, user.Name, user.Roles, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
