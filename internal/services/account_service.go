package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/01moynul/cartify-golang/internal/models"
	"github.com/01moynul/cartify-golang/internal/store"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes and newer x/crypto rejects it.
	maxPasswordBytes = 72
)

// PasswordHasher is the one-way hash collaborator used by AccountService.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(hash, plaintext string) (bool, error)
}

// TokenIssuer signs session tokens for a user id.
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

// Session is what signup and login hand back to the client.
type Session struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

type AccountService struct {
	users  store.UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	now    func() time.Time
}

func NewAccountService(users store.UserStore, hasher PasswordHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

// Signup registers a new account and opens a session for it.
func (s *AccountService) Signup(ctx context.Context, email, name, password string) (*Session, error) {
	email = models.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return nil, badRequest("Missing fields")
	}
	if !strings.Contains(email, "@") {
		return nil, badRequest("Invalid email")
	}
	if len(password) < minPasswordLength {
		return nil, badRequest(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return nil, badRequest(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, conflict("Email already in use")
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent signup for the same address
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflict("Email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.session(user)
}

// Login verifies the credentials and opens a session.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, badRequest("Missing fields")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Matches(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, unauthorized("Invalid credentials")
	}

	return s.session(user)
}

// Resolve loads the user behind a verified token subject.
func (s *AccountService) Resolve(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, unauthorized("Invalid token")
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, unauthorized("Invalid token")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *AccountService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: user.PublicProfile()}, nil
}
