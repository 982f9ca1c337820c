package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quickscan/internal/model"
)

var (
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers unknown email, wrong password, and
	// inactive accounts alike so that the failure does not reveal which.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the in-memory credential store: email -> account record.
// State lives only for the lifetime of the process; there is no durable
// database behind it.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]model.User // keyed by email, case-sensitive
}

// NewUserStore creates an empty credential store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]model.User)}
}

// Register creates a new account, hashing the password with bcrypt.
// The insert is atomic: a concurrent duplicate registration loses with
// ErrUserExists rather than overwriting.
func (s *UserStore) Register(email, password string) (model.UserInfo, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.UserInfo{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return model.UserInfo{}, ErrUserExists
	}
	s.users[email] = user
	return user.Info(), nil
}

// Authenticate verifies an email/password pair. Every failure mode returns
// the same ErrInvalidCredentials.
func (s *UserStore) Authenticate(email, password string) (model.UserInfo, error) {
	s.mu.RLock()
	user, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return model.UserInfo{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.UserInfo{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return model.UserInfo{}, ErrInvalidCredentials
	}
	return user.Info(), nil
}

// GetByID returns the account with the given opaque id.
func (s *UserStore) GetByID(id string) (model.UserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.Info(), nil
		}
	}
	return model.UserInfo{}, ErrUserNotFound
}

// GetByEmail returns the account registered under the given email.
func (s *UserStore) GetByEmail(email string) (model.UserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[email]; ok {
		return u.Info(), nil
	}
	return model.UserInfo{}, ErrUserNotFound
}
