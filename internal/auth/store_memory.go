package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type MemStore struct {
	mu      sync.RWMutex
	byEmail map[string]User
	cost    int
}

func NewMemStore() *MemStore {
	return &MemStore{byEmail: make(map[string]User), cost: bcrypt.DefaultCost}
}

func NewStore() *MemStore {
	return NewMemStore()
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Create(_ context.Context, nu NewUser) error {
	if !ValidRole(nu.Role) {
		return ErrInvalidRole
	}
	email := normalizeEmail(nu.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(normalizePassword(nu.Password)), s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return ErrEmailExists
	}
	s.byEmail[email] = User{ID: nu.ID, Email: email, Hash: hash, Role: nu.Role, CreatedAt: time.Now().UTC()}
	return nil
}

func (s *MemStore) Verify(_ context.Context, email, password string) (User, error) {
	s.mu.RLock()
	u, ok := s.byEmail[normalizeEmail(email)]
	s.mu.RUnlock()

	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(normalizePassword(password))); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *MemStore) SetRole(_ context.Context, email, role string) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	u, ok := s.byEmail[email]
	if !ok {
		return ErrUserNotFound
	}
	u.Role = role
	s.byEmail[email] = u
	return nil
}
