package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"LaptopStore/pkg/kit"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

type User struct {
	ID        string
	Email     string
	Hash      []byte
	Role      string
	CreatedAt time.Time
}

type NewUser struct {
	ID       string
	Email    string
	Password string
	Role     string
}

type UserStore interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, u NewUser) error
	Verify(ctx context.Context, email, password string) (User, error)
	SetRole(ctx context.Context, email, role string) error
}

func ValidRole(role string) bool {
	return role == kit.RoleCustomer || role == kit.RoleAdmin
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePassword(password string) string {
	return strings.TrimSpace(password)
}

// EnsureAdmin makes sure email can log in as an admin. A missing account is
// created with password; an existing one is promoted and keeps its password.
func EnsureAdmin(ctx context.Context, s UserStore, id, email, password string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	err := s.Create(ctx, NewUser{ID: id, Email: email, Password: password, Role: kit.RoleAdmin})
	switch {
	case err == nil:
		log.Info("admin account created", zap.String("email", normalizeEmail(email)))
		return nil
	case errors.Is(err, ErrEmailExists):
		if err := s.SetRole(ctx, email, kit.RoleAdmin); err != nil {
			return err
		}
		log.Info("admin account ensured", zap.String("email", normalizeEmail(email)))
		return nil
	default:
		return err
	}
}
