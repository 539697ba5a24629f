//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=user_test

package user

import (
	"context"

	"fuel-delivery-service/internal/auth/token"
	"fuel-delivery-service/internal/domain"
)

// UserRepository defines storage operations required by the business layer.
type UserRepository interface {
	Create(ctx context.Context, u domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) (bool, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(c token.Claims) (token.Issued, error)
}
