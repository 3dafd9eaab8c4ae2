package repository

import (
	"context"

	"blog-api/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Email uniqueness is enforced by the store; Create reports a violation
// as ErrAlreadyExists.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// ConsumeVerificationToken marks the owner of token verified and removes
	// the token in one store operation. Unknown tokens yield ErrNotFound.
	ConsumeVerificationToken(ctx context.Context, token string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
