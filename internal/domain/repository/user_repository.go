package repository

import (
	"context"

	"github.com/dmelo/balcao-api/internal/domain/entity"
	"github.com/google/uuid"
)

// UserRepository defines user data access
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
