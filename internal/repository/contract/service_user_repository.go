package contract

import (
	"context"

	"medichat-web/internal/entity"
)

type ServiceUserRepository interface {
	// EnsureWithCredit creates the service user and a zero balance the first time a
	// sign-in identity is seen; later calls leave existing rows untouched.
	EnsureWithCredit(ctx context.Context, user *entity.ServiceUser) error
	FindCredit(ctx context.Context, userId string) (*entity.Credit, error)
}
