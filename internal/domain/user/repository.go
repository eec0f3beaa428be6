package user

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetByUserIDForUpdate(ctx context.Context, userID string) (*User, error)
	// Atomic fine_balance = fine_balance + delta
	IncrementBalance(ctx context.Context, userID string, delta decimal.Decimal) error
	SetBalance(ctx context.Context, userID string, balance decimal.Decimal) error
	ListBalances(ctx context.Context) ([]Balance, error)
}
