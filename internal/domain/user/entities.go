package user

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("user not found")
)

// FineBalance is a cached sum of the user's pending fines; it is only
// ever changed inside the transaction that changes a fine.
type User struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	UserID      string          `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name        string          `gorm:"size:255" json:"name"`
	Email       string          `gorm:"size:255" json:"email"`
	Phone       string          `gorm:"size:32" json:"phone"`
	FineBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"fine_balance"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Balance is a user id with its stored fine balance.
type Balance struct {
	UserID      string
	FineBalance decimal.Decimal
}
