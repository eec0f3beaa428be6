package mysql

import (
	"context"

	userDomain "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/user"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&out)
	return &out, res.Error
}

// IncrementBalance is a single UPDATE, so concurrent deltas never lose
// each other even outside a locked transaction.
func (r *UserRepository) IncrementBalance(ctx context.Context, userID string, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&userDomain.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("fine_balance", gorm.Expr("fine_balance + CAST(? AS DECIMAL(18,2))", delta.StringFixed(2)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return userDomain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&userDomain.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("fine_balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return userDomain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListBalances(ctx context.Context) ([]userDomain.Balance, error) {
	var out []userDomain.Balance
	res := r.db.WithContext(ctx).
		Model(&userDomain.User{}).
		Select("user_id, fine_balance").
		Order("id ASC").
		Scan(&out)
	return out, res.Error
}
