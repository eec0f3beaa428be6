package mysql

import (
	"context"
	"errors"
	"time"

	fineDomain "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FineRepository struct{ db *gorm.DB }

func NewFineRepository(db *gorm.DB) *FineRepository { return &FineRepository{db: db} }

// Create relies on ux_fines_loan_type; the db must be opened with
// TranslateError so the violation surfaces as gorm.ErrDuplicatedKey.
func (r *FineRepository) Create(ctx context.Context, f *fineDomain.Fine) error {
	err := r.db.WithContext(ctx).Create(f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fineDomain.ErrDuplicateFine
	}
	return err
}

func (r *FineRepository) Save(ctx context.Context, f *fineDomain.Fine) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *FineRepository) GetByFineID(ctx context.Context, fineID string) (*fineDomain.Fine, error) {
	var out fineDomain.Fine
	res := r.db.WithContext(ctx).Where("fine_id = ?", fineID).First(&out)
	return &out, res.Error
}

func (r *FineRepository) GetByFineIDForUpdate(ctx context.Context, fineID string) (*fineDomain.Fine, error) {
	var out fineDomain.Fine
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("fine_id = ?", fineID).
		First(&out)
	return &out, res.Error
}

func (r *FineRepository) FindByLoanAndType(ctx context.Context, loanID string, t fineDomain.Type) (*fineDomain.Fine, error) {
	var out fineDomain.Fine
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND type = ?", loanID, t).
		First(&out)
	return &out, res.Error
}

func (r *FineRepository) ListByUserID(ctx context.Context, userID string) ([]fineDomain.Fine, error) {
	var out []fineDomain.Fine
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *FineRepository) StatsSince(ctx context.Context, since time.Time) ([]fineDomain.StatRow, error) {
	var out []fineDomain.StatRow
	res := r.db.WithContext(ctx).
		Model(&fineDomain.Fine{}).
		Select("type, status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("created_at >= ?", since.UTC()).
		Group("type, status").
		Order("type, status").
		Scan(&out)
	return out, res.Error
}

func (r *FineRepository) SumPendingByUser(ctx context.Context) ([]fineDomain.UserTotal, error) {
	var out []fineDomain.UserTotal
	res := r.db.WithContext(ctx).
		Model(&fineDomain.Fine{}).
		Select("user_id, COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", fineDomain.StatusPending).
		Group("user_id").
		Scan(&out)
	return out, res.Error
}
