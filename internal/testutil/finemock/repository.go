package finemock

import (
	"context"
	"time"

	domain "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups report gorm.ErrRecordNotFound, unset lists are empty and
// unset writes are no-ops.
type Repo struct {
	CreateFn               func(ctx context.Context, f *domain.Fine) error
	SaveFn                 func(ctx context.Context, f *domain.Fine) error
	GetByFineIDFn          func(ctx context.Context, fineID string) (*domain.Fine, error)
	GetByFineIDForUpdateFn func(ctx context.Context, fineID string) (*domain.Fine, error)
	FindByLoanAndTypeFn    func(ctx context.Context, loanID string, t domain.Type) (*domain.Fine, error)
	ListByUserIDFn         func(ctx context.Context, userID string) ([]domain.Fine, error)
	StatsSinceFn           func(ctx context.Context, since time.Time) ([]domain.StatRow, error)
	SumPendingByUserFn     func(ctx context.Context) ([]domain.UserTotal, error)
}

func (m *Repo) Create(ctx context.Context, f *domain.Fine) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, f *domain.Fine) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByFineID(ctx context.Context, fineID string) (*domain.Fine, error) {
	if m.GetByFineIDFn != nil {
		return m.GetByFineIDFn(ctx, fineID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByFineIDForUpdate(ctx context.Context, fineID string) (*domain.Fine, error) {
	if m.GetByFineIDForUpdateFn != nil {
		return m.GetByFineIDForUpdateFn(ctx, fineID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) FindByLoanAndType(ctx context.Context, loanID string, t domain.Type) (*domain.Fine, error) {
	if m.FindByLoanAndTypeFn != nil {
		return m.FindByLoanAndTypeFn(ctx, loanID, t)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Fine, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) StatsSince(ctx context.Context, since time.Time) ([]domain.StatRow, error) {
	if m.StatsSinceFn != nil {
		return m.StatsSinceFn(ctx, since)
	}
	return nil, nil
}

func (m *Repo) SumPendingByUser(ctx context.Context) ([]domain.UserTotal, error) {
	if m.SumPendingByUserFn != nil {
		return m.SumPendingByUserFn(ctx)
	}
	return nil, nil
}
