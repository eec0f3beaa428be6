package loanmock

import (
	"context"
	"time"

	domain "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn                    func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn               func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn      func(ctx context.Context, loanID string) (*domain.Loan, error)
	FindOverdueActiveBorrowedFn func(ctx context.Context, now time.Time) ([]domain.Loan, error)
	SaveFn                      func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) FindOverdueActiveBorrowed(ctx context.Context, now time.Time) ([]domain.Loan, error) {
	if m.FindOverdueActiveBorrowedFn != nil {
		return m.FindOverdueActiveBorrowedFn(ctx, now)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
