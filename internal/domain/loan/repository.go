package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Lock the loan row for the rest of the transaction
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// Borrowed, still active and due strictly before now
	FindOverdueActiveBorrowed(ctx context.Context, now time.Time) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
