package fine

import (
	"context"
	"time"
)

type Repository interface {
	// Create fails with ErrDuplicateFine when (loan, type) already exists
	Create(ctx context.Context, f *Fine) error
	Save(ctx context.Context, f *Fine) error
	GetByFineID(ctx context.Context, fineID string) (*Fine, error)
	GetByFineIDForUpdate(ctx context.Context, fineID string) (*Fine, error)
	FindByLoanAndType(ctx context.Context, loanID string, t Type) (*Fine, error)
	ListByUserID(ctx context.Context, userID string) ([]Fine, error)

	// Aggregates
	StatsSince(ctx context.Context, since time.Time) ([]StatRow, error)
	SumPendingByUser(ctx context.Context) ([]UserTotal, error)
}
