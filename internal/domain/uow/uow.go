package uow

import (
	"context"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/book"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/loan"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/user"
)

// Repos bound to one transaction
type Repos struct {
	Loans loan.Repository
	Fines fine.Repository
	Users user.Repository
	Books book.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
