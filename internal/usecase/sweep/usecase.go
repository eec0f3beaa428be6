package sweep

import (
	"context"
	"errors"
	"log"
	"time"

	domainFine "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"
	domainLoan "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/loan"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/infrastructure/metrics"
	fineuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/fine"

	"gorm.io/gorm"
)

const DefaultPerLoanTimeout = 10 * time.Second

// FineCreator is the part of the ledger the sweep drives.
type FineCreator interface {
	CreateOverdueFine(ctx context.Context, loanID string) (*fineuc.CreateFineResult, error)
}

type Result struct {
	ProcessedCount int `json:"processed_count"`
	TotalOverdue   int `json:"total_overdue"`
	Skipped        int `json:"skipped"`
	NoFine         int `json:"no_fine"`
	Failed         int `json:"failed"`
}

// Usecase finds borrowed, active loans past their due date and creates
// an overdue fine for each one that has none yet. Running it twice, or
// from two processes at once, never charges a loan twice: the ledger
// rejects a second overdue fine for the same loan.
type Usecase struct {
	loans          domainLoan.Repository
	fines          domainFine.Repository
	ledger         FineCreator
	perLoanTimeout time.Duration
	now            func() time.Time
}

func NewUsecase(loans domainLoan.Repository, fines domainFine.Repository, ledger FineCreator, perLoanTimeout time.Duration) *Usecase {
	if perLoanTimeout <= 0 {
		perLoanTimeout = DefaultPerLoanTimeout
	}
	return &Usecase{
		loans:          loans,
		fines:          fines,
		ledger:         ledger,
		perLoanTimeout: perLoanTimeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// ProcessOverdueFines handles loans one at a time. A per-loan failure is
// logged and counted; cancellation is honoured between loans and returns
// the partial result together with ctx.Err().
func (u *Usecase) ProcessOverdueFines(ctx context.Context) (*Result, error) {
	loans, err := u.loans.FindOverdueActiveBorrowed(ctx, u.now())
	if err != nil {
		return nil, err
	}

	res := &Result{TotalOverdue: len(loans)}
	for i := range loans {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		l := &loans[i]

		switch outcome := u.processLoan(ctx, l); outcome {
		case outcomeProcessed:
			res.ProcessedCount++
		case outcomeSkipped:
			res.Skipped++
		case outcomeNoFine:
			res.NoFine++
		default:
			res.Failed++
		}
	}

	metrics.SweepLoans.WithLabelValues(string(outcomeProcessed)).Add(float64(res.ProcessedCount))
	metrics.SweepLoans.WithLabelValues(string(outcomeSkipped)).Add(float64(res.Skipped))
	metrics.SweepLoans.WithLabelValues(string(outcomeNoFine)).Add(float64(res.NoFine))
	metrics.SweepLoans.WithLabelValues(string(outcomeFailed)).Add(float64(res.Failed))
	return res, nil
}

type outcome string

const (
	outcomeProcessed outcome = "processed"
	outcomeSkipped   outcome = "skipped"
	outcomeNoFine    outcome = "no_fine"
	outcomeFailed    outcome = "failed"
)

func (u *Usecase) processLoan(parent context.Context, l *domainLoan.Loan) outcome {
	ctx, cancel := context.WithTimeout(parent, u.perLoanTimeout)
	defer cancel()

	// cheap pre-check outside the transaction; the ledger re-checks under lock
	_, err := u.fines.FindByLoanAndType(ctx, l.LoanID, domainFine.TypeOverdue)
	switch {
	case err == nil:
		return outcomeSkipped
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("sweep: loan %s: lookup existing fine: %v", l.LoanID, err)
		return outcomeFailed
	}

	res, err := u.ledger.CreateOverdueFine(ctx, l.LoanID)
	switch {
	case errors.Is(err, domainFine.ErrDuplicateFine):
		return outcomeSkipped
	case err != nil:
		log.Printf("sweep: loan %s: create overdue fine: %v", l.LoanID, err)
		return outcomeFailed
	case res == nil || !res.Created:
		return outcomeNoFine
	}
	return outcomeProcessed
}
