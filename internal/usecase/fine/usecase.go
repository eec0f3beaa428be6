package fine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	domainBook "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/book"
	domainFine "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"
	domainLoan "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/loan"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/notification"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/settings"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/uow"
	domainUser "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/user"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/infrastructure/metrics"
	"github.com/mosessifuna20/gatimbi-library-portal/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid input")

const notifyTimeout = 2 * time.Second

// Usecase is the fine ledger. Every mutation commits the fine row and
// the user balance delta in one transaction; notifications go out after
// commit and never fail the operation.
type Usecase struct {
	uow       uow.UnitOfWork
	loans     domainLoan.Repository
	fines     domainFine.Repository
	users     domainUser.Repository
	settings  settings.Provider
	publisher notification.Publisher
	now       func() time.Time
}

type Option func(*Usecase)

// WithClock overrides time.Now (tests, replays).
func WithClock(now func() time.Time) Option {
	return func(u *Usecase) { u.now = now }
}

// NewUsecase: repos are used for reads outside a transaction, the UoW for
// every write.
func NewUsecase(
	tx uow.UnitOfWork,
	loans domainLoan.Repository,
	fines domainFine.Repository,
	users domainUser.Repository,
	cfg settings.Provider,
	pub notification.Publisher,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		uow:       tx,
		loans:     loans,
		fines:     fines,
		users:     users,
		settings:  cfg,
		publisher: pub,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) policy(ctx context.Context) Policy {
	p, err := LoadPolicy(ctx, u.settings)
	if err != nil {
		log.Printf("fine: %v (defaults applied)", err)
	}
	return p
}

// Policy returns the fine policy as it would apply right now.
func (u *Usecase) Policy(ctx context.Context) Policy { return u.policy(ctx) }

func (u *Usecase) CreateOverdueFine(ctx context.Context, loanID string) (*CreateFineResult, error) {
	if loanID == "" {
		return nil, ErrInvalidInput
	}
	now := u.now()
	p := u.policy(ctx)

	res := &CreateFineResult{}
	var created *domainFine.Fine

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Completed() {
			return domainFine.ErrAlreadyCompleted
		}
		if err := ensureNoFine(ctx, r.Fines, l.LoanID, domainFine.TypeOverdue); err != nil {
			return err
		}
		if l.DueDate == nil {
			return domainFine.ErrMissingDueDate
		}

		calc := CalculateOverdueFine(*l.DueDate, now, p)
		res.Calculation = &calc
		if !calc.FineAmount.IsPositive() {
			return nil
		}

		f := &domainFine.Fine{
			FineID:          id.NewID32(),
			UserID:          l.UserID,
			LoanID:          l.LoanID,
			Type:            domainFine.TypeOverdue,
			Status:          domainFine.StatusPending,
			Amount:          calc.FineAmount,
			BaseAmount:      calc.FineAmount,
			RateType:        calc.RateType,
			Rate:            calc.Rate(),
			GracePeriodDays: calc.GracePeriodDays,
			OverdueDays:     calc.OverdueDays,
			DueDate:         now.AddDate(0, 0, p.SettlementDays),
			Description:     fmt.Sprintf("Overdue by %d day(s), %d beyond grace", calc.OverdueDays, calc.OverdueDays-calc.GracePeriodDays),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.Fines.Create(ctx, f); err != nil {
			return err
		}
		if err := r.Users.IncrementBalance(ctx, f.UserID, f.Amount); err != nil {
			return fmt.Errorf("increment balance of user %s: %w", f.UserID, err)
		}
		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		metrics.FinesCreated.WithLabelValues(string(created.Type)).Inc()
		res.Created = true
		res.Fine = toDTO(created, now)
		u.notify(ctx, createdEvent(created, now))
	}
	return res, nil
}

// CreateLostBookFine charges replacementCost (or the book price when nil)
// times the lost-book multiplier and closes the loan as lost.
func (u *Usecase) CreateLostBookFine(ctx context.Context, loanID string, replacementCost *decimal.Decimal) (*CreateFineResult, error) {
	if loanID == "" || (replacementCost != nil && replacementCost.IsNegative()) {
		return nil, ErrInvalidInput
	}
	now := u.now()
	p := u.policy(ctx)

	var created *domainFine.Fine
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if err := ensureNoFine(ctx, r.Fines, l.LoanID, domainFine.TypeLost); err != nil {
			return err
		}

		var cost decimal.Decimal
		if replacementCost != nil {
			cost = *replacementCost
		} else {
			b, err := r.Books.GetByBookID(ctx, l.BookID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("book %s of loan %s: %w", l.BookID, l.LoanID, domainBook.ErrNotFound)
				}
				return err
			}
			cost = b.Price
		}

		amount := LostBookAmount(cost, p)
		f := &domainFine.Fine{
			FineID:      id.NewID32(),
			UserID:      l.UserID,
			LoanID:      l.LoanID,
			Type:        domainFine.TypeLost,
			Status:      domainFine.StatusPending,
			Amount:      amount,
			BaseAmount:  cost,
			RateType:    domainFine.RateFixed,
			Rate:        p.LostBookMultiplier,
			DueDate:     now.AddDate(0, 0, p.SettlementDays),
			Description: fmt.Sprintf("Lost book: replacement cost %s x %s", cost.StringFixed(2), p.LostBookMultiplier.String()),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Fines.Create(ctx, f); err != nil {
			return err
		}

		l.IsLost = true
		l.Type = domainLoan.TypeLost
		l.Status = domainLoan.StatusCompleted
		l.ReplacementCost = decimal.NewNullDecimal(cost)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Users.IncrementBalance(ctx, f.UserID, f.Amount); err != nil {
			return fmt.Errorf("increment balance of user %s: %w", f.UserID, err)
		}
		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.FinesCreated.WithLabelValues(string(created.Type)).Inc()
	u.notify(ctx, createdEvent(created, now))
	return &CreateFineResult{Created: true, Fine: toDTO(created, now)}, nil
}

func (u *Usecase) PayFine(ctx context.Context, in PayInput) (*FineDTO, error) {
	if in.FineID == "" || in.PaidBy == "" || strings.TrimSpace(in.Method) == "" {
		return nil, ErrInvalidInput
	}
	now := u.now()

	f, err := u.settle(ctx, in.FineID, func(f *domainFine.Fine) error {
		switch f.Status {
		case domainFine.StatusPaid:
			return domainFine.ErrAlreadyPaid
		case domainFine.StatusWaived, domainFine.StatusCancelled:
			return domainFine.ErrAlreadySettled
		}
		method := strings.TrimSpace(in.Method)
		f.Status = domainFine.StatusPaid
		f.PaidAt = &now
		f.PaidBy = &in.PaidBy
		f.PaymentMethod = &method
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notify(ctx, notification.Event{
		Kind:       notification.KindFinePaid,
		UserID:     f.UserID,
		FineID:     f.FineID,
		LoanID:     f.LoanID,
		Amount:     f.Amount,
		Title:      "Fine payment received",
		Message:    fmt.Sprintf("Your payment of %s for the %s fine on loan %s has been received.", f.Amount.StringFixed(2), f.Type, f.LoanID),
		Channels:   []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
		Priority:   notification.PriorityMedium,
		OccurredAt: now,
	})
	return toDTO(f, now), nil
}

func (u *Usecase) WaiveFine(ctx context.Context, in WaiveInput) (*FineDTO, error) {
	if in.FineID == "" || in.WaivedBy == "" || strings.TrimSpace(in.Reason) == "" {
		return nil, ErrInvalidInput
	}
	now := u.now()

	f, err := u.settle(ctx, in.FineID, func(f *domainFine.Fine) error {
		switch f.Status {
		case domainFine.StatusPaid:
			return domainFine.ErrCannotWaivePaid
		case domainFine.StatusWaived, domainFine.StatusCancelled:
			return domainFine.ErrAlreadySettled
		}
		reason := strings.TrimSpace(in.Reason)
		f.Status = domainFine.StatusWaived
		f.WaivedAt = &now
		f.WaivedBy = &in.WaivedBy
		f.WaiverReason = &reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notify(ctx, notification.Event{
		Kind:       notification.KindFineWaived,
		UserID:     f.UserID,
		FineID:     f.FineID,
		LoanID:     f.LoanID,
		Amount:     f.Amount,
		Title:      "Fine waived",
		Message:    fmt.Sprintf("The %s fine of %s on loan %s has been waived: %s", f.Type, f.Amount.StringFixed(2), f.LoanID, *f.WaiverReason),
		Channels:   []notification.Channel{notification.ChannelEmail, notification.ChannelInApp},
		Priority:   notification.PriorityLow,
		OccurredAt: now,
	})
	return toDTO(f, now), nil
}

// settle locks the fine, lets transition move it out of pending (or
// refuse), then saves it and takes its amount off the user balance.
func (u *Usecase) settle(ctx context.Context, fineID string, transition func(f *domainFine.Fine) error) (*domainFine.Fine, error) {
	var out *domainFine.Fine
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Fines.GetByFineIDForUpdate(ctx, fineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainFine.ErrNotFound
			}
			return err
		}
		if err := transition(f); err != nil {
			return err
		}
		f.UpdatedAt = u.now()
		if err := r.Fines.Save(ctx, f); err != nil {
			return err
		}
		if err := r.Users.IncrementBalance(ctx, f.UserID, f.Amount.Neg()); err != nil {
			return fmt.Errorf("decrement balance of user %s: %w", f.UserID, err)
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.FinesSettled.WithLabelValues(string(out.Status)).Inc()
	return out, nil
}

// PreviewOverdueFine runs the calculator for a loan without writing.
func (u *Usecase) PreviewOverdueFine(ctx context.Context, loanID string) (*PreviewResult, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	if l.DueDate == nil {
		return nil, domainFine.ErrMissingDueDate
	}
	now := u.now()
	out := &PreviewResult{
		LoanID:      l.LoanID,
		DueDate:     *l.DueDate,
		EvaluatedAt: now,
		Calculation: CalculateOverdueFine(*l.DueDate, now, u.policy(ctx)),
	}
	existing, err := u.fines.FindByLoanAndType(ctx, l.LoanID, domainFine.TypeOverdue)
	switch {
	case err == nil:
		out.ExistingFine = toDTO(existing, now)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return out, nil
}

func (u *Usecase) GetUserFineSummary(ctx context.Context, userID string) (*UserFineSummary, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainUser.ErrNotFound
		}
		return nil, err
	}
	fines, err := u.fines.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	out := &UserFineSummary{
		UserID:        usr.UserID,
		StoredBalance: usr.FineBalance,
		PendingFines:  []FineDTO{},
	}
	for i := range fines {
		f := &fines[i]
		switch f.Status {
		case domainFine.StatusPaid:
			out.Paid.add(f.Amount)
		case domainFine.StatusWaived:
			out.Waived.add(f.Amount)
		case domainFine.StatusPending:
			out.Pending.add(f.Amount)
			dto := toDTO(f, now)
			if dto.SettlementOverdue {
				out.OverduePendingCount++
			}
			out.PendingFines = append(out.PendingFines, *dto)
		}
	}
	out.DerivedBalance = out.Pending.Amount
	return out, nil
}

// GetFineStatistics aggregates fines created in the last windowDays
// (30 when windowDays <= 0).
func (u *Usecase) GetFineStatistics(ctx context.Context, windowDays int) (*FineStatistics, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	since := u.now().AddDate(0, 0, -windowDays)
	rows, err := u.fines.StatsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	out := &FineStatistics{
		WindowDays: windowDays,
		Since:      since,
		Rows:       rows,
		ByType:     map[domainFine.Type]StatusTotal{},
		ByStatus:   map[domainFine.Status]StatusTotal{},
	}
	for _, r := range rows {
		bt := out.ByType[r.Type]
		bt.Count += int(r.Count)
		bt.Amount = bt.Amount.Add(r.Total)
		out.ByType[r.Type] = bt

		bs := out.ByStatus[r.Status]
		bs.Count += int(r.Count)
		bs.Amount = bs.Amount.Add(r.Total)
		out.ByStatus[r.Status] = bs

		out.Total.Count += int(r.Count)
		out.Total.Amount = out.Total.Amount.Add(r.Total)
	}
	return out, nil
}

// ReconcileBalances rewrites every stored fine balance that differs from
// the user's sum of pending fines. Each correction locks the user row and
// recomputes inside its own transaction, so it cannot race a ledger write.
func (u *Usecase) ReconcileBalances(ctx context.Context) (*ReconcileResult, error) {
	balances, err := u.users.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := u.fines.SumPendingByUser(ctx)
	if err != nil {
		return nil, err
	}
	pending := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		pending[t.UserID] = t.Total
	}

	out := &ReconcileResult{}
	for _, b := range balances {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.Checked++
		if b.FineBalance.Equal(pending[b.UserID]) {
			continue
		}
		fixed, err := u.reconcileUser(ctx, b.UserID)
		if err != nil {
			log.Printf("fine: reconcile user %s: %v", b.UserID, err)
			continue
		}
		if fixed {
			out.Corrected++
			metrics.BalanceCorrections.Inc()
		}
	}
	return out, nil
}

func (u *Usecase) reconcileUser(ctx context.Context, userID string) (bool, error) {
	fixed := false
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		fines, err := r.Fines.ListByUserID(ctx, userID)
		if err != nil {
			return err
		}
		want := decimal.Zero
		for _, f := range fines {
			if f.Status == domainFine.StatusPending {
				want = want.Add(f.Amount)
			}
		}
		if usr.FineBalance.Equal(want) {
			return nil
		}
		log.Printf("fine: user %s balance %s, pending fines sum %s; correcting", userID, usr.FineBalance.StringFixed(2), want.StringFixed(2))
		fixed = true
		return r.Users.SetBalance(ctx, userID, want)
	})
	return fixed, err
}

func ensureNoFine(ctx context.Context, fines domainFine.Repository, loanID string, t domainFine.Type) error {
	_, err := fines.FindByLoanAndType(ctx, loanID, t)
	switch {
	case err == nil:
		return domainFine.ErrDuplicateFine
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

func createdEvent(f *domainFine.Fine, now time.Time) notification.Event {
	title := "Overdue book fine"
	priority := notification.PriorityHigh
	if f.Type == domainFine.TypeLost {
		title = "Lost book fine"
	}
	return notification.Event{
		Kind:       notification.KindFineCreated,
		UserID:     f.UserID,
		FineID:     f.FineID,
		LoanID:     f.LoanID,
		Amount:     f.Amount,
		Title:      title,
		Message:    fmt.Sprintf("A %s fine of %s was issued on loan %s. Please settle it by %s.", f.Type, f.Amount.StringFixed(2), f.LoanID, f.DueDate.Format("02 Jan 2006")),
		Channels:   []notification.Channel{notification.ChannelEmail, notification.ChannelSMS, notification.ChannelInApp},
		Priority:   priority,
		OccurredAt: now,
	}
}

func (u *Usecase) notify(ctx context.Context, e notification.Event) {
	if u.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := u.publisher.Publish(ctx, e); err != nil {
		metrics.NotificationFailures.Inc()
		log.Printf("fine: notify %s for fine %s failed: %v", e.Kind, e.FineID, err)
	}
}
