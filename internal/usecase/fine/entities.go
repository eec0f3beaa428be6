package fine

import (
	"time"

	domainFine "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"

	"github.com/shopspring/decimal"
)

type PayInput struct {
	FineID string
	PaidBy string // staff id, 32-char hex
	Method string
}

type WaiveInput struct {
	FineID   string
	WaivedBy string // staff id, 32-char hex
	Reason   string
}

type FineDTO struct {
	FineID            string          `json:"fine_id"`
	UserID            string          `json:"user_id"`
	LoanID            string          `json:"loan_id"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	BaseAmount        decimal.Decimal `json:"base_amount"`
	RateType          string          `json:"rate_type"`
	Rate              decimal.Decimal `json:"rate"`
	GracePeriodDays   int             `json:"grace_period_days"`
	OverdueDays       int             `json:"overdue_days"`
	DueDate           time.Time       `json:"due_date"`
	SettlementOverdue bool            `json:"settlement_overdue"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	PaidBy            *string         `json:"paid_by,omitempty"`
	PaymentMethod     *string         `json:"payment_method,omitempty"`
	WaivedAt          *time.Time      `json:"waived_at,omitempty"`
	WaivedBy          *string         `json:"waived_by,omitempty"`
	WaiverReason      *string         `json:"waiver_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func toDTO(f *domainFine.Fine, now time.Time) *FineDTO {
	return &FineDTO{
		FineID:            f.FineID,
		UserID:            f.UserID,
		LoanID:            f.LoanID,
		Type:              string(f.Type),
		Status:            string(f.Status),
		Amount:            f.Amount,
		BaseAmount:        f.BaseAmount,
		RateType:          string(f.RateType),
		Rate:              f.Rate,
		GracePeriodDays:   f.GracePeriodDays,
		OverdueDays:       f.OverdueDays,
		DueDate:           f.DueDate,
		SettlementOverdue: f.Status == domainFine.StatusPending && f.DueDate.Before(now),
		PaidAt:            f.PaidAt,
		PaidBy:            f.PaidBy,
		PaymentMethod:     f.PaymentMethod,
		WaivedAt:          f.WaivedAt,
		WaivedBy:          f.WaivedBy,
		WaiverReason:      f.WaiverReason,
		CreatedAt:         f.CreatedAt,
	}
}

// CreateFineResult: Created=false with a nil Fine means the loan is
// still inside its grace period. That is not an error.
type CreateFineResult struct {
	Created     bool               `json:"created"`
	Fine        *FineDTO           `json:"fine,omitempty"`
	Calculation *CalculationResult `json:"calculation,omitempty"`
}

type PreviewResult struct {
	LoanID       string            `json:"loan_id"`
	DueDate      time.Time         `json:"due_date"`
	EvaluatedAt  time.Time         `json:"evaluated_at"`
	Calculation  CalculationResult `json:"calculation"`
	ExistingFine *FineDTO          `json:"existing_fine,omitempty"`
}

type StatusTotal struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

func (t *StatusTotal) add(amount decimal.Decimal) {
	t.Count++
	t.Amount = t.Amount.Add(amount)
}

type UserFineSummary struct {
	UserID string `json:"user_id"`
	// StoredBalance is the counter on the user row; DerivedBalance is the
	// sum of pending fines. They differ only until reconciliation runs.
	StoredBalance       decimal.Decimal `json:"stored_balance"`
	DerivedBalance      decimal.Decimal `json:"derived_balance"`
	Paid                StatusTotal     `json:"paid"`
	Pending             StatusTotal     `json:"pending"`
	Waived              StatusTotal     `json:"waived"`
	OverduePendingCount int             `json:"overdue_pending_count"`
	PendingFines        []FineDTO       `json:"pending_fines"`
}

type FineStatistics struct {
	WindowDays int                               `json:"window_days"`
	Since      time.Time                         `json:"since"`
	Rows       []domainFine.StatRow              `json:"rows"`
	ByType     map[domainFine.Type]StatusTotal   `json:"by_type"`
	ByStatus   map[domainFine.Status]StatusTotal `json:"by_status"`
	Total      StatusTotal                       `json:"total"`
}

type ReconcileResult struct {
	Checked   int `json:"checked"`
	Corrected int `json:"corrected"`
}
