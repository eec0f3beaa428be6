package fine

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound                 = errors.New("fine not found")
	ErrAlreadyCompleted         = errors.New("loan is already completed")
	ErrDuplicateFine            = errors.New("fine of this type already exists for the loan")
	ErrAlreadyPaid              = errors.New("fine is already paid")
	ErrCannotWaivePaid          = errors.New("cannot waive a paid fine")
	ErrAlreadySettled           = errors.New("fine is already settled")
	ErrMissingDueDate           = errors.New("loan has no due date")
	ErrConfigurationUnavailable = errors.New("fine policy configuration unavailable")
)

type Type string

const (
	TypeOverdue            Type = "overdue"
	TypeLost               Type = "lost"
	TypeDamaged            Type = "damaged"
	TypeReservationExpired Type = "reservation_expired"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusWaived    Status = "waived"
	StatusCancelled Status = "cancelled"
)

type RateType string

const (
	RatePerHour RateType = "per_hour"
	RatePerDay  RateType = "per_day"
	RateFixed   RateType = "fixed"
)

// Table: fines. The (loan_id, type) unique index is what keeps two
// concurrent sweeps from charging the same loan twice.
type Fine struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	FineID          string          `gorm:"column:fine_id;size:32;not null;uniqueIndex:ux_fines_fine_id" json:"fine_id"`
	UserID          string          `gorm:"column:user_id;size:32;not null;index:idx_fines_user_status,priority:1" json:"user_id"`
	LoanID          string          `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_fines_loan_type,priority:1" json:"loan_id"`
	Type            Type            `gorm:"column:type;size:24;not null;uniqueIndex:ux_fines_loan_type,priority:2" json:"type"`
	Status          Status          `gorm:"column:status;size:16;not null;default:'pending';index:idx_fines_user_status,priority:2" json:"status"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	BaseAmount      decimal.Decimal `gorm:"column:base_amount;type:decimal(18,2);not null" json:"base_amount"`
	RateType        RateType        `gorm:"column:rate_type;size:16;not null" json:"rate_type"`
	Rate            decimal.Decimal `gorm:"column:rate;type:decimal(18,2);not null" json:"rate"`
	GracePeriodDays int             `gorm:"column:grace_period_days;not null;default:0" json:"grace_period_days"`
	OverdueDays     int             `gorm:"column:overdue_days;not null;default:0" json:"overdue_days"`
	DueDate         time.Time       `gorm:"column:due_date;not null" json:"due_date"`
	Description     string          `gorm:"column:description;type:text" json:"description,omitempty"`
	PaidAt          *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	PaidBy          *string         `gorm:"column:paid_by;size:32" json:"paid_by,omitempty"`
	PaymentMethod   *string         `gorm:"column:payment_method;size:32" json:"payment_method,omitempty"`
	WaivedAt        *time.Time      `gorm:"column:waived_at" json:"waived_at,omitempty"`
	WaivedBy        *string         `gorm:"column:waived_by;size:32" json:"waived_by,omitempty"`
	WaiverReason    *string         `gorm:"column:waiver_reason;type:text" json:"waiver_reason,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_fines_created" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Fine) TableName() string { return "fines" }

// Settled reports whether the fine left the pending state.
func (f *Fine) Settled() bool { return f.Status != StatusPending }

// StatRow is one (type, status) bucket of a windowed aggregate.
type StatRow struct {
	Type   Type            `json:"type"`
	Status Status          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// UserTotal is the sum of pending fines of one user.
type UserTotal struct {
	UserID string          `json:"user_id"`
	Total  decimal.Decimal `json:"total"`
}
