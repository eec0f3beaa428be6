package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("loan not found")
)

type Type string

const (
	TypeReservation Type = "reservation"
	TypeBorrowed    Type = "borrowed"
	TypeReturned    Type = "returned"
	TypeOverdue     Type = "overdue"
	TypeLost        Type = "lost"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusOverdue   Status = "overdue"
)

// Loan is one user's custody of one book copy (a reservation, an issue
// or a history entry). Rows are never hard-deleted.
type Loan struct {
	ID              uint64              `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string              `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserID          string              `gorm:"size:32;index:idx_loans_user" json:"user_id"`
	BookID          string              `gorm:"size:32;index:idx_loans_book" json:"book_id"`
	Type            Type                `gorm:"size:16;index:idx_loans_type_status_due,priority:1;default:'reservation'" json:"type"`
	Status          Status              `gorm:"size:16;index:idx_loans_type_status_due,priority:2;default:'active'" json:"status"`
	ReservedAt      *time.Time          `json:"reserved_at,omitempty"`
	ReservedUntil   *time.Time          `json:"reserved_until,omitempty"`
	BorrowedAt      *time.Time          `json:"borrowed_at,omitempty"`
	DueDate         *time.Time          `gorm:"index:idx_loans_type_status_due,priority:3" json:"due_date,omitempty"`
	ReturnedAt      *time.Time          `json:"returned_at,omitempty"`
	IsLost          bool                `gorm:"not null;default:false" json:"is_lost"`
	ReplacementCost decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"replacement_cost"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Completed reports whether the loan is closed for further fines.
func (l *Loan) Completed() bool { return l.Status == StatusCompleted }
