package book

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("book not found")
)

type Book struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	BookID    string          `gorm:"size:32;uniqueIndex:ux_books_book_id" json:"book_id"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Author    string          `gorm:"size:255" json:"author"`
	ISBN      string          `gorm:"column:isbn;size:20" json:"isbn"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string { return "books" }
