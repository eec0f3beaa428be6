// Package dbtest opens a migrated in-memory SQLite database and seeds
// rows for repository, usecase and handler tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/book"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/loan"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/user"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/infrastructure/db"
	"github.com/mosessifuna20/gatimbi-library-portal/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh schema per call. One connection, so every
// statement sees the same :memory: database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.Config(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func SeedUser(t *testing.T, gdb *gorm.DB) *user.User {
	t.Helper()
	u := &user.User{UserID: id.NewID32(), Name: "Test Reader", Email: "reader@example.com", FineBalance: decimal.Zero}
	if err := gdb.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedBook(t *testing.T, gdb *gorm.DB, price decimal.Decimal) *book.Book {
	t.Helper()
	b := &book.Book{BookID: id.NewID32(), Title: "The Go Programming Language", Author: "Donovan & Kernighan", ISBN: "9780134190440", Price: price}
	if err := gdb.Create(b).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return b
}

// SeedBorrowedLoan inserts an active borrowed loan due at due.
func SeedBorrowedLoan(t *testing.T, gdb *gorm.DB, userID, bookID string, due time.Time) *loan.Loan {
	t.Helper()
	borrowed := due.AddDate(0, 0, -14)
	due = due.UTC()
	l := &loan.Loan{
		LoanID:     id.NewID32(),
		UserID:     userID,
		BookID:     bookID,
		Type:       loan.TypeBorrowed,
		Status:     loan.StatusActive,
		BorrowedAt: &borrowed,
		DueDate:    &due,
	}
	if err := gdb.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}
