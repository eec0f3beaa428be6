package sweep

import (
	"context"
	"testing"
	"time"

	mysqlrepo "github.com/mosessifuna20/gatimbi-library-portal/internal/adapter/repository/mysql"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/testutil/dbtest"
	fineuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/fine"

	"github.com/shopspring/decimal"
)

func TestSweep_SecondRunChargesNothing(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	clock := func() time.Time { return now }

	settings := mysqlrepo.NewSettingsRepository(db)
	for _, s := range fineuc.DefaultSettings() {
		s := s
		if err := settings.CreateIfAbsent(ctx, &s); err != nil {
			t.Fatalf("seed settings: %v", err)
		}
	}
	loans := mysqlrepo.NewLoanRepository(db)
	fines := mysqlrepo.NewFineRepository(db)
	users := mysqlrepo.NewUserRepository(db)
	ledger := fineuc.NewUsecase(mysqlrepo.NewGormUoW(db), loans, fines, users, settings, nil, fineuc.WithClock(clock))

	u := dbtest.SeedUser(t, db)
	b := dbtest.SeedBook(t, db, decimal.NewFromInt(800))
	dbtest.SeedBorrowedLoan(t, db, u.UserID, b.BookID, now.AddDate(0, 0, -5)) // 3 days past grace
	dbtest.SeedBorrowedLoan(t, db, u.UserID, b.BookID, now.AddDate(0, 0, -1)) // inside grace
	dbtest.SeedBorrowedLoan(t, db, u.UserID, b.BookID, now.AddDate(0, 0, 3))  // not due

	sweep := NewUsecase(loans, fines, ledger, time.Second).WithClock(clock)

	first, err := sweep.ProcessOverdueFines(ctx)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first.TotalOverdue != 2 || first.ProcessedCount != 1 || first.NoFine != 1 {
		t.Fatalf("first sweep: %+v", first)
	}

	second, err := sweep.ProcessOverdueFines(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second.ProcessedCount != 0 || second.Skipped != 1 || second.NoFine != 1 {
		t.Fatalf("second sweep must not charge again: %+v", second)
	}

	got, _ := users.GetByUserID(ctx, u.UserID)
	if !got.FineBalance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("balance: want 150, got %s", got.FineBalance)
	}
}
