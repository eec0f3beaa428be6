package fine

import (
	"testing"
	"time"

	domainFine "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestCalculateOverdueFine_PerDay(t *testing.T) {
	p := DefaultPolicy()
	due := day(2024, 1, 1)

	cases := []struct {
		name     string
		now      time.Time
		wantDays int
		want     int64
		grace    bool
		capped   bool
	}{
		{"not yet due", due.Add(-time.Hour), 0, 0, true, false},
		{"one day late, inside grace", day(2024, 1, 2), 1, 0, true, false},
		{"exactly at grace", day(2024, 1, 3), 2, 0, true, false},
		{"first billable day", day(2024, 1, 4), 3, 50, false, false},
		{"4 days late", day(2024, 1, 5), 4, 100, false, false},
		{"3 days past grace", day(2024, 1, 6), 5, 150, false, false},
		{"capped", day(2024, 3, 1), 60, 2000, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateOverdueFine(due, tc.now, p)
			if got.OverdueDays != tc.wantDays {
				t.Fatalf("days: want %d, got %d", tc.wantDays, got.OverdueDays)
			}
			if !got.FineAmount.Equal(decimal.NewFromInt(tc.want)) {
				t.Fatalf("amount: want %d, got %s", tc.want, got.FineAmount)
			}
			if got.GracePeriodUsed != tc.grace || got.Capped != tc.capped {
				t.Fatalf("flags: grace=%v capped=%v, got %+v", tc.grace, tc.capped, got)
			}
			if got.RateType != domainFine.RatePerDay || !got.Rate().Equal(p.DailyRate) {
				t.Fatalf("rate: %+v", got)
			}
		})
	}
}

func TestCalculateOverdueFine_PartialDaysTruncate(t *testing.T) {
	p := DefaultPolicy()
	p.GracePeriodDays = 0
	due := day(2024, 1, 1)

	got := CalculateOverdueFine(due, due.Add(23*time.Hour+59*time.Minute), p)
	if got.OverdueDays != 0 || got.OverdueHours != 23 || !got.FineAmount.IsZero() {
		t.Fatalf("23h59m late: %+v", got)
	}

	got = CalculateOverdueFine(due, due.Add(24*time.Hour), p)
	if got.OverdueDays != 1 || !got.FineAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("24h late: %+v", got)
	}
}

func TestCalculateOverdueFine_PerHour(t *testing.T) {
	p := DefaultPolicy()
	p.RateType = domainFine.RatePerHour
	due := day(2024, 1, 1)

	// 77h late: 3 days > 2 grace, billable 77-48 = 29h at 5
	got := CalculateOverdueFine(due, due.Add(77*time.Hour+30*time.Minute), p)
	if got.OverdueHours != 77 || !got.FineAmount.Equal(decimal.NewFromInt(145)) {
		t.Fatalf("per hour: %+v", got)
	}
	if !got.Rate().Equal(p.HourlyRate) {
		t.Fatalf("rate should be hourly: %s", got.Rate())
	}

	// inside grace by days, never fined whatever the hours
	got = CalculateOverdueFine(due, due.Add(71*time.Hour), p)
	if !got.FineAmount.IsZero() || !got.GracePeriodUsed {
		t.Fatalf("inside grace: %+v", got)
	}
}

func TestCalculateOverdueFine_EdgePolicies(t *testing.T) {
	due := day(2024, 1, 1)

	p := DefaultPolicy()
	p.MaxFine = decimal.Zero
	if got := CalculateOverdueFine(due, day(2024, 1, 20), p); !got.FineAmount.IsZero() || !got.Capped {
		t.Fatalf("zero cap: %+v", got)
	}

	p = DefaultPolicy()
	p.GracePeriodDays = -3
	if got := CalculateOverdueFine(due, day(2024, 1, 2), p); got.GracePeriodDays != 0 || !got.FineAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("negative grace clamps to 0: %+v", got)
	}

	p = DefaultPolicy()
	p.RateType = "weekly"
	if got := CalculateOverdueFine(due, day(2024, 1, 6), p); got.RateType != domainFine.RatePerDay {
		t.Fatalf("unknown rate type falls back to per_day: %+v", got)
	}

	p = DefaultPolicy()
	p.DailyRate = decimal.RequireFromString("12.345")
	if got := CalculateOverdueFine(due, day(2024, 1, 4), p); !got.FineAmount.Equal(decimal.RequireFromString("12.35")) {
		t.Fatalf("rounded to cents: %s", got.FineAmount)
	}

	p = DefaultPolicy()
	p.MaxFine = decimal.RequireFromString("100.005")
	got := CalculateOverdueFine(due, day(2024, 1, 6), p)
	if !got.Capped || !got.FineAmount.Equal(decimal.NewFromInt(100)) || got.FineAmount.GreaterThan(p.MaxFine) {
		t.Fatalf("sub-cent cap must not be exceeded: %+v", got)
	}
}

func TestCalculateOverdueFine_MonotonicAndBounded(t *testing.T) {
	for _, rt := range []domainFine.RateType{domainFine.RatePerDay, domainFine.RatePerHour} {
		p := DefaultPolicy()
		p.RateType = rt
		due := day(2024, 1, 1)

		prev := decimal.Zero
		for h := 0; h < 24*60; h += 7 {
			got := CalculateOverdueFine(due, due.Add(time.Duration(h)*time.Hour), p)
			if got.FineAmount.LessThan(prev) {
				t.Fatalf("%s: amount decreased at %dh: %s < %s", rt, h, got.FineAmount, prev)
			}
			if got.FineAmount.IsNegative() || got.FineAmount.GreaterThan(p.MaxFine) {
				t.Fatalf("%s: amount out of bounds at %dh: %s", rt, h, got.FineAmount)
			}
			prev = got.FineAmount
		}
	}
}

func TestCalculateOverdueFine_Deterministic(t *testing.T) {
	p := DefaultPolicy()
	due := day(2024, 1, 1)
	now := day(2024, 1, 9).Add(5 * time.Hour)
	a := CalculateOverdueFine(due, now, p)
	b := CalculateOverdueFine(due, now, p)
	if !a.FineAmount.Equal(b.FineAmount) || a.OverdueDays != b.OverdueDays || a.OverdueHours != b.OverdueHours {
		t.Fatalf("same inputs, different results: %+v vs %+v", a, b)
	}
}

func TestLostBookAmount(t *testing.T) {
	p := DefaultPolicy()
	if got := LostBookAmount(decimal.NewFromInt(1500), p); !got.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("1500 x 2: got %s", got)
	}
	p.LostBookMultiplier = decimal.RequireFromString("1.5")
	if got := LostBookAmount(decimal.RequireFromString("12.50"), p); !got.Equal(decimal.RequireFromString("18.75")) {
		t.Fatalf("12.50 x 1.5: got %s", got)
	}
	if got := LostBookAmount(decimal.Zero, p); !got.IsZero() {
		t.Fatalf("zero cost: got %s", got)
	}
}
