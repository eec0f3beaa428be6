package fine

import (
	"time"

	domainFine "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"

	"github.com/shopspring/decimal"
)

type CalculationResult struct {
	FineAmount      decimal.Decimal     `json:"fine_amount"`
	OverdueDays     int                 `json:"overdue_days"`
	OverdueHours    int                 `json:"overdue_hours"`
	GracePeriodDays int                 `json:"grace_period_days"`
	GracePeriodUsed bool                `json:"grace_period_used"`
	RateType        domainFine.RateType `json:"rate_type"`
	DailyRate       decimal.Decimal     `json:"daily_rate"`
	HourlyRate      decimal.Decimal     `json:"hourly_rate"`
	Capped          bool                `json:"capped"`
}

// Rate is the rate actually applied for the selected rate type.
func (r CalculationResult) Rate() decimal.Decimal {
	if r.RateType == domainFine.RatePerHour {
		return r.HourlyRate
	}
	return r.DailyRate
}

// CalculateOverdueFine is pure: same inputs, same result.
//
// Whole overdue days and whole overdue hours are truncated separately
// from now-dueDate, so 23h59m late is 0 days but 23 hours. The grace
// check always uses days, even under per_hour: a loan inside grace is
// never fined, whatever the hour count says.
func CalculateOverdueFine(dueDate, now time.Time, p Policy) CalculationResult {
	grace := p.GracePeriodDays
	if grace < 0 {
		grace = 0
	}
	rateType := p.RateType
	if rateType != domainFine.RatePerHour {
		rateType = domainFine.RatePerDay
	}

	late := now.Sub(dueDate)
	if late < 0 {
		late = 0
	}
	days := int(late / (24 * time.Hour))
	hours := int(late / time.Hour)

	res := CalculationResult{
		FineAmount:      decimal.Zero,
		OverdueDays:     days,
		OverdueHours:    hours,
		GracePeriodDays: grace,
		RateType:        rateType,
		DailyRate:       p.DailyRate,
		HourlyRate:      p.HourlyRate,
	}
	if days <= grace {
		res.GracePeriodUsed = true
		return res
	}

	var raw decimal.Decimal
	switch rateType {
	case domainFine.RatePerHour:
		billable := hours - grace*24
		if billable < 0 {
			billable = 0
		}
		raw = p.HourlyRate.Mul(decimal.NewFromInt(int64(billable)))
	default:
		raw = p.DailyRate.Mul(decimal.NewFromInt(int64(days - grace)))
	}

	if raw.IsNegative() {
		raw = decimal.Zero
	}
	// amounts are whole cents; the cap is cut to cents, never rounded up
	raw = raw.Round(2)
	limit := p.MaxFine.Truncate(2)
	if raw.GreaterThan(limit) {
		raw = limit
		res.Capped = true
	}
	if raw.IsNegative() {
		raw = decimal.Zero
	}
	res.FineAmount = raw
	return res
}

// LostBookAmount is replacement cost times the configured multiplier.
func LostBookAmount(cost decimal.Decimal, p Policy) decimal.Decimal {
	return cost.Mul(p.LostBookMultiplier).Round(2)
}
