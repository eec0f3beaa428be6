package fine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainFine "github.com/mosessifuna20/gatimbi-library-portal/internal/domain/fine"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/settings"

	"github.com/shopspring/decimal"
)

// Configuration keys read by the fine policy.
const (
	KeyGracePeriodDays    = "fine.grace_period_days"
	KeyDailyRate          = "fine.daily_rate"
	KeyHourlyRate         = "fine.hourly_rate"
	KeyMaxAmount          = "fine.max_amount"
	KeyRateType           = "fine.rate_type"
	KeyLostBookMultiplier = "fine.lost_book_multiplier"
	KeySettlementDays     = "fine.settlement_days"

	CategoryFines = "fines"
)

// Policy is the set of administrator-editable values a fine is computed
// from. It is re-read for every calculation.
type Policy struct {
	GracePeriodDays    int
	DailyRate          decimal.Decimal
	HourlyRate         decimal.Decimal
	MaxFine            decimal.Decimal
	RateType           domainFine.RateType
	LostBookMultiplier decimal.Decimal
	SettlementDays     int
}

func DefaultPolicy() Policy {
	return Policy{
		GracePeriodDays:    2,
		DailyRate:          decimal.NewFromInt(50),
		HourlyRate:         decimal.NewFromInt(5),
		MaxFine:            decimal.NewFromInt(2000),
		RateType:           domainFine.RatePerDay,
		LostBookMultiplier: decimal.NewFromInt(2),
		SettlementDays:     7,
	}
}

// DefaultSettings are the rows seeded into system_configurations at
// startup when absent.
func DefaultSettings() []settings.Setting {
	d := DefaultPolicy()
	row := func(key string, t settings.ValueType, v, desc string) settings.Setting {
		return settings.Setting{Key: key, Value: v, ValueType: t, Category: CategoryFines, Description: desc}
	}
	return []settings.Setting{
		row(KeyGracePeriodDays, settings.TypeNumber, fmt.Sprint(d.GracePeriodDays), "Days after the due date before an overdue fine accrues"),
		row(KeyDailyRate, settings.TypeNumber, d.DailyRate.String(), "Fine per overdue day past grace"),
		row(KeyHourlyRate, settings.TypeNumber, d.HourlyRate.String(), "Fine per overdue hour past grace"),
		row(KeyMaxAmount, settings.TypeNumber, d.MaxFine.String(), "Cap on a single overdue fine"),
		row(KeyRateType, settings.TypeString, string(d.RateType), "per_day or per_hour"),
		row(KeyLostBookMultiplier, settings.TypeNumber, d.LostBookMultiplier.String(), "Lost-book fine = replacement cost x multiplier"),
		row(KeySettlementDays, settings.TypeNumber, fmt.Sprint(d.SettlementDays), "Days a fine may stay unpaid before it is itself overdue"),
	}
}

// CheckSetting applies the fine policy's rules to one key: rates, the
// cap and the multiplier are non-negative numbers, day counts are whole
// non-negative numbers, and the rate type is per_day or per_hour. Keys
// outside the policy pass. Failures wrap settings.ErrInvalidValue.
func CheckSetting(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyDailyRate, KeyHourlyRate, KeyMaxAmount, KeyLostBookMultiplier:
		if _, err := nonNegative(value); err != nil {
			return fmt.Errorf("%w: %s=%q %v", settings.ErrInvalidValue, key, value, err)
		}
	case KeyGracePeriodDays, KeySettlementDays:
		d, err := nonNegative(value)
		if err == nil && !d.IsInteger() {
			err = errors.New("must be a whole number of days")
		}
		if err != nil {
			return fmt.Errorf("%w: %s=%q %v", settings.ErrInvalidValue, key, value, err)
		}
	case KeyRateType:
		switch domainFine.RateType(value) {
		case domainFine.RatePerDay, domainFine.RatePerHour:
		default:
			return fmt.Errorf("%w: %s=%q must be %s or %s", settings.ErrInvalidValue, key, value, domainFine.RatePerDay, domainFine.RatePerHour)
		}
	}
	return nil
}

func nonNegative(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return d, errors.New("is not a number")
	}
	if d.IsNegative() {
		return d, errors.New("must not be negative")
	}
	return d, nil
}

// LoadPolicy reads every key from p. Keys that are missing, unreadable
// or rejected by CheckSetting keep their default and are reported in the
// returned error, which wraps ErrConfigurationUnavailable. The policy is
// always usable.
func LoadPolicy(ctx context.Context, p settings.Provider) (Policy, error) {
	out := DefaultPolicy()
	if p == nil {
		return out, fmt.Errorf("%w: no provider", domainFine.ErrConfigurationUnavailable)
	}

	var missing []string
	get := func(key string) (string, bool) {
		s, err := p.GetValue(ctx, key)
		if err != nil || s == nil || CheckSetting(key, s.Value) != nil {
			missing = append(missing, key)
			return "", false
		}
		return strings.TrimSpace(s.Value), true
	}
	number := func(key string, dst *decimal.Decimal) {
		if v, ok := get(key); ok {
			*dst = decimal.RequireFromString(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := get(key); ok {
			*dst = int(decimal.RequireFromString(v).IntPart())
		}
	}

	integer(KeyGracePeriodDays, &out.GracePeriodDays)
	number(KeyDailyRate, &out.DailyRate)
	number(KeyHourlyRate, &out.HourlyRate)
	number(KeyMaxAmount, &out.MaxFine)
	number(KeyLostBookMultiplier, &out.LostBookMultiplier)
	integer(KeySettlementDays, &out.SettlementDays)
	if v, ok := get(KeyRateType); ok {
		out.RateType = domainFine.RateType(v)
	}

	if len(missing) > 0 {
		return out, fmt.Errorf("%w: %s", domainFine.ErrConfigurationUnavailable, strings.Join(missing, ", "))
	}
	return out, nil
}
