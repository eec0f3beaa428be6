package settings

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("configuration key not found")
	ErrInvalidValue = errors.New("invalid configuration value")
)

type ValueType string

const (
	TypeNumber  ValueType = "number"
	TypeString  ValueType = "string"
	TypeBoolean ValueType = "boolean"
)

// Table: system_configurations
type Setting struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	Key         string    `gorm:"column:key;size:128;not null;uniqueIndex:ux_system_configurations_key" json:"key"`
	Value       string    `gorm:"column:value;type:text;not null" json:"value"`
	ValueType   ValueType `gorm:"column:value_type;size:16;not null;default:'string'" json:"value_type"`
	Category    string    `gorm:"column:category;size:64;index" json:"category"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	UpdatedBy   string    `gorm:"column:updated_by;size:32" json:"updated_by,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string { return "system_configurations" }

// Validate checks that Value parses as ValueType.
func (s *Setting) Validate() error {
	switch s.ValueType {
	case TypeNumber:
		if _, err := decimal.NewFromString(s.Value); err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidValue, s.Key, s.Value)
		}
	case TypeBoolean:
		if _, err := strconv.ParseBool(s.Value); err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidValue, s.Key, s.Value)
		}
	case TypeString:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidValue, s.ValueType)
	}
	return nil
}

func (s *Setting) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(s.Value)
}

func (s *Setting) Int() (int, error) {
	d, err := s.Decimal()
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}
