package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CommissionType selects how a commission is derived from a base amount.
type CommissionType string

const (
	CommissionFlat       CommissionType = "flat"
	CommissionPercentage CommissionType = "percentage"
)

// CommissionScheme is the catalog-owned commission configuration.
// Read-only at settlement time.
type CommissionScheme struct {
	Type          CommissionType
	Value         decimal.Decimal
	MaxCommission *decimal.Decimal
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
}

// Validate checks the scheme configuration.
func (s CommissionScheme) Validate() error {
	if s.Value.IsNegative() {
		return fmt.Errorf("%w: negative value", ErrInvalidCommission)
	}
	switch s.Type {
	case CommissionFlat, CommissionPercentage:
		return nil
	}
	return fmt.Errorf("%w: unknown type %q", ErrInvalidCommission, s.Type)
}

// ComputeCommission derives the amount to credit for baseAmount under the
// given scheme. Pure function: no I/O, no side effects.
//
// Flat schemes return Value unconditionally. Percentage schemes return
// baseAmount*Value/100, clamped to [0, MaxCommission] when a cap is set.
func ComputeCommission(baseAmount decimal.Decimal, scheme CommissionScheme) (decimal.Decimal, error) {
	if err := scheme.Validate(); err != nil {
		return decimal.Zero, err
	}
	if baseAmount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative base amount", ErrInvalidCommission)
	}

	if scheme.Type == CommissionFlat {
		return scheme.Value, nil
	}

	amount := baseAmount.Mul(scheme.Value).Div(decimal.NewFromInt(100))
	if scheme.MaxCommission != nil && amount.GreaterThan(*scheme.MaxCommission) {
		amount = *scheme.MaxCommission
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return amount, nil
}
