package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "08012345678"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("expected %q to be valid, got %v", phone, err)
		}
	}

	invalid := []string{"", "12345", "not-a-phone", "98765432101234567"}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("expected %q to be invalid, got %v", phone, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("priya@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateEmail("Priya@Example.COM"); err != nil {
		t.Errorf("expected case-insensitive match, got %v", err)
	}

	for _, email := range []string{"", "missing-at.com", "a@b", "@example.com"} {
		if err := ValidateEmail(email); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected %q to be invalid, got %v", email, err)
		}
	}
}

func TestValidateWithdrawalAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
	}{
		{"valid", decimal.NewFromInt(100), nil},
		{"minimum", decimal.NewFromInt(1), nil},
		{"zero", decimal.Zero, ErrInvalidAmount},
		{"negative", decimal.NewFromInt(-10), ErrInvalidAmount},
		{"above maximum", decimal.RequireFromString("10000001"), ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithdrawalAmount(tt.amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Str0ngPass"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	weak := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoNumbersHere"}
	for _, password := range weak {
		if err := ValidatePassword(password); !errors.Is(err, ErrPasswordTooWeak) {
			t.Errorf("expected %q to be rejected, got %v", password, err)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name               string
		limit, offset      int
		wantLimit, wantOff int
	}{
		{"defaults applied", 0, 0, 50, 0},
		{"negative offset clamped", 10, -5, 10, 0},
		{"limit capped", 5000, 20, 1000, 20},
		{"passthrough", 25, 100, 25, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := ValidatePagination(tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || offset != tt.wantOff {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.wantLimit, tt.wantOff, limit, offset)
			}
		})
	}
}
