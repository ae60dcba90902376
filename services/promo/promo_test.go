package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	svc := NewPromoService()

	tests := []struct {
		name         string
		code         string
		amount       float64
		wantDiscount float64
		wantFinal    float64
	}{
		{"percentage", "SAVE10", 1998, 199.8, 1798.2},
		{"case insensitive", "save10", 500, 50, 450},
		{"fixed", "FLAT100", 999, 100, 899},
		{"fixed capped at amount", "flat100", 60, 60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := svc.Validate(tt.code, tt.amount)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantDiscount, quote.DiscountAmount, 1e-9)
			assert.InDelta(t, tt.wantFinal, quote.FinalAmount, 1e-9)
			assert.Equal(t, tt.amount, quote.OriginalAmount)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	svc := NewPromoService()

	_, err := svc.Validate("  ", 100)
	assert.ErrorIs(t, err, ErrCodeRequired)

	_, err = svc.Validate("SAVE10", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Validate("SAVE10", -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Validate("SAVE50", 100)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestValidate_CustomCodes(t *testing.T) {
	svc := NewPromoService(Code{Code: "monsoon", Type: DiscountPercentage, Value: 25})

	quote, err := svc.Validate("MONSOON", 400)
	require.NoError(t, err)
	assert.Equal(t, "MONSOON", quote.Promo.Code)
	assert.Equal(t, 300.0, quote.FinalAmount)

	_, err = svc.Validate("SAVE10", 400)
	assert.ErrorIs(t, err, ErrInvalidCode)
}
