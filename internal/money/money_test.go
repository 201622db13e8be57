package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"90", "90.00"},
		{"90.00", "90.00"},
		{"$1,234.565", "1234.57"},
		{"12.344", "12.34"},
		{"12.345", "12.35"},
		{" 7.5 USD", "7.50"},
		{".99", "0.99"},
		{"0.005", "0.01"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		require.NoError(t, err, "input: %q", tt.input)
		assert.Equal(t, tt.want, got.StringFixed(2), "input: %q", tt.input)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	bad := []string{"", "abc", "-5", "5-", "$-1.00", "0", "0.00", "0.004", "1.2.3", ".", "$"}
	for _, input := range bad {
		_, err := ParseAmount(input)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input: %q", input)
	}
}

func TestIsCents(t *testing.T) {
	assert.True(t, IsCents(decimal.RequireFromString("10.25")))
	assert.True(t, IsCents(decimal.RequireFromString("10")))
	assert.False(t, IsCents(decimal.RequireFromString("10.255")))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$320.00", Format(decimal.NewFromInt(320)))
	assert.Equal(t, "$-640.00", Format(decimal.NewFromInt(-640)))
	assert.Equal(t, "$0.00", Format(decimal.Zero))
}
