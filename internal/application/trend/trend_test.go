package trend

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/millwatt/internal/domain/records"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1200 units", "1200"},
		{"1,200 units", "1200"},
		{"₹1,234.50", "1234.5"},
		{"Rs. 500", "500"},
		{"approx 12,500.75 kWh", "12500.75"},
		{"-300", "-300"},
		{"₹0.75", "0.75"},
		{"Rs.500", "500"},
		{"Rs.1,200", "1200"},
		{"Rs.1,234.50 only", "1234.5"},
		{"approx.1200 units", "1200"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_NoDigits(t *testing.T) {
	_, err := ParseAmount("not available")
	assert.ErrorIs(t, err, ErrNoNumber)
	assert.True(t, ParseAmountOrZero("").IsZero())
}

func bill(units int64) *records.BillRecord {
	return &records.BillRecord{TotalUnits: decimal.NewFromInt(units)}
}

func TestCompare(t *testing.T) {
	b := DefaultBaselines()
	tests := []struct {
		name    string
		current int64
		last    *records.BillRecord
		want    Comparison
	}{
		{"increase over last bill", 1200, bill(1000), Comparison{Increased, "20.0%"}},
		{"decrease from last bill", 900, bill(1200), Comparison{Decreased, "25.0%"}},
		{"equal counts as decrease", 1000, bill(1000), Comparison{Decreased, "0.0%"}},
		{"zero previous uses fallback", 12000, bill(0), Comparison{Increased, "20.0%"}},
		{"no history above average", 12500, nil, Comparison{AboveAvg, "25.0%"}},
		{"no history below average", 7333, nil, Comparison{BelowAvg, "26.7%"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(decimal.NewFromInt(tt.current), tt.last, b))
		})
	}
}

func TestCompare_CustomBaselines(t *testing.T) {
	b := Baselines{FallbackUnits: decimal.NewFromInt(500), AverageUnits: decimal.NewFromInt(2000)}
	assert.Equal(t, Comparison{Increased, "100.0%"}, Compare(decimal.NewFromInt(1000), bill(0), b))
	assert.Equal(t, Comparison{BelowAvg, "50.0%"}, Compare(decimal.NewFromInt(1000), nil, b))
}
