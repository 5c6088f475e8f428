package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantOK       bool
		wantAmount   float64
		wantCurrency string
	}{
		{"dollar with thousands separator", "approve $1,500 for catering", true, 1500, "USD"},
		{"dollar with cents", "refund $1,500.75", true, 1500.75, "USD"},
		{"european format", "invoice of €1.234,56", true, 1234.56, "EUR"},
		{"indian grouping", "collection of ₹10,00,000", true, 1000000, "INR"},
		{"currency word after number", "transfer 2500 rupees", true, 2500, "INR"},
		{"currency code before number", "budget USD 3.5k", true, 3500, "USD"},
		{"scale word", "£2 million revenue", true, 2000000, "GBP"},
		{"apostrophe separators", "pay 1'200 euros", true, 1200, "EUR"},
		{"decimal comma", "pay 12,50 eur", true, 12.5, "EUR"},
		{"negative is absence", "adjust by -$50", false, 0, ""},
		{"unknown currency", "pay CHF 100", false, 0, ""},
		{"plain number is not money", "room 101", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAmount(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.InDelta(t, tt.wantAmount, got.Amount, 0.001)
			assert.Equal(t, tt.wantCurrency, got.Currency)
			assert.NotEmpty(t, got.OriginalText)
		})
	}
}
