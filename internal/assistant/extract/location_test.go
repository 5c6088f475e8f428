package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		wantLoc  string
		wantType string
	}{
		{"venue with designator", "VIP visit at 10am in Conference Room A", true, "Conference Room A", "room"},
		{"venue with modifier", "meet at the main lobby", true, "main lobby", "reception"},
		{"venue with number", "brief them in hall 2", true, "hall 2", "hall"},
		{"capitalised place with type", "arriving at Heathrow Airport tomorrow", true, "Heathrow Airport", "airport"},
		{"capitalised place without type", "dinner in London on Friday", true, "London", ""},
		{"hotel", "staying at the Grand Hyatt Hotel", true, "Grand Hyatt Hotel", "hotel"},
		{"time after at is not a place", "visit at 10am", false, "", ""},
		{"month after in is not a place", "ceremony in March", false, "", ""},
		{"no location", "show approvals", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractLocation(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantLoc, got.Location)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Contains(t, got.OriginalText, got.Location)
		})
	}
}
