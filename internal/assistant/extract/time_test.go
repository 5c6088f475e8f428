package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTime(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantOK     bool
		wantHour   int
		wantMinute int
		wantPeriod string
	}{
		{"12-hour without minutes", "VIP visit at 10am", true, 10, 0, "AM"},
		{"12-hour with minutes", "call at 3:30 pm", true, 15, 30, "PM"},
		{"dotted meridiem", "arrives 9 a.m. sharp", true, 9, 0, "AM"},
		{"dot before minutes", "arrives at 9.30am", true, 9, 30, "AM"},
		{"dot before minutes with spaced meridiem", "dinner 7.45 pm", true, 19, 45, "PM"},
		{"midnight as 12am", "flight at 12am", true, 0, 0, "AM"},
		{"noon as 12pm", "lunch at 12 p.m.", true, 12, 0, "PM"},
		{"24-hour", "board meeting 14:45", true, 14, 45, ""},
		{"24-hour single digit hour", "standup 7:05", true, 7, 5, ""},
		{"noon", "lunch at noon", true, 12, 0, "PM"},
		{"midnight", "deploy at midnight", true, 0, 0, "AM"},
		{"hour out of range is absence", "at 25:00", false, 0, 0, ""},
		{"12-hour hour out of range is absence", "at 13pm", false, 0, 0, ""},
		{"minute out of range is absence", "at 10:75 am", false, 0, 0, ""},
		{"no time", "show approvals", false, 0, 0, ""},
		{"words starting with am are not times", "10 amazing guests", false, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTime(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantHour, got.Hour)
			assert.Equal(t, tt.wantMinute, got.Minute)
			assert.Equal(t, tt.wantPeriod, got.Period)
			assert.NotEmpty(t, got.OriginalText)
		})
	}
}

func TestParsedTime_String(t *testing.T) {
	got, ok := ExtractTime("at 7:05")
	require.True(t, ok)
	assert.Equal(t, "07:05", got.String())
}
