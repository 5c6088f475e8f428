package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPerson(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantOK    bool
		wantTitle string
		wantFull  string
		wantFirst string
		wantLast  string
	}{
		{"honorific with full name", "VIP visit from Minister Jane Doe tomorrow", true, "Minister", "Jane Doe", "Jane", "Doe"},
		{"abbreviated honorific", "Dr. Smith visiting at 3pm", true, "Dr.", "Smith", "", "Smith"},
		{"multi-word honorific", "Prime Minister John Carter arrives Friday", true, "Prime Minister", "John Carter", "John", "Carter"},
		{"honorific wins over cue word", "meeting with Ambassador Li Wei", true, "Ambassador", "Li Wei", "Li", "Wei"},
		{"cue word", "meeting with Alice Johnson on Friday", true, "", "Alice Johnson", "Alice", "Johnson"},
		{"stop word ends the name", "visit from John Smith Tomorrow", true, "", "John Smith", "John", "Smith"},
		{"single cued name", "guest Priya arriving", true, "", "Priya", "Priya", ""},
		{"calendar word is not a name", "meeting with Monday team", false, "", "", "", ""},
		{"no name", "schedule a meeting tomorrow", false, "", "", "", ""},
		{"honorific without a name", "the president will decide", false, "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPerson(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantFull, got.FullName)
			assert.Equal(t, tt.wantFirst, got.FirstName)
			assert.Equal(t, tt.wantLast, got.LastName)
			assert.NotContains(t, got.FullName, tt.wantTitle+" ")
		})
	}
}

func TestExtractPerson_OriginalTextSpansTitleAndName(t *testing.T) {
	got, ok := ExtractPerson("VIP visit from Minister Jane Doe tomorrow")
	require.True(t, ok)
	assert.Equal(t, "Minister Jane Doe", got.OriginalText)
}
