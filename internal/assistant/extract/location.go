package extract

import (
	"regexp"
	"strings"

	"assistant-console/internal/models"
)

const venueNouns = `conference\s+room|board\s*room|meeting\s+room|reception|lobby|ballroom|auditorium|` +
	`banquet\s+hall|hall|office|lounge|terminal|gate|headquarters|hq|atrium|cafeteria|suite|` +
	`guest\s+house|helipad`

var (
	venuePattern = regexp.MustCompile(`\b(?i:in|at|inside|to)\s+(?i:the\s+)?((?i:(?:main|executive|grand|vip|front|east|west|north|south)\s+)?(?i:` +
		venueNouns + `)\b(?:\s+(?:[A-Z]\b|\d+[A-Za-z]?\b))?)`)
	placePattern = regexp.MustCompile(`\b(?i:in|at)\s+(?:the\s+)?([A-Z][\p{L}'-]*(?:\s+(?:of\s+|and\s+|&\s+)?[A-Z0-9][\p{L}\d'-]*)*)`)
)

// locationTypes classifies a location by the first keyword it contains.
var locationTypes = []struct {
	keywords []string
	kind     string
}{
	{[]string{"conference room", "meeting room", "boardroom", "board room", "room", "suite"}, "room"},
	{[]string{"ballroom", "auditorium", "hall"}, "hall"},
	{[]string{"headquarters", "hq", "office"}, "office"},
	{[]string{"lobby", "reception", "atrium", "lounge"}, "reception"},
	{[]string{"airport", "terminal", "gate", "helipad"}, "airport"},
	{[]string{"hotel", "guest house", "resort"}, "hotel"},
	{[]string{"building", "tower", "center", "centre", "complex", "palace"}, "building"},
	{[]string{"restaurant", "cafeteria", "club", "stadium"}, "venue"},
}

var placeStopWords = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
	"saturday": true, "sunday": true, "january": true, "february": true, "march": true,
	"april": true, "may": true, "june": true, "july": true, "august": true, "september": true,
	"october": true, "november": true, "december": true, "today": true, "tomorrow": true,
	"tonight": true, "noon": true, "midnight": true, "vip": true, "am": true, "pm": true,
}

// ExtractLocation finds a venue phrase ("in conference room A") or, failing that,
// a capitalised place after "in" or "at" ("at Heathrow Airport").
func ExtractLocation(text string) (models.ParsedLocation, bool) {
	if m := venuePattern.FindStringSubmatchIndex(text); m != nil {
		loc := strings.Join(strings.Fields(text[m[2]:m[3]]), " ")
		return models.ParsedLocation{
			Location:     loc,
			Type:         classifyLocation(loc),
			OriginalText: text[m[0]:m[1]],
		}, true
	}

	for _, m := range placePattern.FindAllStringSubmatchIndex(text, -1) {
		words := strings.Fields(text[m[2]:m[3]])
		kept := words[:0:0]
		for _, w := range words {
			if placeStopWords[strings.ToLower(w)] {
				break
			}
			kept = append(kept, w)
		}
		for len(kept) > 0 && isConnector(kept[len(kept)-1]) {
			kept = kept[:len(kept)-1]
		}
		if len(kept) == 0 {
			continue
		}
		loc := strings.Join(kept, " ")
		end := strings.Index(text[m[2]:], kept[len(kept)-1]) + m[2] + len(kept[len(kept)-1])
		return models.ParsedLocation{
			Location:     loc,
			Type:         classifyLocation(loc),
			OriginalText: text[m[0]:end],
		}, true
	}

	return models.ParsedLocation{}, false
}

func isConnector(w string) bool {
	switch strings.ToLower(w) {
	case "of", "and", "&":
		return true
	}
	return false
}

func classifyLocation(loc string) string {
	lower := strings.ToLower(loc)
	for _, t := range locationTypes {
		for _, kw := range t.keywords {
			if containsWord(lower, kw) {
				return t.kind
			}
		}
	}
	return ""
}

func containsWord(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
