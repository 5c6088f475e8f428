package extract

import (
	"regexp"
	"strconv"
	"strings"

	"assistant-console/internal/models"
)

var (
	twelveHourPattern     = regexp.MustCompile(`(?i)\b(\d{1,2})(?:[:.](\d{2}))?\s*([ap])\.?\s?m\b\.?`)
	twentyFourHourPattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	namedTimePattern      = regexp.MustCompile(`(?i)\b(noon|midday|midnight)\b`)
)

// ExtractTime finds a clock time. The first form that matches decides: 12-hour,
// then 24-hour, then noon/midnight. 12-hour minutes may follow a colon or a dot
// ("9.30am"). Out-of-range values are absence, not clamped.
func ExtractTime(text string) (models.ParsedTime, bool) {
	if m := twelveHourPattern.FindStringSubmatch(text); m != nil {
		return twelveHour(m)
	}
	if m := twentyFourHourPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return models.ParsedTime{}, false
		}
		return models.ParsedTime{Hour: hour, Minute: minute, OriginalText: m[0]}, true
	}
	if m := namedTimePattern.FindStringSubmatch(text); m != nil {
		if strings.EqualFold(m[1], "midnight") {
			return models.ParsedTime{Hour: 0, Minute: 0, Period: "AM", OriginalText: m[0]}, true
		}
		return models.ParsedTime{Hour: 12, Minute: 0, Period: "PM", OriginalText: m[0]}, true
	}
	return models.ParsedTime{}, false
}

func twelveHour(m []string) (models.ParsedTime, bool) {
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return models.ParsedTime{}, false
	}

	period := strings.ToUpper(m[3]) + "M"
	switch {
	case period == "AM" && hour == 12:
		hour = 0
	case period == "PM" && hour != 12:
		hour += 12
	}
	return models.ParsedTime{Hour: hour, Minute: minute, Period: period, OriginalText: strings.TrimSpace(m[0])}, true
}
