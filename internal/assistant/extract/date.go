// Package extract pulls typed entities out of free-form assistant messages.
// Every extractor is a pure function that reports absence with ok == false.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"assistant-console/internal/models"
)

const monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	isoDatePattern   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayPattern  = regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	dayMonthPattern  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)\b\.?(?:,?\s+(\d{4})\b)?`)
	inDaysPattern    = regexp.MustCompile(`(?i)\bin\s+(\d{1,3})\s+days?\b`)
	nextWeekdayRegex = regexp.MustCompile(`(?i)\bnext\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	weekdayPattern   = regexp.MustCompile(`(?i)\b(?:(?:on|this)\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
)

// relativeDays is checked in order; "day after tomorrow" must precede "tomorrow".
var relativeDays = []struct {
	pattern *regexp.Regexp
	offset  int
}{
	{regexp.MustCompile(`(?i)\b(?:the\s+)?day\s+after\s+tomorrow\b`), 2},
	{regexp.MustCompile(`(?i)\btomorrow\b`), 1},
	{regexp.MustCompile(`(?i)\b(?:today|tonight|this\s+(?:morning|afternoon|evening))\b`), 0},
	{regexp.MustCompile(`(?i)\byesterday\b`), -1},
	{regexp.MustCompile(`(?i)\bnext\s+week\b`), 7},
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ExtractDate finds the first date expression in text. Absolute forms win over
// relative ones; relative forms resolve against now and yield midnight in now's
// location.
func ExtractDate(text string, now time.Time) (models.ParsedDate, bool) {
	if d, ok := isoDate(text, now.Location()); ok {
		return d, true
	}
	if d, ok := monthNameDate(text, now); ok {
		return d, true
	}
	return relativeDate(text, now)
}

func isoDate(text string, loc *time.Location) (models.ParsedDate, bool) {
	for _, m := range isoDatePattern.FindAllString(text, -1) {
		t, err := time.ParseInLocation(models.DateLayout, m, loc)
		if err != nil {
			continue
		}
		return models.ParsedDate{Date: t, OriginalText: m}, true
	}
	return models.ParsedDate{}, false
}

func monthNameDate(text string, now time.Time) (models.ParsedDate, bool) {
	type candidate struct {
		start                   int
		original                string
		month, day, yearLiteral string
	}
	var found []candidate

	for _, m := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, candidate{
			start:       m[0],
			original:    text[m[0]:m[1]],
			month:       text[m[2]:m[3]],
			day:         text[m[4]:m[5]],
			yearLiteral: submatch(text, m, 3),
		})
	}
	for _, m := range dayMonthPattern.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, candidate{
			start:       m[0],
			original:    text[m[0]:m[1]],
			day:         text[m[2]:m[3]],
			month:       text[m[4]:m[5]],
			yearLiteral: submatch(text, m, 3),
		})
	}

	best := -1
	var result models.ParsedDate
	for _, c := range found {
		if best >= 0 && c.start >= best {
			continue
		}
		month, ok := monthFromName(c.month)
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(c.day)
		year := now.Year()
		explicitYear := c.yearLiteral != ""
		if explicitYear {
			year, _ = strconv.Atoi(c.yearLiteral)
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
		if date.Month() != month || date.Day() != day {
			continue
		}
		if !explicitYear && date.Before(midnight(now)) {
			date = date.AddDate(1, 0, 0)
			if date.Month() != month || date.Day() != day {
				continue
			}
		}

		best = c.start
		result = models.ParsedDate{Date: date, OriginalText: strings.TrimSpace(c.original)}
	}
	return result, best >= 0
}

func relativeDate(text string, now time.Time) (models.ParsedDate, bool) {
	today := midnight(now)

	for _, rel := range relativeDays {
		if m := rel.pattern.FindString(text); m != "" {
			return models.ParsedDate{Date: today.AddDate(0, 0, rel.offset), IsRelative: true, OriginalText: m}, true
		}
	}

	if m := inDaysPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return models.ParsedDate{Date: today.AddDate(0, 0, n), IsRelative: true, OriginalText: m[0]}, true
		}
	}

	if m := nextWeekdayRegex.FindStringSubmatch(text); m != nil {
		ahead := daysUntil(today.Weekday(), weekdays[strings.ToLower(m[1])])
		if ahead == 0 {
			ahead = 7
		}
		return models.ParsedDate{Date: today.AddDate(0, 0, ahead), IsRelative: true, OriginalText: m[0]}, true
	}

	if m := weekdayPattern.FindStringSubmatch(text); m != nil {
		ahead := daysUntil(today.Weekday(), weekdays[strings.ToLower(m[1])])
		return models.ParsedDate{Date: today.AddDate(0, 0, ahead), IsRelative: true, OriginalText: m[0]}, true
	}

	return models.ParsedDate{}, false
}

func daysUntil(from, to time.Weekday) int {
	return (int(to) - int(from) + 7) % 7
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func monthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), name[:3]) {
			return m, true
		}
	}
	return 0, false
}

// submatch returns capture group n of an index match, or "" when it did not participate.
func submatch(text string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}
