package extract

import (
	"regexp"
	"strings"

	"assistant-console/internal/models"
)

const honorifics = `prime\s+minister|vice\s+president|crown\s+prince|his\s+excellency|her\s+excellency|` +
	`mrs|mr|ms|miss|mx|dr|prof|professor|sir|dame|lord|lady|hon|honou?rable|minister|ambassador|` +
	`president|senator|governor|mayor|sheikh|sheikha|king|queen|prince|princess|general|colonel|` +
	`captain|chairman|chairwoman|ceo|director|judge|justice|rev|father`

const nameTokens = `[A-Z][\p{L}'’-]*\.?(?:\s+[A-Z][\p{L}'’-]*\.?){0,4}`

var (
	titledNamePattern = regexp.MustCompile(`\b((?i:` + honorifics + `))\.?\s+(` + nameTokens + `)`)
	cuedNamePattern   = regexp.MustCompile(`\b(?i:from|with|by|for|visitor|guest|hosting|host|welcoming|welcome|receiving|receive|meet|meeting)\s+(?:(?i:the|our|a)\s+)?(` + nameTokens + `)`)
	nameTokenPattern  = regexp.MustCompile(`[A-Z][\p{L}'’-]*\.?`)
)

// nameStopWords end a name: calendar words, assistant vocabulary and place nouns
// that are capitalised in messages without being part of the name.
var nameStopWords = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
	"saturday": true, "sunday": true, "january": true, "february": true, "march": true,
	"april": true, "may": true, "june": true, "july": true, "august": true, "september": true,
	"october": true, "november": true, "december": true, "today": true, "tomorrow": true,
	"tonight": true, "next": true, "this": true, "at": true, "in": true, "on": true, "am": true,
	"pm": true, "vip": true, "visit": true, "visits": true, "meeting": true, "the": true,
	"room": true, "hall": true, "office": true, "lobby": true, "building": true, "center": true,
	"centre": true, "conference": true, "airport": true, "hotel": true, "tower": true,
	"floor": true, "suite": true, "gate": true, "terminal": true, "headquarters": true,
	"i": true, "please": true, "schedule": true,
}

var honorificNormal = map[string]string{
	"mr": "Mr.", "mrs": "Mrs.", "ms": "Ms.", "mx": "Mx.", "dr": "Dr.", "prof": "Prof.",
	"hon": "Hon.", "rev": "Rev.", "ceo": "CEO",
}

// ExtractPerson finds a name introduced by an honorific ("Minister Jane Doe") or,
// failing that, by a cue word ("visit from Jane Doe"). FullName never includes the title.
func ExtractPerson(text string) (models.ParsedPerson, bool) {
	for _, m := range titledNamePattern.FindAllStringSubmatchIndex(text, -1) {
		tokens, end := keptNameTokens(text, m[4], m[5])
		if len(tokens) == 0 {
			continue
		}
		title := normalizeTitle(text[m[2]:m[3]])
		return buildPerson(title, tokens, text[m[0]:end]), true
	}

	for _, m := range cuedNamePattern.FindAllStringSubmatchIndex(text, -1) {
		tokens, end := keptNameTokens(text, m[2], m[3])
		if len(tokens) == 0 {
			continue
		}
		return buildPerson("", tokens, text[m[2]:end]), true
	}

	return models.ParsedPerson{}, false
}

// keptNameTokens returns the leading name tokens of text[start:end] up to the
// first stop word, and the end offset of the last kept token.
func keptNameTokens(text string, start, end int) ([]string, int) {
	span := text[start:end]
	var tokens []string
	last := start
	for _, idx := range nameTokenPattern.FindAllStringIndex(span, -1) {
		token := span[idx[0]:idx[1]]
		bare := strings.TrimSuffix(token, ".")
		if nameStopWords[strings.ToLower(bare)] {
			break
		}
		if len(bare) > 2 {
			token = bare
		}
		tokens = append(tokens, token)
		last = start + idx[0] + len(token)
	}
	return tokens, last
}

func buildPerson(title string, tokens []string, original string) models.ParsedPerson {
	p := models.ParsedPerson{
		Title:        title,
		FullName:     strings.Join(tokens, " "),
		OriginalText: strings.TrimSpace(original),
	}
	switch {
	case len(tokens) > 1:
		p.FirstName = tokens[0]
		p.LastName = tokens[len(tokens)-1]
	case title != "":
		p.LastName = tokens[0]
	default:
		p.FirstName = tokens[0]
	}
	return p
}

func normalizeTitle(raw string) string {
	words := strings.Fields(raw)
	if len(words) == 1 {
		if t, ok := honorificNormal[strings.ToLower(words[0])]; ok {
			return t
		}
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
