// Package intent classifies assistant messages with an ordered keyword rule table.
package intent

import (
	"math"

	"assistant-console/internal/assistant/keywords"
	"assistant-console/internal/models"
)

// Classification is the outcome of Classify. Keywords lists the matched trigger
// and booster keywords in table order.
type Classification struct {
	Intent     models.QueryIntent `json:"intent"`
	Confidence float64            `json:"confidence"`
	Keywords   []string           `json:"keywords"`
}

type rule struct {
	intent   models.QueryIntent
	triggers []string
	boosters []string
}

var maximumProtocolKeywords = []string{
	"head of state", "president", "prime minister", "royal*", "king", "queen",
	"maximum security", "maximum protocol",
}

var highProtocolKeywords = []string{
	"minister", "ambassador", "senator", "governor", "dignitar*", "delegation*",
	"high security", "high protocol",
}

// rules is evaluated top to bottom; the first rule with a matching trigger wins.
var rules = []rule{
	{
		intent: models.IntentVIPVisit,
		triggers: []string{
			"vip+visit*", "vip+arriv*", "vip+guest*", "vip+meeting*", "vip+delegation*", "vip+protocol",
			"dignitar*", "state visit", "official visit", "delegation visit",
		},
		boosters: append(append([]string{"escort*", "protocol"}, maximumProtocolKeywords...), highProtocolKeywords...),
	},
	{
		intent:   models.IntentAppointment,
		triggers: []string{"appointment*", "meeting*", "schedul*", "reschedul*", "calendar", "book a", "consultation*"},
		boosters: []string{"doctor", "client*", "slot*"},
	},
	{
		intent:   models.IntentTask,
		triggers: []string{"task*", "to-do", "todo*", "remind me", "follow up", "follow-up", "deadline*", "assign*"},
		boosters: []string{"urgent", "pending", "complete*"},
	},
	{
		intent:   models.IntentApproval,
		triggers: []string{"approval*", "approve*", "sign off", "sign-off", "authoriz*", "authoris*"},
		boosters: []string{"leave", "request*", "pending"},
	},
	{
		intent: models.IntentFinance,
		triggers: []string{
			"financ*", "payment*", "invoice*", "revenue*", "expense*", "budget*", "collection*",
			"transfer*", "salary", "salaries", "payroll", "refund*", "cash", "profit*",
		},
		boosters: []string{"summary", "report*", "balance*"},
	},
	{
		intent: models.IntentEvent,
		triggers: []string{
			"event*", "conference*", "ceremony", "ceremonies", "celebration*", "party", "parties",
			"seminar*", "workshop*", "gala", "launch",
		},
		boosters: []string{"venue", "guests", "catering"},
	},
	{
		intent:   models.IntentPlanner,
		triggers: []string{"planner", "plan", "plans", "planning", "agenda*", "itinerar*", "my day", "my week", "timetable"},
		boosters: []string{"today", "tomorrow", "week"},
	},
}

// Classify returns the first rule whose triggers match text. Unmatched text is
// IntentUnknown with zero confidence.
func Classify(text string) Classification {
	normalized := keywords.Normalize(text)

	for _, r := range rules {
		triggers := keywords.Matched(normalized, r.triggers)
		if len(triggers) == 0 {
			continue
		}
		matched := dedupe(append(triggers, keywords.Matched(normalized, r.boosters)...))
		return Classification{
			Intent:     r.intent,
			Confidence: confidenceFor(matched),
			Keywords:   matched,
		}
	}

	return Classification{Intent: models.IntentUnknown, Confidence: 0, Keywords: []string{}}
}

// ProtocolLevelFor maps matched vip-visit keywords to a protocol tier.
func ProtocolLevelFor(matched []string) models.ProtocolLevel {
	if containsAny(matched, maximumProtocolKeywords) {
		return models.ProtocolMaximum
	}
	if containsAny(matched, highProtocolKeywords) {
		return models.ProtocolHigh
	}
	return models.ProtocolStandard
}

func confidenceFor(matched []string) float64 {
	strength := 0
	for _, kw := range matched {
		strength += keywords.Strength(kw)
	}
	c := math.Min(1, 0.4+0.2*float64(strength))
	return math.Round(c*100) / 100
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func containsAny(haystack, needles []string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
