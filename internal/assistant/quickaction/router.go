// Package quickaction decides whether a message is a read-only request that can
// be answered by opening a dashboard section instead of running the interpreter.
package quickaction

import (
	"fmt"
	"strings"

	"assistant-console/internal/assistant/intent"
	"assistant-console/internal/assistant/keywords"
	"assistant-console/internal/models"
)

var (
	readVerbs         = []string{"show", "view", "list", "check"}
	actionVerbs       = []string{"approve", "pay", "transfer", "create"}
	temporalModifiers = []string{"tomorrow", "next week", "future", "upcoming"}
)

type topic struct {
	sectionID string
	label     string
	message   string // %s is the lower-cased day prefix
	keywords  []string
}

var financeTopic = topic{
	sectionID: models.SectionFinance,
	label:     "Finance Summary",
	message:   "Here is %s finance summary with collections, payments and revenue.",
	keywords:  []string{"financ*", "summary", "collection*", "payment*", "revenue*"},
}

// topics is evaluated in precedence order.
var topics = []topic{
	{
		sectionID: models.SectionVIP,
		label:     "VIP Visits",
		message:   "Here are %s VIP visits and their protocol arrangements.",
		keywords:  []string{"vip", "dignitar*", "delegation*"},
	},
	{
		sectionID: models.SectionAppointments,
		label:     "Appointments",
		message:   "Here are %s appointments.",
		keywords:  []string{"appointment*", "calendar", "schedul*", "meeting*"},
	},
	{
		sectionID: models.SectionApprovals,
		label:     "Approvals",
		message:   "Here are %s pending approvals.",
		keywords:  []string{"approval*", "pending approval*", "pending request*"},
	},
	{
		sectionID: models.SectionAlert,
		label:     "Alerts",
		message:   "Here are %s alerts and reminders.",
		keywords:  []string{"alert*", "reminder*", "notification*"},
	},
	financeTopic,
}

const (
	financeRequestTitle   = "Finance Request"
	financeRequestMessage = "Processing your finance request. Review the details in the finance panel to confirm."
)

// Route returns the section to open, or nil when the message is not a quick
// action. A message qualifies when it uses a read verb, or when it asks to act on
// a finance topic; the latter always opens the finance request view. Without a
// read verb, a message naming a higher-precedence topic or describing a VIP
// visit is left to the interpreter.
func Route(text string) *models.QuickActionResult {
	normalized := keywords.Normalize(text)
	read := keywords.Any(normalized, readVerbs)
	action := keywords.Any(normalized, actionVerbs)

	candidates := topics
	switch {
	case read:
	case action:
		if outranksFinance(normalized) || intent.Classify(text).Intent == models.IntentVIPVisit {
			return nil
		}
		candidates = []topic{financeTopic}
	default:
		return nil
	}

	prefix := "Today's"
	if keywords.Any(normalized, temporalModifiers) {
		prefix = "Tomorrow's"
	}

	for _, t := range candidates {
		if !keywords.Any(normalized, t.keywords) {
			continue
		}
		if t.sectionID == models.SectionFinance && action {
			return &models.QuickActionResult{
				SectionID:       models.SectionFinance,
				SectionTitle:    financeRequestTitle,
				ResponseMessage: financeRequestMessage,
			}
		}
		return &models.QuickActionResult{
			SectionID:       t.sectionID,
			SectionTitle:    prefix + " " + t.label,
			ResponseMessage: fmt.Sprintf(t.message, strings.ToLower(prefix)),
		}
	}
	return nil
}

// outranksFinance reports whether a topic checked before finance matches.
func outranksFinance(normalized string) bool {
	for _, t := range topics {
		if t.sectionID == models.SectionFinance {
			return false
		}
		if keywords.Any(normalized, t.keywords) {
			return true
		}
	}
	return false
}
