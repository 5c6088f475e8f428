// Package interpreter turns a free-form message into a ParsedQueryResult by
// classifying it and running the extractors relevant to the intent.
package interpreter

import (
	"time"

	"assistant-console/internal/assistant/extract"
	"assistant-console/internal/assistant/intent"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/common/metrics"
	"assistant-console/internal/models"
)

// entity names the extractors an intent needs.
type entity int

const (
	entityDate entity = iota
	entityTime
	entityPerson
	entityLocation
	entityAmount
)

var intentEntities = map[models.QueryIntent][]entity{
	models.IntentAppointment: {entityPerson, entityDate, entityTime, entityLocation},
	models.IntentTask:        {entityDate, entityTime, entityPerson},
	models.IntentApproval:    {entityPerson, entityAmount, entityDate},
	models.IntentFinance:     {entityAmount, entityDate},
	models.IntentEvent:       {entityDate, entityTime, entityLocation},
	models.IntentPlanner:     {entityDate},
}

var intentSuggestions = map[models.QueryIntent][]string{
	models.IntentAppointment: {"Open the appointments panel to confirm the booking."},
	models.IntentTask:        {"Open the task list to set a priority and owner."},
	models.IntentApproval:    {"Open pending approvals to review the request."},
	models.IntentFinance:     {"Open the finance summary for the full breakdown."},
	models.IntentEvent:       {"Open the events panel to add venue and guest details."},
	models.IntentPlanner:     {"Open the planner to see the day at a glance."},
}

var unknownSuggestions = []string{
	"Try \"VIP visit from Minister Jane Doe tomorrow at 10am\".",
	"Try \"show approvals\" or \"show tomorrow's appointments\".",
	"Try \"what is the finance summary\".",
}

type Interpreter struct {
	logger logger.Logger
}

func New(log logger.Logger) *Interpreter {
	return &Interpreter{logger: log.WithFields(map[string]interface{}{"component": "interpreter"})}
}

// Interpret classifies text and extracts entities, resolving relative dates
// against now. It never returns nil and never guesses a missing entity.
func (i *Interpreter) Interpret(text string, now time.Time) *models.ParsedQueryResult {
	start := time.Now()
	c := intent.Classify(text)

	result := &models.ParsedQueryResult{
		Intent:      c.Intent,
		Confidence:  c.Confidence,
		Keywords:    c.Keywords,
		Errors:      []string{},
		Suggestions: []string{},
	}

	switch c.Intent {
	case models.IntentUnknown:
		result.Confidence = 0
		result.Suggestions = append(result.Suggestions, unknownSuggestions...)
	case models.IntentVIPVisit:
		i.interpretVisit(text, now, c, result)
	default:
		result.Data = extractEntities(text, now, intentEntities[c.Intent])
		result.Suggestions = append(result.Suggestions, intentSuggestions[c.Intent]...)
	}

	metrics.QueriesInterpreted.WithLabelValues(string(c.Intent)).Inc()
	metrics.InterpretDuration.WithLabelValues(string(c.Intent)).Observe(time.Since(start).Seconds())
	i.logger.Debug("message interpreted", map[string]interface{}{
		"intent":     string(c.Intent),
		"confidence": result.Confidence,
		"hasData":    result.HasData(),
		"errors":     len(result.Errors),
	})
	return result
}

func (i *Interpreter) interpretVisit(text string, now time.Time, c intent.Classification, result *models.ParsedQueryResult) {
	person, hasPerson := extract.ExtractPerson(text)
	date, hasDate := extract.ExtractDate(text, now)
	clock, hasTime := extract.ExtractTime(text)

	if !hasPerson {
		result.Errors = append(result.Errors, "visitor name is missing")
		result.Suggestions = append(result.Suggestions, "Name the visitor, e.g. \"from Minister Jane Doe\".")
	}
	if !hasDate {
		result.Errors = append(result.Errors, "visit date is missing")
		result.Suggestions = append(result.Suggestions, "Add a date, e.g. \"tomorrow\" or \"2025-03-20\".")
	}
	if !hasTime {
		result.Errors = append(result.Errors, "visit time is missing")
		result.Suggestions = append(result.Suggestions, "Add a time, e.g. \"at 10am\" or \"14:30\".")
	}
	if len(result.Errors) > 0 {
		return
	}

	visit := &models.ParsedVIPVisit{
		Visitor:       person.FullName,
		Title:         person.Title,
		Date:          date,
		Time:          clock,
		ProtocolLevel: intent.ProtocolLevelFor(c.Keywords),
		Confidence:    c.Confidence,
	}
	if loc, ok := extract.ExtractLocation(text); ok {
		visit.Location = &loc
	}
	result.Data = visit
}

func extractEntities(text string, now time.Time, wanted []entity) *models.ExtractedEntities {
	out := &models.ExtractedEntities{}
	for _, e := range wanted {
		switch e {
		case entityDate:
			if d, ok := extract.ExtractDate(text, now); ok {
				out.Date = &d
			}
		case entityTime:
			if t, ok := extract.ExtractTime(text); ok {
				out.Time = &t
			}
		case entityPerson:
			if p, ok := extract.ExtractPerson(text); ok {
				out.Person = &p
			}
		case entityLocation:
			if l, ok := extract.ExtractLocation(text); ok {
				out.Location = &l
			}
		case entityAmount:
			if a, ok := extract.ExtractAmount(text); ok {
				out.Amount = &a
			}
		}
	}
	return out
}
