// internal/models/query_types.go
package models

type QueryIntent string

const (
	IntentVIPVisit    QueryIntent = "vip-visit"
	IntentAppointment QueryIntent = "appointment"
	IntentTask        QueryIntent = "task"
	IntentApproval    QueryIntent = "approval"
	IntentFinance     QueryIntent = "finance"
	IntentEvent       QueryIntent = "event"
	IntentPlanner     QueryIntent = "planner"
	IntentUnknown     QueryIntent = "unknown"
)

// ParsedQueryResult is the envelope produced for every interpreted message.
// Data is nil when nothing usable was extracted; Errors is only populated in that
// case or when Data is partial.
type ParsedQueryResult struct {
	Intent      QueryIntent `json:"intent"`
	Confidence  float64     `json:"confidence"`
	Keywords    []string    `json:"keywords"`
	Data        interface{} `json:"data"`
	Errors      []string    `json:"errors"`
	Suggestions []string    `json:"suggestions"`
}

// HasData reports whether the interpretation produced a structured value.
func (r *ParsedQueryResult) HasData() bool {
	return r != nil && r.Data != nil
}

// VIPVisit returns the parsed visit when the envelope carries one.
func (r *ParsedQueryResult) VIPVisit() (*ParsedVIPVisit, bool) {
	if r == nil || r.Intent != IntentVIPVisit {
		return nil, false
	}
	v, ok := r.Data.(*ParsedVIPVisit)
	return v, ok && v != nil
}
