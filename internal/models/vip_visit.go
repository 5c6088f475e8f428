package models

import "time"

type ProtocolLevel string

const (
	ProtocolMaximum  ProtocolLevel = "maximum"
	ProtocolHigh     ProtocolLevel = "high"
	ProtocolStandard ProtocolLevel = "standard"
)

// Valid reports whether p is one of the known protocol tiers.
func (p ProtocolLevel) Valid() bool {
	switch p {
	case ProtocolMaximum, ProtocolHigh, ProtocolStandard:
		return true
	}
	return false
}

// VIPVisit is the only record the assistant persists. Two visits with the same
// visitor, date and time are the same visit regardless of ID.
type VIPVisit struct {
	ID             string        `json:"id"`
	Visitor        string        `json:"visitor"`
	Title          string        `json:"title,omitempty"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Location       string        `json:"location,omitempty"`
	ProtocolLevel  ProtocolLevel `json:"protocolLevel"`
	AssignedEscort string        `json:"assignedEscort,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	CreatedBy      string        `json:"createdBy"`
	UpdatedBy      string        `json:"updatedBy"`
}

// Scheduled returns the combined date and time of the visit in loc.
func (v *VIPVisit) Scheduled(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, v.Date+" "+v.Time, loc)
}

// VisitInput is an upsert candidate. Empty optional fields never overwrite stored values.
type VisitInput struct {
	Visitor        string        `json:"visitor"`
	Title          string        `json:"title,omitempty"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Location       string        `json:"location,omitempty"`
	ProtocolLevel  ProtocolLevel `json:"protocolLevel,omitempty"`
	AssignedEscort string        `json:"assignedEscort,omitempty"`
	Actor          string        `json:"actor,omitempty"`
}

// VisitPatch is a partial update; nil fields are left untouched.
type VisitPatch struct {
	Visitor        *string        `json:"visitor,omitempty"`
	Title          *string        `json:"title,omitempty"`
	Date           *string        `json:"date,omitempty"`
	Time           *string        `json:"time,omitempty"`
	Location       *string        `json:"location,omitempty"`
	ProtocolLevel  *ProtocolLevel `json:"protocolLevel,omitempty"`
	AssignedEscort *string        `json:"assignedEscort,omitempty"`
	Actor          string         `json:"actor,omitempty"`
}
