package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for visits and parsed dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wall-clock format used for visits and parsed times.
const TimeLayout = "15:04"

type ParsedDate struct {
	Date         time.Time `json:"date"`
	IsRelative   bool      `json:"isRelative"`
	OriginalText string    `json:"originalText"`
}

// String formats the date as YYYY-MM-DD.
func (d ParsedDate) String() string {
	return d.Date.Format(DateLayout)
}

type ParsedTime struct {
	Hour         int    `json:"hour"`
	Minute       int    `json:"minute"`
	Period       string `json:"period,omitempty"` // "AM" or "PM" when given in 12-hour form
	OriginalText string `json:"originalText"`
}

// String formats the time as zero-padded HH:MM.
func (t ParsedTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

type ParsedPerson struct {
	Title        string `json:"title,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	FullName     string `json:"fullName"`
	OriginalText string `json:"originalText"`
}

type ParsedLocation struct {
	Location     string `json:"location"`
	Type         string `json:"type,omitempty"`
	OriginalText string `json:"originalText"`
}

type ParsedAmount struct {
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	OriginalText string  `json:"originalText"`
}

// ParsedVIPVisit is the data payload of a vip-visit interpretation.
type ParsedVIPVisit struct {
	Visitor       string          `json:"visitor"`
	Title         string          `json:"title,omitempty"`
	Date          ParsedDate      `json:"date"`
	Time          ParsedTime      `json:"time"`
	Location      *ParsedLocation `json:"location,omitempty"`
	ProtocolLevel ProtocolLevel   `json:"protocolLevel"`
	Confidence    float64         `json:"confidence"`
}

// ExtractedEntities is the data payload for intents that do not build a record.
type ExtractedEntities struct {
	Date     *ParsedDate     `json:"date,omitempty"`
	Time     *ParsedTime     `json:"time,omitempty"`
	Person   *ParsedPerson   `json:"person,omitempty"`
	Location *ParsedLocation `json:"location,omitempty"`
	Amount   *ParsedAmount   `json:"amount,omitempty"`
}
