package models

// Section identifiers understood by the dashboard renderer.
const (
	SectionVIP          = "focus-vip"
	SectionAppointments = "focus-appointments"
	SectionApprovals    = "focus-approvals"
	SectionAlert        = "focus-alert"
	SectionFinance      = "focus-finance"
)

// QuickActionResult names the panel to open for a read-only request. It is a
// routing decision and is never persisted.
type QuickActionResult struct {
	SectionID       string `json:"sectionId"`
	SectionTitle    string `json:"sectionTitle"`
	ResponseMessage string `json:"responseMessage"`
}
